package reminders

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Target is a fully resolved push gateway destination. It is rebuilt from
// current settings on every send attempt and never cached across sweeps.
type Target struct {
	URL   string
	Token string
}

// Sender delivers one notification to a resolved gateway target.
type Sender interface {
	Send(ctx context.Context, target Target, title, body string) error
}

// GatewaySettings is the raw gateway configuration read from the settings
// store or supplied by a caller.
type GatewaySettings struct {
	URL   string
	Topic string
	Token string
}

// Settings key aliases, first present wins. The ntfy_* keys are canonical;
// the notification_* keys are kept for older installations.
var (
	urlKeys   = []string{"ntfy_url", "notification_url"}
	topicKeys = []string{"ntfy_topic", "notification_topic"}
	tokenKeys = []string{"ntfy_token", "notification_token"}
)

// GatewaySettingsFrom extracts gateway configuration from a settings map,
// applying key aliasing.
func GatewaySettingsFrom(values map[string]string) GatewaySettings {
	return GatewaySettings{
		URL:   firstPresent(values, urlKeys),
		Topic: firstPresent(values, topicKeys),
		Token: firstPresent(values, tokenKeys),
	}
}

func firstPresent(values map[string]string, keys []string) string {
	for _, key := range keys {
		if v, ok := values[key]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ResolveTarget validates gateway settings and merges the topic into the URL
// path. The URL must be absolute http(s). A topic is required unless the URL
// already carries a non-empty path; when present it is trimmed of surrounding
// slashes and percent-encoded per path segment.
func ResolveTarget(gw GatewaySettings) (Target, error) {
	rawURL := strings.TrimSpace(gw.URL)
	if rawURL == "" {
		return Target{}, &ConfigError{Reason: "gateway URL is not configured"}
	}

	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Target{}, &ConfigError{Reason: fmt.Sprintf("invalid gateway URL %q", rawURL)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Target{}, &ConfigError{Reason: fmt.Sprintf("unsupported gateway URL scheme %q", u.Scheme)}
	}

	topic := strings.Trim(strings.TrimSpace(gw.Topic), "/")
	hasPath := strings.Trim(u.Path, "/") != ""

	if topic == "" {
		if !hasPath {
			return Target{}, &ConfigError{Reason: "gateway topic is required when the URL has no path"}
		}
		return Target{URL: u.String(), Token: gw.Token}, nil
	}

	segments := strings.Split(topic, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	base := strings.TrimRight(u.String(), "/")
	return Target{
		URL:   base + "/" + strings.Join(segments, "/"),
		Token: gw.Token,
	}, nil
}

// maskTargetURL hides part of the URL for logging.
func maskTargetURL(raw string) string {
	if len(raw) > 40 {
		return raw[:20] + "..." + raw[len(raw)-10:]
	}
	return raw
}
