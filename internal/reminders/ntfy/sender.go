// Package ntfy provides notification delivery via an ntfy-compatible push
// gateway over plain HTTP.
package ntfy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/chargeminder/chargeminder/internal/reminders"
)

const (
	defaultTimeout = 10 * time.Second

	// ntfy truncates error bodies anyway; keep logged/reported bodies short.
	maxErrorBody = 512
)

// Config holds ntfy sender configuration. The gateway URL and token live in
// runtime settings, so only transport knobs are configured here.
type Config struct {
	Timeout time.Duration // request timeout
	// RateLimit caps outbound sends per second, 0 disables limiting.
	// Public ntfy.sh throttles aggressive publishers.
	RateLimit float64
}

// Sender implements reminders.Sender against an ntfy topic URL.
type Sender struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSender creates a new ntfy sender.
func NewSender(config Config) *Sender {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &Sender{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: limiter,
	}
}

// Send publishes one message to the target's topic URL. The body goes as
// plain text with the title in the ntfy Title header.
func (s *Sender) Send(ctx context.Context, target reminders.Target, title, body string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if title != "" {
		req.Header.Set("Title", title)
	}
	if target.Token != "" {
		req.Header.Set("Authorization", "Bearer "+target.Token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &reminders.DeliveryError{Body: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	return s.handleResponse(resp, target.URL)
}

func (s *Sender) handleResponse(resp *http.Response, targetURL string) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		slog.Debug("ntfy message published", "target", maskTargetURL(targetURL))
		return nil
	}

	return &reminders.DeliveryError{
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
}

// maskTargetURL hides part of the URL for logging.
func maskTargetURL(url string) string {
	if len(url) > 40 {
		return url[:20] + "..." + url[len(url)-10:]
	}
	return url
}
