package reminders

import (
	"errors"
	"fmt"
)

// ErrDuplicateEntry is returned by the ledger when an entry for the same
// (subscription, kind, charge date, window) already exists. Callers treat it
// as "already sent", never as a failure.
var ErrDuplicateEntry = errors.New("reminder already recorded")

// ConfigError indicates missing or invalid gateway configuration. It is
// non-fatal for a sweep (downgraded to a warning, candidates are skipped) but
// surfaces directly from the test-notification endpoint.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gateway configuration: %s", e.Reason)
}

// DeliveryError indicates a failed outbound send: a non-2xx gateway response
// or a transport failure. Status is zero for transport failures.
type DeliveryError struct {
	Status int
	Body   string
}

func (e *DeliveryError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("gateway unreachable: %s", e.Body)
}
