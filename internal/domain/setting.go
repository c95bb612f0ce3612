package domain

import "time"

// Setting is a key/value row in the settings store.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
