package domain

import (
	"time"

	"github.com/chargeminder/chargeminder/internal/pkg/civil"
)

// ReminderKindCharge is the only reminder kind currently produced: an
// upcoming-charge reminder.
const ReminderKindCharge = "charge"

// ReminderEntry is one row of the send ledger. The composite key
// (subscription, kind, charge date, offset) is unique; an entry is written
// exactly once per successful send and never updated.
type ReminderEntry struct {
	SubscriptionID string
	Kind           string
	ChargeDate     civil.Date
	OffsetDays     int
	SentAt         time.Time
}

// RunResult reports one reminder sweep. It is returned to callers and never
// persisted.
type RunResult struct {
	RanAt          time.Time `json:"ran_at"`
	Timezone       string    `json:"timezone"`
	WindowsChecked int       `json:"windows_checked"`
	Candidates     int       `json:"candidates"`
	Sent           int       `json:"sent"`
	Skipped        int       `json:"skipped"`
	Failed         int       `json:"failed"`
	Warnings       []string  `json:"warnings"`
}
