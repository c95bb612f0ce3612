// Package civil provides calendar date and wall-clock time handling for a
// configured IANA time zone, including conversions between absolute instants
// and civil time across DST transitions.
package civil

import (
	"fmt"
	"time"
)

// Date is a calendar date without a time component, on the proleptic
// Gregorian calendar.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Time is a wall-clock date/time as observed in some time zone.
type Time struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// ParseDate parses an ISO date string (YYYY-MM-DD). It rejects both malformed
// input and calendar-illegal dates such as February 30.
func ParseDate(s string) (Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}

	var d Date
	if _, err := fmt.Sscanf(s, "%4d-%2d-%2d", &d.Year, &d.Month, &d.Day); err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}

	if d.Month < 1 || d.Month > 12 {
		return Date{}, fmt.Errorf("invalid date %q: month out of range", s)
	}
	if d.Day < 1 || d.Day > daysInMonth(d.Year, d.Month) {
		return Date{}, fmt.Errorf("invalid date %q: day out of range", s)
	}

	return d, nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) Date {
	return DateOf(time.Now().In(loc))
}

// String returns the ISO form YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Display returns the human display form DD/MM/YYYY.
func (d Date) Display() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(o Date) bool {
	return d == o
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	return d.dayNumber() < o.dayNumber()
}

// AddDays adds n calendar days (n may be negative). The arithmetic is done on
// a day-count representation and is independent of any time zone.
func (d Date) AddDays(n int) Date {
	return dateOfDayNumber(d.dayNumber() + n)
}

// dayNumber converts d to the number of days since the Unix epoch
// (1970-01-01), using the civil-from-days algorithm for the proleptic
// Gregorian calendar.
func (d Date) dayNumber() int {
	y := d.Year
	if d.Month <= 2 {
		y--
	}
	era := y / 400
	if y < 0 {
		era = (y - 399) / 400
	}
	yoe := y - era*400
	var mp int
	if d.Month > 2 {
		mp = d.Month - 3
	} else {
		mp = d.Month + 9
	}
	doy := (153*mp+2)/5 + d.Day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// dateOfDayNumber is the inverse of dayNumber.
func dateOfDayNumber(z int) Date {
	z += 719468
	era := z / 146097
	if z < 0 {
		era = (z - 146096) / 146097
	}
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 1461
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if mp >= 10 {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return Date{Year: y, Month: m, Day: day}
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	}
	return 0
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Now decomposes the current instant into the wall-clock fields observed
// in loc.
func Now(loc *time.Location) Time {
	return TimeOf(time.Now().In(loc))
}

// TimeOf decomposes t into wall-clock fields in t's location.
func TimeOf(t time.Time) Time {
	y, m, d := t.Date()
	return Time{
		Year:   y,
		Month:  int(m),
		Day:    d,
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Date returns the calendar date of t.
func (t Time) Date() Date {
	return Date{Year: t.Year, Month: t.Month, Day: t.Day}
}

// toInstantMaxRounds bounds the offset-probing iteration in ToInstant.
const toInstantMaxRounds = 5

// ToInstant maps wall-clock fields in loc back to an absolute instant. The
// zone offset implied by the target fields is probed iteratively: treat the
// fields as UTC, subtract the offset observed at the current estimate, and
// repeat until the estimate converges within one second or the round limit
// is reached. Local times that fall into a DST gap do not have a unique
// instant; they resolve to the last estimate as a best-effort approximation.
func ToInstant(ct Time, loc *time.Location) time.Time {
	asUTC := time.Date(ct.Year, time.Month(ct.Month), ct.Day, ct.Hour, ct.Minute, ct.Second, 0, time.UTC)

	estimate := asUTC
	for i := 0; i < toInstantMaxRounds; i++ {
		_, offset := estimate.In(loc).Zone()
		next := asUTC.Add(-time.Duration(offset) * time.Second)
		delta := next.Sub(estimate)
		if delta > -time.Second && delta < time.Second {
			return next
		}
		estimate = next
	}
	return estimate
}
