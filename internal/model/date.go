package model

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const (
	dateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// Date is a calendar date without a time component, stored as UTC midnight.
// It maps to a DATE column and to "YYYY-MM-DD" in JSON.
//
// The zero Date means "no due date" and is written as JSON null. 0001-01-01
// is the zero instant, so a client sending it reads back null.
type Date datatypes.Date

// NewDate returns the given calendar date.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf drops the clock part of t, keeping the calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// ParseDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d Date) Equal(other Date) bool {
	return time.Time(d).Equal(time.Time(other))
}

func (d Date) Before(other Date) bool {
	return time.Time(d).Before(time.Time(other))
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(time.Time(d).AddDate(0, 0, n))
}

// DaysUntil returns the number of days from d to other; negative when other is earlier.
// Unix seconds are used because time.Duration saturates past ~292 years.
func (d Date) DaysUntil(other Date) int {
	return int((time.Time(other).Unix() - time.Time(d).Unix()) / secondsPerDay)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return time.Time(d).Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date %s, expected a string", b)
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan reads a DATE column; drivers may hand back any offset, so the result is
// normalized to UTC midnight.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return d.scanText(string(v))
	case string:
		return d.scanText(v)
	}
	var raw datatypes.Date
	if err := raw.Scan(value); err != nil {
		return err
	}
	if time.Time(raw).IsZero() {
		*d = Date{}
		return nil
	}
	*d = DateOf(time.Time(raw))
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return datatypes.Date(d).Value()
}

func (Date) GormDataType() string {
	return "date"
}

func (d *Date) scanText(s string) error {
	if len(s) < len(dateLayout) {
		return fmt.Errorf("scan date: unexpected value %q", s)
	}
	parsed, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return fmt.Errorf("scan date: %w", err)
	}
	*d = DateOf(parsed)
	return nil
}
