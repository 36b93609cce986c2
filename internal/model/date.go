package model

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for experience/education dates. Clients send
// plain calendar dates ("2020-06-01"); full RFC 3339 timestamps are accepted
// too for compatibility with date pickers that serialize midnight UTC.
const dateLayout = "2006-01-02"

// Date is a calendar date used for the from/to fields of sub-documents.
// It wraps time.Time so Before/After comparisons work directly.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC of the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON accepts "2006-01-02" or an RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("model: invalid date %q (want YYYY-MM-DD)", s)
	}
	d.Time = t
	return nil
}

// MarshalJSON emits the date in the "2006-01-02" wire format.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}
