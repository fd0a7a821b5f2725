package dbh

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// IntTime is a unix millisecond timestamp, stored in sqlite as an INT column.
// Zero is stored as NULL, which means that 1970-01-01 00:00:00.000 is not representable.
type IntTime int64

func MakeIntTime(t time.Time) IntTime {
	if t.IsZero() {
		return 0
	}
	return IntTime(t.UnixMilli())
}

func (t IntTime) IsZero() bool {
	return t == 0
}

// Get returns the time in UTC, or the zero time.Time
func (t IntTime) Get() time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.UnixMilli(int64(t)).UTC()
}

// Sub returns t - u. If either is zero, the result is zero.
func (t IntTime) Sub(u IntTime) time.Duration {
	if t.IsZero() || u.IsZero() {
		return 0
	}
	return time.Duration(t-u) * time.Millisecond
}

// Scan implements sql.Scanner
func (t *IntTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = 0
	case int64:
		*t = IntTime(v)
	case int32:
		*t = IntTime(v)
	default:
		return fmt.Errorf("Cannot scan %T into IntTime", src)
	}
	return nil
}

// Value implements driver.Valuer
func (t IntTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return int64(t), nil
}
