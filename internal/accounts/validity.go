package accounts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const lifetime = "lifetime"

// Validity is either unbounded (lifetime) or a positive number of days.
// The zero value is lifetime.
type Validity struct {
	days int
}

func Lifetime() Validity { return Validity{} }

// Days returns a finite validity. n must be positive; see ParseValidity for
// checked construction from user input.
func Days(n int) Validity { return Validity{days: n} }

func (v Validity) IsLifetime() bool { return v.days <= 0 }

func (v Validity) Days() int { return v.days }

func (v Validity) String() string {
	if v.IsLifetime() {
		return lifetime
	}
	if v.days == 1 {
		return "1 day"
	}
	return strconv.Itoa(v.days) + " days"
}

// ParseValidity accepts "lifetime" or a positive integer day count.
func ParseValidity(s string) (Validity, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == lifetime {
		return Lifetime(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return Validity{}, fmt.Errorf("%w: %q", ErrInvalidValidity, s)
	}
	return Days(n), nil
}

// MarshalJSON writes "lifetime" or the day count as a number.
func (v Validity) MarshalJSON() ([]byte, error) {
	if v.IsLifetime() {
		return json.Marshal(lifetime)
	}
	return json.Marshal(v.days)
}

func (v *Validity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != lifetime {
			return fmt.Errorf("%w: %q", ErrInvalidValidity, s)
		}
		*v = Lifetime()
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidValidity, b)
	}
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidValidity, n)
	}
	*v = Days(n)
	return nil
}
