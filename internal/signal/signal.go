// Package signal fetches trading signals and keeps the one for the selected
// pair fresh, with a per-second countdown between fetches.
package signal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	Green Direction = "GREEN"
	Red   Direction = "RED"
)

// Action is the trading action a direction suggests.
func (d Direction) Action() string {
	if d == Green {
		return "BUY"
	}
	return "SELL"
}

// Signal is one prediction for a pair. Timer is "mm:ss".
type Signal struct {
	Direction      Direction       `json:"direction"`
	Confidence     decimal.Decimal `json:"confidence"`
	LivePrice      decimal.Decimal `json:"live_price"`
	PredictedPrice decimal.Decimal `json:"predicted_price"`
	Timer          string          `json:"timer"`
}

var hundred = decimal.NewFromInt(100)

// PriceChange is (predicted - live) / live * 100, rounded to 2 decimals.
// A zero live price yields zero.
func (s Signal) PriceChange() decimal.Decimal {
	return s.rawChange().Round(2)
}

func (s Signal) rawChange() decimal.Decimal {
	if s.LivePrice.IsZero() {
		return decimal.Zero
	}
	return s.PredictedPrice.Sub(s.LivePrice).Div(s.LivePrice).Mul(hundred)
}

// FormatChange renders the change with two decimals and a leading "+" for
// positive values, e.g. "+0.44%".
func (s Signal) FormatChange() string {
	raw := s.rawChange()
	sign := ""
	if raw.IsPositive() {
		sign = "+"
	}
	return sign + raw.StringFixed(2) + "%"
}

// ParseTimer converts "mm:ss" to whole seconds.
func ParseTimer(s string) (int, error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimer, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimer, s)
	}
	sec, err := strconv.Atoi(ss)
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimer, s)
	}
	return m*60 + sec, nil
}

// FormatTimer renders seconds as zero-padded "mm:ss". Negative input is
// treated as zero.
func FormatTimer(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Tick is one step of the countdown: down by one, never below zero.
func Tick(countdown int) int {
	if countdown <= 0 {
		return 0
	}
	return countdown - 1
}
