package signal

import "strings"

// Pair is a tradable instrument: the key sent to the signal endpoint and a
// human label.
type Pair struct {
	Key   string
	Label string
}

// Pairs is the instrument catalogue in display order.
var Pairs = []Pair{
	{Key: "frxEURUSD", Label: "EUR/USD"},
	{Key: "frxUSDJPY", Label: "USD/JPY"},
	{Key: "frxGBPUSD", Label: "GBP/USD"},
	{Key: "frxBTCUSD", Label: "BTC/USD"},
	{Key: "frxAUDUSD", Label: "AUD/USD"},
	{Key: "frxUSDCAD", Label: "USD/CAD"},
}

const (
	DefaultDashboardPair = "frxUSDJPY"
	DefaultPreviewPair   = "frxEURUSD"
)

// LookupPair finds a pair by key ("frxEURUSD"), label ("EUR/USD") or bare
// symbol ("eurusd"), ignoring case.
func LookupPair(s string) (Pair, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Pairs {
		key := strings.ToLower(p.Key)
		label := strings.ToLower(p.Label)
		if want == key || want == label || want == strings.TrimPrefix(key, "frx") || want == strings.ReplaceAll(label, "/", "") {
			return p, nil
		}
	}
	return Pair{}, ErrUnknownPair
}

// Label returns the label for key, or key itself when it is not catalogued.
func Label(key string) string {
	for _, p := range Pairs {
		if p.Key == key {
			return p.Label
		}
	}
	return key
}
