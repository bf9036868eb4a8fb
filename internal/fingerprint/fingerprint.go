// Package fingerprint derives a stable device identifier from attributes of
// the environment the client runs in.
//
// The identifier is a weak proxy for "this machine": it changes when the
// terminal size, locale or timezone change, and it is not secret. Its only
// job is binding an account to the device of its first login.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/signaldesk/internal/buildinfo"
	"golang.org/x/term"
)

// UnknownProcessors stands in for a processor count that cannot be read.
const UnknownProcessors = "unknown"

const delimiter = "|"

// Environment is the ordered set of attributes the fingerprint covers.
// Processors == 0 means the count is unavailable.
type Environment struct {
	UserAgent       string
	Locale          string
	ScreenWidth     int
	ScreenHeight    int
	ColorDepth      int
	TZOffsetMinutes int
	Processors      int
	Platform        string
}

func (e Environment) attributes() []string {
	processors := UnknownProcessors
	if e.Processors > 0 {
		processors = strconv.Itoa(e.Processors)
	}
	return []string{
		e.UserAgent,
		e.Locale,
		strconv.Itoa(e.ScreenWidth),
		strconv.Itoa(e.ScreenHeight),
		strconv.Itoa(e.ColorDepth),
		strconv.Itoa(e.TZOffsetMinutes),
		processors,
		e.Platform,
	}
}

// Generate returns the lowercase hex SHA-256 of the attributes joined by "|".
func Generate(env Environment) string {
	sum := sha256.Sum256([]byte(strings.Join(env.attributes(), delimiter)))
	return hex.EncodeToString(sum[:])
}

// test seams
var (
	getenv   = os.Getenv
	termSize = func() (int, int, error) { return term.GetSize(int(os.Stdout.Fd())) }
	now      = time.Now
	numCPU   = runtime.NumCPU
)

// Collect reads the current process environment. The terminal stands in for
// the screen: its columns and rows are the width and height.
func Collect() Environment {
	w, h, err := termSize()
	if err != nil || w <= 0 || h <= 0 {
		w, h = 80, 24
	}

	return Environment{
		UserAgent:       "signaldesk/" + buildinfo.Version() + " (" + runtime.GOOS + "; " + runtime.GOARCH + ")",
		Locale:          locale(),
		ScreenWidth:     w,
		ScreenHeight:    h,
		ColorDepth:      colorDepth(),
		TZOffsetMinutes: tzOffsetMinutes(now()),
		Processors:      numCPU(),
		Platform:        runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// locale turns "en_US.UTF-8" into "en-US".
func locale() string {
	raw := getenv("LC_ALL")
	if raw == "" {
		raw = getenv("LANG")
	}
	if raw == "" || raw == "C" || raw == "POSIX" {
		return "en-US"
	}
	raw, _, _ = strings.Cut(raw, ".")
	raw, _, _ = strings.Cut(raw, "@")
	return strings.ReplaceAll(raw, "_", "-")
}

func colorDepth() int {
	ct := strings.ToLower(getenv("COLORTERM"))
	if ct == "truecolor" || ct == "24bit" {
		return 24
	}
	if strings.Contains(getenv("TERM"), "256color") {
		return 8
	}
	return 4
}

// tzOffsetMinutes follows the browser convention: minutes behind UTC, so
// UTC+2 yields -120.
func tzOffsetMinutes(t time.Time) int {
	_, offset := t.Zone()
	return -offset / 60
}
