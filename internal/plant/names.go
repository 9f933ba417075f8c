package plant

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
)

// DisplayName turns a feed key into a card title. The first rune is upper-cased
// and the first "plant" after it becomes " Plant ", so "powerplant1" reads
// "Power Plant 1". Keys without "plant" are only capitalised.
func DisplayName(key string) string {
	if key == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(key)
	rest := strings.Replace(key[size:], "plant", " Plant ", 1)
	return strings.TrimSpace(string(unicode.ToUpper(first)) + rest)
}

// ClockTime extracts the minute-precision time of day ("HH:MM") from a feed
// timestamp of the form "<date> <HH:MM[:SS]>". Timestamps without a space or
// without a well-formed HH:MM after it return a PAYLOAD error.
func ClockTime(timestamp string) (string, error) {
	_, clock, found := strings.Cut(timestamp, " ")
	if !found {
		return "", errors.New(errors.ErrPayload,
			"Timestamp "+quote(timestamp)+" has no time of day",
			"Expected \"<date> <HH:MM:SS>\"")
	}
	clock = strings.TrimSpace(clock)
	if len(clock) < 5 || !isDigit(clock[0]) || !isDigit(clock[1]) || clock[2] != ':' || !isDigit(clock[3]) || !isDigit(clock[4]) {
		return "", errors.New(errors.ErrPayload,
			"Timestamp "+quote(timestamp)+" has a malformed time of day",
			"Expected \"<date> <HH:MM:SS>\"")
	}
	return clock[:5], nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func quote(s string) string {
	return "'" + s + "'"
}
