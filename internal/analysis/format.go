package analysis

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// FormatMonth turns "2023-12" into "Dec 2023". Unparseable keys are returned
// unchanged.
func FormatMonth(key string) string {
	year, month, ok := strings.Cut(key, "-")
	if !ok {
		return key
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return key
	}
	return monthNames[m-1] + " " + year
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
