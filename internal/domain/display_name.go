package domain

import (
	"strings"
	"unicode"
)

// BusinessName guesses a place name from a free-text address.
// "Starbucks, 789 Elm St, Houston, TX" yields "Starbucks"; an address whose
// first comma-separated segment starts with a digit yields "".
func BusinessName(address string) string {
	first, _, found := strings.Cut(address, ",")
	if !found {
		return ""
	}

	first = strings.TrimSpace(first)
	if first == "" {
		return ""
	}

	r := []rune(first)[0]
	if unicode.IsDigit(r) {
		return ""
	}

	return first
}

// DisplayNameForAddress returns the best label derivable from an address alone.
func DisplayNameForAddress(address string) string {
	if name := BusinessName(address); name != "" {
		return name
	}
	return strings.TrimSpace(address)
}
