// Package phone normalizes and validates Indonesian WhatsApp numbers.
package phone

import (
	"regexp"
	"strings"
)

var waPattern = regexp.MustCompile(`^628\d{7,13}$`)

var separators = strings.NewReplacer(
	" ", "",
	"-", "",
	".", "",
	"(", "",
	")", "",
	"\t", "",
)

// Normalize strips separators and a leading "+" from a phone number.
// It does not rewrite local prefixes like "08"; callers must submit the
// international form.
func Normalize(number string) string {
	number = separators.Replace(strings.TrimSpace(number))
	return strings.TrimPrefix(number, "+")
}

// Valid reports whether an already normalized number is a 628... WhatsApp number.
func Valid(number string) bool {
	return waPattern.MatchString(number)
}
