// Package cardnum turns raw magnetic-stripe reader output or keyed-in text
// into a guest card number.
package cardnum

import (
	"regexp"
	"strings"
)

const (
	MinLength = 6
	MaxLength = 12
)

var validRe = regexp.MustCompile(`^\d{6,12}$`)

// IsSwipe reports whether raw looks like stripe data rather than a number
// typed by hand: it carries track sentinels or more digits than any card
// number has.
func IsSwipe(raw string) bool {
	return strings.ContainsAny(raw, ";=?") || len(digits(raw)) > MaxLength
}

// Extract returns the card number held in raw, or "" when raw has no digits.
// Swipe data is cut at the first field separator ('=', '?' or '+') and the
// longest run of digits before it wins; manual entry keeps every digit.
func Extract(raw string) string {
	if raw == "" {
		return ""
	}
	if !IsSwipe(raw) {
		return digits(raw)
	}

	prefix := raw
	if i := strings.IndexAny(raw, "=?+"); i >= 0 {
		prefix = raw[:i]
	}
	if run := longestRun(prefix); run != "" {
		return run
	}
	// separator came before any digits, e.g. a bare "?" prefix
	return longestRun(raw)
}

// IsValid reports whether s is 6 to 12 ASCII digits.
func IsValid(s string) bool {
	return validRe.MatchString(s)
}

// Format groups s in blocks of four for display.
func Format(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range []rune(s) {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Best picks the number read most often across several swipes of the same
// card, ignoring reads that are not valid. Ties go to the number seen first.
func Best(attempts []string) string {
	counts := map[string]int{}
	order := []string{}
	for _, a := range attempts {
		n := Extract(a)
		if !IsValid(n) {
			continue
		}
		if counts[n] == 0 {
			order = append(order, n)
		}
		counts[n]++
	}

	best := ""
	for _, n := range order {
		if counts[n] > counts[best] {
			best = n
		}
	}
	return best
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func longestRun(s string) string {
	best, start := "", -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if i-start > len(best) {
				best = s[start:i]
			}
			start = -1
		}
	}
	return best
}
