// Package strutil provides string helpers shared by the ai packages.
package strutil

import "unicode/utf8"

// Ellipsis is appended to text shortened by Ellipsize.
const Ellipsis = "..."

// Ellipsize shortens s when it is longer than limit runes, keeping the first
// keep runes followed by Ellipsis. Strings within the limit are returned as is.
// Lengths are counted in runes so multi-byte text is never split.
func Ellipsize(s string, limit, keep int) string {
	if limit < 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	if keep < 0 {
		keep = 0
	}
	runes := []rune(s)
	if keep > len(runes) {
		keep = len(runes)
	}
	return string(runes[:keep]) + Ellipsis
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
