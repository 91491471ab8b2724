package db

import (
	"fmt"
	"strconv"
)

// NextCode derives the identifier following last, which is expected to be
// an upper-case letter prefix of prefixLen characters followed by digits.
// The numeric part is incremented and zero-padded to width. When last is
// empty or malformed, first is returned.
func NextCode(last string, prefixLen, width int, first string) string {
	if len(last) <= prefixLen {
		return first
	}
	prefix, digits := last[:prefixLen], last[prefixLen:]
	for _, r := range prefix {
		if r < 'A' || r > 'Z' {
			return first
		}
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return first
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return first
	}
	return prefix + fmt.Sprintf("%0*d", width, n+1)
}
