package text

import "strings"

// Rule binds a trigger phrase to a result.
type Rule[T any] struct {
	Trigger string
	Result  T
}

// Rules is an ordered trigger table. Evaluation order is significant because some
// triggers are substrings of others.
type Rules[T any] []Rule[T]

// Contains returns the result of the first rule whose trigger occurs in s.
func (rs Rules[T]) Contains(s string) (T, bool) {
	for _, r := range rs {
		if strings.Contains(s, r.Trigger) {
			return r.Result, true
		}
	}
	var zero T
	return zero, false
}

// LongestPrefix finds the longest trigger that prefixes s, ignoring case, and returns
// its result together with s stripped of that trigger.
func (rs Rules[T]) LongestPrefix(s string) (T, string, bool) {
	var (
		best    T
		bestLen = -1
	)
	for _, r := range rs {
		if len(r.Trigger) > bestLen && HasPrefixFold(s, r.Trigger) {
			best, bestLen = r.Result, len(r.Trigger)
		}
	}
	if bestLen < 0 {
		var zero T
		return zero, s, false
	}
	return best, s[bestLen:], true
}

// HasPrefixFold reports whether s begins with prefix under Unicode case folding.
func HasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
