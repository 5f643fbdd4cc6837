// Package version extracts and compares numeric version tuples from
// version-like strings and paths. It is the base utility behind Qt prefix
// autodetection, the update checker, and the download helper.
package version

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	digitRun = regexp.MustCompile(`\d+`)
	// dotted matches a strict three-part version such as 6.10.1. Path scanning
	// anchors on this pattern so segments like "mingw_64" or "2022" are not
	// mistaken for versions.
	dotted = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)
)

// Parse extracts every maximal run of decimal digits from text, in order of
// appearance. It makes no delimiter assumptions beyond digits vs non-digits,
// so "6.10.1" yields [6 10 1] and "win64_mingw" yields [64].
// The result is empty when text contains no digits.
func Parse(text string) []int {
	matches := digitRun.FindAllString(text, -1)
	tuple := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			// Digit runs longer than an int can hold are skipped rather than
			// aborting the whole parse.
			continue
		}
		tuple = append(tuple, n)
	}
	return tuple
}

// ParseFromPath scans path components from last to first and returns the
// first one containing a three-part dotted version (e.g. 6.10.1) as a
// 3-element tuple. It returns an empty tuple when no component matches.
//
// Unlike Parse, this deliberately requires the dotted X.Y.Z form: directory
// trees like third_party/qt6/6.10.1/mingw_64 contain numeric segments that
// are not versions, and callers rely on those being rejected.
func ParseFromPath(path string) []int {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		m := dotted.FindStringSubmatch(parts[i])
		if m == nil {
			continue
		}
		tuple := make([]int, 3)
		for j := 0; j < 3; j++ {
			tuple[j], _ = strconv.Atoi(m[j+1])
		}
		return tuple
	}
	return nil
}

// CompareTuples lexicographically compares two tuples, returning -1, 0, or 1.
// A tuple that is a strict prefix of the other compares as less.
func CompareTuples(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Compare compares two version-like strings numerically.
// The second return value is false when either input is empty or contains no
// digits, meaning the comparison is unknown.
func Compare(lhs, rhs string) (int, bool) {
	if lhs == "" || rhs == "" {
		return 0, false
	}
	left := Parse(lhs)
	right := Parse(rhs)
	if len(left) == 0 || len(right) == 0 {
		return 0, false
	}
	return CompareTuples(left, right), true
}

// Latest returns the entry with the numerically greatest version tuple,
// ignoring entries without any digits. Ties keep the first-seen entry.
// It returns "" when nothing parses. Trailing slashes (as found in directory
// listings) are stripped from the winner.
func Latest(versions []string) string {
	best := ""
	var bestTuple []int
	for _, v := range versions {
		tuple := Parse(v)
		if len(tuple) == 0 {
			continue
		}
		if best == "" || CompareTuples(tuple, bestTuple) > 0 {
			best = strings.TrimRight(v, "/")
			bestTuple = tuple
		}
	}
	return best
}

// String renders a tuple back into dotted form, e.g. [6 10 1] -> "6.10.1".
// An empty tuple renders as "".
func String(tuple []int) string {
	parts := make([]string, len(tuple))
	for i, n := range tuple {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
