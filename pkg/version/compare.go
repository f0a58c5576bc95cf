// Package version compares package version strings segment by segment.
package version

import (
	"strings"

	"aipster/pkg/manager"
)

// Result is the outcome of comparing two versions.
type Result int

const (
	Less    Result = -1
	Equal   Result = 0
	Greater Result = 1
)

// String returns a printable form of r.
func (r Result) String() string {
	switch r {
	case Less:
		return "less"
	case Greater:
		return "greater"
	}
	return "equal"
}

// Invert returns the result of the comparison with its operands swapped.
func (r Result) Invert() Result {
	return -r
}

// Compare compares a and b.
//
// Versions are split on '.', '-', '_' and '+', and each part further into
// runs of digits and runs of other characters, so "1.9rc1" reads as 1, 9,
// "rc", 1. Digit runs compare numerically, other runs byte by byte, and a
// digit run always sorts before a text run. Missing trailing parts count as
// 0, so "1.0" equals "1" and "1.0-beta" is above "1.0". A leading "v" is
// ignored. Compare never fails and is a total order over all strings.
func Compare(a, b string) Result {
	if a == b {
		return Equal
	}

	as := tokens(a)
	bs := tokens(b)

	for i := 0; i < max(len(as), len(bs)); i++ {
		if r := compareToken(at(as, i), at(bs, i)); r != Equal {
			return r
		}
	}
	return Equal
}

// Upgradable reports whether candidate is a newer version of installed.
func Upgradable(installed, candidate manager.Package) bool {
	return installed.Name == candidate.Name && Compare(installed.Version, candidate.Version) == Less
}

// tokens splits v into its digit and non-digit runs.
func tokens(v string) []string {
	v = strings.TrimSpace(v)
	if len(v) > 1 && (v[0] == 'v' || v[0] == 'V') && isDigit(v[1]) {
		v = v[1:]
	}

	var out []string
	parts := strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-' || r == '_' || r == '+'
	})
	for _, part := range parts {
		start := 0
		for i := 1; i <= len(part); i++ {
			if i == len(part) || isDigit(part[i]) != isDigit(part[start]) {
				out = append(out, part[start:i])
				start = i
			}
		}
	}
	return out
}

func at(toks []string, i int) string {
	if i < len(toks) {
		return toks[i]
	}
	return "0"
}

func compareToken(a, b string) Result {
	an, bn := isNumeric(a), isNumeric(b)
	switch {
	case an && bn:
		return compareNumeric(a, b)
	case an:
		return Less
	case bn:
		return Greater
	}
	return compareLexical(a, b)
}

// compareNumeric compares two digit strings of any length.
func compareNumeric(a, b string) Result {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return Less
		}
		return Greater
	}
	return compareLexical(a, b)
}

func compareLexical(a, b string) Result {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	}
	return Equal
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
