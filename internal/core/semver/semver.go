// Package semver contains the pure version matching logic for package ranges.
// This is part of the Functional Core - no I/O, only pure functions.
//
// The grammar is deliberately smaller and more forgiving than full semver:
// caret, tilde, the four comparison operators, space-separated AND compounds,
// and the "*" / empty wildcard. Anything unparseable falls through to exact
// string equality rather than returning an error.
package semver

import (
	"strconv"
	"strings"
)

// Compare compares two dot-separated version strings.
// Returns:
//
//	-1 if a < b
//	 0 if a == b
//	 1 if a > b
//
// Segments are compared numerically left to right; missing segments are
// treated as 0, and non-numeric segments parse as 0.
func Compare(a, b string) int {
	as := segments(a)
	bs := segments(b)

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		av := segmentAt(as, i)
		bv := segmentAt(bs, i)
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}

	return 0
}

// Satisfies reports whether version satisfies the given range expression.
//
// Supported forms, in evaluation order:
//   - "" or "*": always satisfied
//   - exact string equality
//   - compound "A B" (space-separated): every clause must satisfy (AND)
//   - "^X.Y.Z": same major, and version >= X.Y.Z
//   - "~X.Y.Z": same major and minor, and patch >= Z
//   - ">=V", ">V", "<=V", "<V": plain comparison
//   - fallback: exact string equality (false for anything unrecognised)
//
// Compound ranges are split before single-operator parsing so that
// ">=1.0.0 <2.0.0" is never misread as one operator clause.
func Satisfies(version, rng string) bool {
	rng = strings.TrimSpace(rng)

	if rng == "" || rng == "*" {
		return true
	}
	if version == rng {
		return true
	}

	// Compound range: all clauses must hold.
	if strings.ContainsAny(rng, " \t") {
		for _, clause := range clauses(rng) {
			if !Satisfies(version, clause) {
				return false
			}
		}
		return true
	}

	switch {
	case strings.HasPrefix(rng, "^"):
		return satisfiesCaret(version, rng[1:])
	case strings.HasPrefix(rng, "~"):
		return satisfiesTilde(version, rng[1:])
	case strings.HasPrefix(rng, ">="):
		return Compare(version, strings.TrimSpace(rng[2:])) >= 0
	case strings.HasPrefix(rng, "<="):
		return Compare(version, strings.TrimSpace(rng[2:])) <= 0
	case strings.HasPrefix(rng, ">"):
		return Compare(version, strings.TrimSpace(rng[1:])) > 0
	case strings.HasPrefix(rng, "<"):
		return Compare(version, strings.TrimSpace(rng[1:])) < 0
	}

	// Unparseable ranges fall through to exact match, which already failed.
	return false
}

// clauses splits a compound range on whitespace, re-joining an operator
// written with a space before its version (">= 1.0.0") with that version so
// it evaluates as one clause.
func clauses(rng string) []string {
	fields := strings.Fields(rng)
	out := make([]string, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if isOperator(f) && i+1 < len(fields) {
			i++
			f += fields[i]
		}
		out = append(out, f)
	}
	return out
}

func isOperator(s string) bool {
	switch s {
	case "^", "~", ">=", ">", "<=", "<":
		return true
	}
	return false
}

// satisfiesCaret implements "^X.Y.Z": major must match exactly and the
// version must not be older than the target.
func satisfiesCaret(version, target string) bool {
	if segmentAt(segments(version), 0) != segmentAt(segments(target), 0) {
		return false
	}
	return Compare(version, target) >= 0
}

// satisfiesTilde implements "~X.Y.Z": major and minor must match exactly and
// the patch segment must not be older than the target's.
func satisfiesTilde(version, target string) bool {
	vs := segments(version)
	ts := segments(target)
	if segmentAt(vs, 0) != segmentAt(ts, 0) {
		return false
	}
	if segmentAt(vs, 1) != segmentAt(ts, 1) {
		return false
	}
	return segmentAt(vs, 2) >= segmentAt(ts, 2)
}

// segments parses a version string into numeric segments.
// A leading "v" is tolerated; segments that fail to parse count as 0.
func segments(version string) []int {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		return nil
	}

	parts := strings.Split(version, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			out[i] = n
		}
	}
	return out
}

// segmentAt returns the segment at index i, or 0 when the version has
// fewer segments.
func segmentAt(segs []int, i int) int {
	if i < len(segs) {
		return segs[i]
	}
	return 0
}
