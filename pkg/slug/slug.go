// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// Slugs identify manga ("test_english"), chapters ("test_english-1-1") and
// user profiles ("alice-2") in URLs.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// disallowed matches everything that is not a word character, whitespace or hyphen.
	disallowed = regexp.MustCompile(`[^a-z0-9_\s-]+`)
	// separators collapses runs of whitespace and hyphens into a single hyphen.
	separators = regexp.MustCompile(`[-\s]+`)
)

// asciiFold decomposes compatibility characters and drops everything that is
// not ASCII afterwards (accents become their base letter, CJK disappears).
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})))

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
//  1. NFKD-normalise and drop non-ASCII runes.
//  2. Lowercase.
//  3. Remove characters other than letters, digits, underscores, whitespace and hyphens.
//  4. Collapse whitespace/hyphen runs into one hyphen.
//  5. Trim leading and trailing hyphens and underscores.
func From(s string) string {
	result, _, err := transform.String(asciiFold, s)
	if err != nil {
		result = s
	}

	result = strings.ToLower(result)
	result = disallowed.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")

	return strings.Trim(result, "-_")
}

// Join slugifies the parts joined by hyphens, e.g. Join("Test_English", "1", "1")
// yields "test_english-1-1".
func Join(parts ...string) string {
	return From(strings.Join(parts, "-"))
}

// WithSuffix returns base for attempt <= 1 and "base-N" otherwise. It produces
// the candidate sequence base, base-2, base-3, ...
func WithSuffix(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(attempt)
}
