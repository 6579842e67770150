// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates lowercase, accent-free URL slugs from Unicode strings.
//
// # Usage
//
// Slugs are the uniqueness key for artist names (e.g., "Élodie Marchand" and
// "elodie marchand" both become "elodie-marchand").
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a slug. Letters of any script
// are kept; Latin letters lose their accents.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Replaces everything but letters and digits with hyphens.
// 5. Collapses multiple hyphens and trims leading/trailing hyphens.
func From(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 2. Lowercase
	result = strings.ToLower(result)

	// 3. Replace whitespace and special chars with hyphens
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	// 4. Clean up hyphenation
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
