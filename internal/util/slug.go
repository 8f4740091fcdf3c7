// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any run of characters that cannot appear in a slug.
	nonWordRe = regexp.MustCompile(`[^a-z0-9_-]+`)
	// Matches multiple consecutive hyphens.
	multipleHyphenRe = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe slug from free text.
// Every maximal run of non-word characters becomes a single hyphen, the
// result is lowercased, and leading/trailing hyphens are stripped.
// Applied to an already-valid slug it is a no-op.
//
// Examples:
//
//	"Hello, World!"  → "hello-world"
//	"Café au lait"   → "cafe-au-lait"
//	"  multi   word" → "multi-word"
//	"!!!"            → ""
//
// An empty result means the input had no usable characters; callers must
// treat that as a validation failure rather than persist it.
func Slugify(input string) string {
	// Decompose accented characters, then drop anything non-ASCII.
	s := norm.NFKD.String(input)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(strings.TrimSpace(s))

	// Non-word runs collapse to a single hyphen.
	s = nonWordRe.ReplaceAllString(s, "-")
	s = multipleHyphenRe.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// NormalizeTagToken canonicalizes a raw tag string into its storage token.
// The token is the source of truth for tag identity, so "Slow Burn",
// "slow_burn" and "SLOW-BURN!" all resolve to the same tag.
// Uses the same transformation rule as Slugify.
func NormalizeTagToken(input string) string {
	return Slugify(input)
}

// NormalizeTagTokens normalizes a raw tag list into a deduplicated token set,
// preserving first-seen order and dropping entries that normalize to empty.
func NormalizeTagTokens(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, r := range raw {
		token := NormalizeTagToken(r)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}
