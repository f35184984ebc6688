// Package boundary decides whether a page starts a new logical document,
// scoring letterhead and issuing-unit signals over parsed headings.
package boundary

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// diacriticFixes corrects tone-placement variants the recognizer commonly
// confuses, so canonical phrases match either spelling.
var diacriticFixes = strings.NewReplacer("HOÀ", "HÒA", "HOẠ", "HÒA")

// Normalize canonicalizes text for approximate matching: NFKC, upper-case,
// diacritic-confusion fixes, whitespace collapse.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToUpper(text)
	text = diacriticFixes.Replace(text)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// FuzzyContains tests approximate containment of needle in haystack after
// normalization. Exact containment yields ratio 1.0; otherwise a window of
// the needle's length slides across the haystack and the best edit
// similarity is taken. Returns whether the best ratio meets threshold.
func FuzzyContains(haystack, needle string, threshold float64) (bool, float64) {
	h := []rune(Normalize(haystack))
	n := []rune(Normalize(needle))

	if len(n) == 0 {
		return false, 0
	}
	if strings.Contains(string(h), string(n)) {
		return true, 1.0
	}

	best := 0.0
	for i := 0; i+len(n) <= len(h); i++ {
		ratio := similarity(h[i:i+len(n)], n)
		if ratio > best {
			best = ratio
		}
		if best >= threshold {
			return true, best
		}
	}
	return best >= threshold, best
}

// similarity is 1 - editDistance/maxLen over rune slices.
func similarity(a, b []rune) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein is the minimum number of single-rune edits (insertions,
// deletions, substitutions) between a and b. Two-row matrix for space.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minOf(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
