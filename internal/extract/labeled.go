// Package extract resolves the structured field record for a segment from
// its text and classification, via ordered pattern libraries, keyword
// tables and fallback chains. No field extraction fails; absence is
// always representable as an empty string.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	enumMarkerRe = regexp.MustCompile(`^\d+[\.\)]\s*`)

	// nextLabelRe truncates a greedy capture at the first known
	// next-field label so one value cannot swallow the following field.
	nextLabelRe = regexp.MustCompile(`(?:Địa điểm|Nhóm dự án|Nội dung|Địa chỉ|Tổng mức)`)
)

// labeledValue tries an ordered list of label-parameterized patterns and
// returns the first captured value whose length falls inside
// [minLen,maxLen] runes. The label may itself be a regex fragment.
func labeledValue(text, label string, minLen, maxLen int) string {
	// The alternation closes each value at the next numbered label or at
	// end of input; "\n?\z" keeps a value on the final line matchable when
	// the text carries a trailing newline.
	patterns := []string{
		fmt.Sprintf(`(?is)\d+\.\s*%s\s*[:：]\s*([^\n]+?)(?:\n\d+\.|\n?\z)`, label),
		fmt.Sprintf(`(?is)%s\s*[:：]\s*([^\n]+?)(?:\n\d+\.|\n?\z)`, label),
		fmt.Sprintf(`(?is)%s\s*[:：]\s*([^\n]+?)(?:\n[A-Z]|\n?\z)`, label),
	}

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		value = enumMarkerRe.ReplaceAllString(value, "")
		value = strings.TrimSpace(strings.ReplaceAll(value, "\n", " "))
		value = strings.TrimSpace(nextLabelRe.Split(value, 2)[0])

		if n := utf8.RuneCountInString(value); n >= minLen && n <= maxLen {
			return value
		}
	}
	return ""
}

// truncateRunes caps s at max runes.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
