// Package parser turns raw recognized page text into typed structural
// elements. The upstream recognizer emits a loose markdown dialect where
// letterheads and document titles are often rendered as bare upper-case
// lines, so heading detection goes beyond '#' markers.
package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/vanban/internal/models"
)

const (
	maxHeadingLen = 100
	maxKeyLen     = 50
	maxDashSplits = 3
)

var (
	strippableRe = regexp.MustCompile("[0-9\\s\\.,\\-:;()\\[\\]/\\\\\"'`|–—]")
	numberedItem = regexp.MustCompile(`^\d+\.`)
	dateLikeRe   = regexp.MustCompile(`(?i)ngày|tháng|năm|\d{1,2}/\d{1,2}/\d{4}`)
	locationRe   = regexp.MustCompile(`^(Hà Nội|TP\.|Thành phố)`)
	signatureRe  = regexp.MustCompile(`(Thiếu tướng|Đại tá|Trung tá)`)

	htmlTagRe   = regexp.MustCompile(`<[^>]+>`)
	tableRuleRe = regexp.MustCompile(`\|[\s\-:]+\|`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
)

// ParsePage parses one recognition result into a ParsedPage. Input that
// fits no structural rule degrades into paragraphs; there are no error
// conditions.
func ParsePage(page models.PageResult) *models.ParsedPage {
	elements := Parse(page.Markdown)
	return &models.ParsedPage{
		PageNumber: page.Page,
		Width:      page.Width,
		Height:     page.Height,
		Raw:        page.Markdown,
		Elements:   elements,
		Stats: models.PageStats{
			TextLength:       len(page.Markdown),
			NumHeadings:      len(elements.Headings),
			NumParagraphs:    len(elements.Paragraphs),
			NumLists:         len(elements.Lists),
			NumTables:        len(elements.Tables),
			NumKeyValuePairs: len(elements.KeyValuePairs),
		},
	}
}

// Parse scans text line by line and collects headings, paragraphs, lists,
// tables and key-value pairs in document order.
func Parse(text string) *models.Elements {
	elements := &models.Elements{}
	var currentList []string
	var currentTable [][]string
	inTable := false

	flushList := func() {
		if len(currentList) > 0 {
			elements.Lists = append(elements.Lists, currentList)
			currentList = nil
		}
	}
	flushTable := func() {
		if len(currentTable) > 0 {
			elements.Tables = append(elements.Tables, currentTable)
		}
		currentTable = nil
		inTable = false
	}

	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)

		if s == "" {
			flushList()
			if inTable {
				flushTable()
			}
			continue
		}

		if strings.HasPrefix(s, "#") {
			level, text := splitHeadingMarker(s)
			if text != "" {
				elements.Headings = append(elements.Headings, models.Heading{Level: level, Text: text})
			}
			continue
		}

		isUpper := isUppercaseLine(s)

		if isUpper && utf8.RuneCountInString(s) <= maxHeadingLen &&
			!strings.HasPrefix(s, "-") && !strings.HasPrefix(s, "*") &&
			!strings.HasPrefix(s, "+") && !strings.HasPrefix(s, "|") &&
			!dateLikeRe.MatchString(s) && !locationRe.MatchString(s) && !signatureRe.MatchString(s) {
			elements.Headings = append(elements.Headings, models.Heading{Level: 1, Text: s})
			continue
		}

		if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "*") || strings.HasPrefix(s, "+") {
			currentList = append(currentList, strings.TrimSpace(s[1:]))
			continue
		}
		if numberedItem.MatchString(s) {
			_, item, _ := strings.Cut(s, ".")
			currentList = append(currentList, strings.TrimSpace(item))
			continue
		}

		if strings.Contains(s, "|") && !isUpper {
			if !inTable {
				inTable = true
				currentTable = nil
			}
			currentTable = append(currentTable, splitTableRow(s))
			continue
		}

		if kv, ok := splitKeyValue(s, isUpper); ok {
			elements.KeyValuePairs = append(elements.KeyValuePairs, kv)
			continue
		}

		elements.Paragraphs = append(elements.Paragraphs, s)
	}

	flushList()
	flushTable()
	return elements
}

// CleanText strips markup remnants (tags, table rules) and collapses
// whitespace, preparing segment text for field extraction.
func CleanText(text string) string {
	text = htmlTagRe.ReplaceAllString(text, " ")
	text = tableRuleRe.ReplaceAllString(text, " ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func splitHeadingMarker(s string) (level int, text string) {
	level = 1
	for level < 4 && strings.HasPrefix(s[level:], "#") {
		level++
	}
	return level, strings.TrimSpace(s[level:])
}

// isUppercaseLine reports whether the line, after stripping digits,
// punctuation, brackets and quotes, is non-empty and contains no
// lower-case letters.
func isUppercaseLine(s string) bool {
	residue := strippableRe.ReplaceAllString(s, "")
	if residue == "" {
		return false
	}
	return !strings.ContainsFunc(residue, unicode.IsLower)
}

// splitTableRow splits a pipe-delimited row, dropping the empty edge
// cells produced by leading/trailing pipes.
func splitTableRow(s string) []string {
	parts := strings.Split(s, "|")
	if len(parts) <= 2 {
		return []string{}
	}
	cells := make([]string, 0, len(parts)-2)
	for _, cell := range parts[1 : len(parts)-1] {
		cells = append(cells, strings.TrimSpace(cell))
	}
	return cells
}

// splitKeyValue splits a line at the first ':' or ' - ' delimiter. Key
// length and delimiter repetition bounds keep prose sentences from being
// misread as pairs.
func splitKeyValue(s string, isUpper bool) (models.KeyValue, bool) {
	if isUpper {
		return models.KeyValue{}, false
	}
	if strings.Contains(s, ":") {
		key, value, _ := strings.Cut(s, ":")
		if utf8.RuneCountInString(key) < maxKeyLen {
			return models.KeyValue{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}, true
		}
		return models.KeyValue{}, false
	}
	if strings.Contains(s, " - ") && strings.Count(s, " - ") <= maxDashSplits {
		key, value, _ := strings.Cut(s, " - ")
		return models.KeyValue{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}, true
	}
	return models.KeyValue{}, false
}
