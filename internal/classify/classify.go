// Package classify assigns a document-type label and header metadata to a
// segment from its first-page headings and full text.
package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/vanban/internal/models"
)

const (
	titleMaxLines = 10
	titleMinLen   = 15
	titleMaxLen   = 500
	refMinLen     = 5
)

// docType pairs a label with its heading patterns; listed in priority
// order, with unaccented alternates for degraded OCR output.
type docType struct {
	name     string
	patterns []*regexp.Regexp
}

var docTypes = []docType{
	{"Quyết định", compileAll(`QUYẾT\s*ĐỊNH`, `QUYET\s*DINH`)},
	{"Tờ trình", compileAll(`TỜ\s*TRÌNH`, `TO\s*TRINH`)},
	{"Thư mời quan tâm", compileAll(`THƯ\s*MỜI\s*QUAN\s*TÂM`)},
	{"Biên bản", compileAll(`BIÊN\s*BẢN`, `BIEN\s*BAN`)},
	{"Hợp đồng", compileAll(`HỢP\s*ĐỒNG`, `HOP\s*DONG`)},
	{"Thông báo", compileAll(`THÔNG\s*BÁO`, `THONG\s*BAO`)},
	{"Công văn", compileAll(`CÔNG\s*VĂN`, `CONG\s*VAN`)},
	{"Báo cáo", compileAll(`BÁO\s*CÁO`, `BAO\s*CAO`)},
}

var (
	anyTypeLineRe = regexp.MustCompile(`(?i)(QUYẾT ĐỊNH|TỜ TRÌNH|BIÊN BẢN|HỢP ĐỒNG|THÔNG BÁO|CÔNG VĂN|BÁO CÁO)`)
	longDateRe    = regexp.MustCompile(`(?i)ngày\s+\d{1,2}\s+tháng\s+\d{1,2}\s+năm\s+\d{4}`)
	issueDateRe   = regexp.MustCompile(`(?i)ngày\s+(\d{1,2})\s+tháng\s+(\d{1,2})\s+năm\s+(\d{4})`)
	enumMarkerRe  = regexp.MustCompile(`^\d+[\.\)]\s*`)
	spaceRunRe    = regexp.MustCompile(`\s+`)

	refPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Số\s*[:.]?\s*([0-9/\-A-ZĐ]+)`),
		regexp.MustCompile(`(?i)([0-9]+/[A-ZĐ]{2,4}[-\s][A-ZĐ0-9]{2,10})`),
	}

	// titleStopKeywords end the title scan: letterhead boilerplate,
	// authority preambles, numbering and article markers.
	titleStopKeywords = []string{
		"CỘNG HÒA", "ĐỘC LẬP", "HÀ NỘI", "LÃNH ĐẠO",
		"CĂN CỨ", "THEO ĐỀ NGHỊ", "XÉT ĐỀ NGHỊ",
		"QUYẾT ĐỊNH:", "TỜ TRÌNH:", "SỐ:", "ĐIỀU 1",
	}

	// unitKeywords mark issuing-organization headings; letterhead lines
	// are excluded separately.
	unitKeywords     = []string{"BỘ ", "TRUNG TÂM", "CÔNG TY", "SỞ ", "PHÒNG ", "VIỆN "}
	unitExcludeWords = []string{"CỘNG HÒA", "ĐỘC LẬP"}
)

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(`(?i)`+p))
	}
	return res
}

// Classify derives the Classification for a segment. Unmatched fields stay
// empty; an unmatched document type is labeled "Không xác định".
func Classify(text string, headings []models.Heading) *models.Classification {
	c := &models.Classification{DocType: models.DocTypeUnknown}

	matchedHeading := ""
	for _, heading := range headings {
		if name, ok := matchDocType(heading.Text); ok {
			c.DocType = name
			matchedHeading = heading.Text
			break
		}
	}

	if matchedHeading != "" {
		c.Title = extractTitle(text, matchedHeading)
	}
	c.RefNumber = extractRefNumber(text)
	c.IssuingUnit = issuingUnit(headings)
	if m := issueDateRe.FindStringSubmatch(text); m != nil {
		c.IssuedDate = "ngày " + m[1] + " tháng " + m[2] + " năm " + m[3]
	}
	return c
}

func matchDocType(headingText string) (string, bool) {
	for _, dt := range docTypes {
		for _, pattern := range dt.patterns {
			if pattern.MatchString(headingText) {
				return dt.name, true
			}
		}
	}
	return "", false
}

// extractTitle accumulates the lines following the document-type line
// until a stop condition, then accepts the joined text only within the
// configured length window.
func extractTitle(text, typeHeading string) string {
	lines := strings.Split(text, "\n")

	typeIdx := -1
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if (strings.Contains(line, typeHeading) || anyTypeLineRe.MatchString(stripped)) &&
			utf8.RuneCountInString(stripped) < 100 {
			typeIdx = i
			break
		}
	}
	if typeIdx < 0 {
		return ""
	}

	idx := typeIdx + 1
	for idx < len(lines) && strings.TrimSpace(lines[idx]) == "" {
		idx++
	}
	if idx >= len(lines) {
		return ""
	}

	var titleLines []string
	for idx < len(lines) && len(titleLines) < titleMaxLines {
		line := strings.TrimSpace(lines[idx])

		if containsStopKeyword(line) {
			break
		}
		if longDateRe.MatchString(line) {
			break
		}
		if line == "" && len(titleLines) > 0 {
			// A blank run ends the title unless the next line reads as a
			// lower-case continuation of it.
			if idx+1 < len(lines) {
				next := strings.TrimSpace(lines[idx+1])
				if next != "" && !startsUpper(next) {
					idx++
					continue
				}
			}
			break
		}
		if line != "" {
			titleLines = append(titleLines, line)
		}
		idx++
	}

	if len(titleLines) == 0 {
		return ""
	}
	title := strings.Join(titleLines, " ")
	title = strings.TrimSpace(spaceRunRe.ReplaceAllString(title, " "))
	title = enumMarkerRe.ReplaceAllString(title, "")

	if n := utf8.RuneCountInString(title); n < titleMinLen || n > titleMaxLen {
		return ""
	}
	return title
}

func containsStopKeyword(line string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range titleStopKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// extractRefNumber finds the reference/number code; a hit must contain a
// '/' separator and be at least refMinLen characters.
func extractRefNumber(text string) string {
	for _, pattern := range refPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			ref := strings.TrimSpace(m[1])
			if utf8.RuneCountInString(ref) >= refMinLen && strings.Contains(ref, "/") {
				return ref
			}
		}
	}
	return ""
}

// issuingUnit picks the issuing organization from the first four headings,
// skipping letterhead boilerplate.
func issuingUnit(headings []models.Heading) string {
	limit := len(headings)
	if limit > 4 {
		limit = 4
	}
	for _, h := range headings[:limit] {
		upper := strings.ToUpper(h.Text)
		if !containsAny(upper, unitKeywords) {
			continue
		}
		if containsAny(upper, unitExcludeWords) {
			continue
		}
		return h.Text
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
