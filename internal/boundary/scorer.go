package boundary

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/hyperjump/vanban/internal/models"
)

// Heading type tags reported with a detection.
const (
	TypeLetterhead = "tiêu_ngữ"
	TypeUnitName   = "tên_đơn_vị"
	TypeUnknown    = "unknown"
)

// SignalNoHeading tags segments opened implicitly before any boundary.
const SignalNoHeading = "no_heading"

const (
	letterheadThreshold = 0.70
	letterheadWeight    = 20
	unitNameScore       = 15
)

// letterheadPhrases are the canonical national-motto spellings, including
// the common unaccented OCR rendition.
var letterheadPhrases = []string{
	"CONG HOA XA HOI CHU NGHIA VIET NAM",
	"CỘNG HÒA XÃ HỘI CHỦ NGHĨA VIỆT NAM",
	"CỘNG HOÀ XÃ HỘI CHỦ NGHĨA VIỆT NAM",
}

// vnUpper is the upper-case Vietnamese letter class used in unit-name patterns.
const vnUpper = "A-ZĐÀÁẢÃẠĂẮẰẲẴẶÂẤẦẨẪẬÈÉẺẼẸÊẾỀỂỄỆÌÍỈĨỊÒÓỎÕỌÔỐỒỔỖỘƠỚỜỞỠỢÙÚỦŨỤƯỨỪỬỮỰỲÝỶỸỴ"

// unitNamePatterns match organizational letterhead prefixes (ministry,
// center, company, department, office naming conventions).
var unitNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(fmt.Sprintf(`^BỘ\s+[%s\s]+`, vnUpper)),
	regexp.MustCompile(fmt.Sprintf(`^TRUNG\s*TÂM\s+[%s\s]+`, vnUpper)),
	regexp.MustCompile(`^CÔNG\s*TY\s+(TNHH|CP|CỔ\s*PHẦN)`),
	regexp.MustCompile(fmt.Sprintf(`^SỞ\s+[%s\s]+`, vnUpper)),
	regexp.MustCompile(fmt.Sprintf(`^PHÒNG\s+[%s\s]+`, vnUpper)),
}

// Detection is the boundary-significance signal for one page.
type Detection struct {
	IsDocumentStart bool     `json:"is_document_start"`
	Score           int      `json:"score"`
	Signals         []string `json:"signals"`
	HeadingType     string   `json:"heading_type"`
}

// Detect decides whether a page with the given headings starts a new
// logical document. The letterhead detector runs over every heading; the
// unit-name detector only inspects the first heading, a deliberate
// narrowing that avoids false positives from in-body sub-headings.
// First match wins.
func Detect(headings []models.Heading) Detection {
	if len(headings) == 0 {
		return Detection{}
	}

	for i, heading := range headings {
		for _, phrase := range letterheadPhrases {
			found, ratio := FuzzyContains(heading.Text, phrase, letterheadThreshold)
			if found {
				return Detection{
					IsDocumentStart: true,
					Score:           int(math.Round(letterheadWeight * ratio)),
					Signals:         []string{fmt.Sprintf("%s(%.2f)", TypeLetterhead, ratio)},
					HeadingType:     TypeLetterhead,
				}
			}
		}

		if i == 0 {
			upper := strings.ToUpper(heading.Text)
			for _, pattern := range unitNamePatterns {
				if pattern.MatchString(upper) {
					return Detection{
						IsDocumentStart: true,
						Score:           unitNameScore,
						Signals:         []string{TypeUnitName},
						HeadingType:     TypeUnitName,
					}
				}
			}
		}
	}

	return Detection{}
}
