package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/vanban/internal/models"
)

var (
	projectCodeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Mã\s*(?:dự\s*án|dự\s*án\s*:)\s*([A-Z0-9\-/]{5,30})`),
		regexp.MustCompile(`(?i)Mã\s*[:：]\s*([A-Z0-9\-/]{5,30})`),
	}

	decisionDateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:ngày lập|ngày ban hành|ngày)\s+(\d{1,2})\s+tháng\s+(\d{1,2})\s+năm\s+(\d{4})`),
		regexp.MustCompile(`(?i)ngày\s+(\d{1,2})\s+tháng\s+(\d{1,2})\s+năm\s+(\d{4})`),
	}
)

// Extract resolves the structured record for one segment. Fields are
// resolved independently; several fall back to classification-derived
// values rather than staying empty.
func Extract(text string, c *models.Classification) *models.Record {
	r := &models.Record{
		DocType:      c.DocType,
		DispatchType: c.DocType,
		FullTitle:    c.Title,
		CurrencyUnit: CurrencyUnit,
	}

	for _, re := range projectCodeRes {
		if m := re.FindStringSubmatch(text); m != nil {
			r.ProjectCode = strings.TrimSpace(m[1])
			break
		}
	}

	if name := labeledValue(text, `Tên dự án`, 20, 200); name != "" {
		r.ProjectName = truncateRunes(name, 250)
	} else if c.Title != "" && utf8.RuneCountInString(c.Title) < 300 {
		r.ProjectName = truncateRunes(c.Title, 250)
	}

	if investor := labeledValue(text, `Chủ đầu tư`, 5, 150); investor != "" {
		r.Investor = investor
	} else if utf8.RuneCountInString(c.IssuingUnit) > 3 {
		r.Investor = truncateRunes(c.IssuingUnit, 150)
	}

	if objective := labeledValue(text, `Mục tiêu`, 30, 500); objective != "" {
		r.Objective = truncateRunes(objective, 400)
	}

	r.InvestmentAmount = moneyAmount(text)

	if source := matchRules(fundSourceRules, text); source != "" {
		r.FundSource = source
	} else if source := labeledValue(text, `Nguồn vốn`, 10, 200); source != "" {
		r.FundSource = truncateRunes(source, 200)
	}

	r.ProjectStatus = matchRules(statusRules, text)
	r.Sector = matchRules(sectorRules, text)
	r.ProjectGroup = projectGroup(text)
	r.WorkType = matchRules(workTypeRules, text)
	r.WorkGrade = matchRules(workGradeRules, text)

	if v := labeledValue(text, `(?:Thời gian|Dự kiến).*khởi công`, 5, 100); v != "" {
		r.ExpectedStart = truncateRunes(v, 100)
	}
	if v := labeledValue(text, `(?:Thời gian|Dự kiến).*hoàn thành`, 5, 100); v != "" {
		r.ExpectedCompletion = truncateRunes(v, 100)
	}
	period := labeledValue(text, `(?:Thời gian|Thời hạn)(?:\s+thực\s+hiện)?`, 5, 100)
	if period == "" {
		period = timePeriod(text)
	}
	if period != "" {
		r.ExecutionPeriod = truncateRunes(period, 100)
	}
	if v := labeledValue(text, `(?:Thời gian|Ngày).*kết thúc`, 5, 100); v != "" {
		r.EndDate = truncateRunes(v, 100)
	}

	r.DecisionNumber = c.RefNumber

	if date := decisionDate(text); date != "" {
		r.DecisionDate = date
	} else {
		r.DecisionDate = c.IssuedDate
	}

	// Reserved for later pipeline stages; always emitted empty here.
	r.InspectionStatus = ""
	r.AuditStatus = ""
	r.SettlementUnit = ""
	r.ManagementForm = ""

	return r
}

// decisionDate extracts the canonical long-form issuance date.
func decisionDate(text string) string {
	for _, re := range decisionDateRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return "ngày " + m[1] + " tháng " + m[2] + " năm " + m[3]
		}
	}
	return ""
}
