package extract

import (
	"testing"

	"github.com/hyperjump/vanban/internal/models"
)

func TestMoneyAmount_largestWins(t *testing.T) {
	// Multiple numeric candidates: the numerically largest is selected
	// regardless of position.
	text := "Chi phí dự phòng: 250.000 đồng\nTổng mức đầu tư: 1.234.567 đồng"
	got := moneyAmount(text)
	if got != "1.234.567 VND" {
		t.Errorf("moneyAmount = %q, want %q", got, "1.234.567 VND")
	}
}

func TestMoneyAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"vnd suffix source", "Tổng mức đầu tư: 9.876.543 VNĐ", "9.876.543 VND"},
		{"kinh phi label", "Kinh phí: 2.500.000 đồng", "2.500.000 VND"},
		{"rejects short numbers", "trang 12345 đồng", ""},
		{"no amount", "không có số liệu", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := moneyAmount(tt.text); got != tt.want {
				t.Errorf("moneyAmount = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabeledValue(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		label  string
		min    int
		max    int
		want   string
	}{
		{
			"numbered label",
			"1. Tên dự án: Xây dựng trụ sở làm việc trung tâm\n2. Chủ đầu tư: Ban A",
			"Tên dự án", 20, 200,
			"Xây dựng trụ sở làm việc trung tâm",
		},
		{
			"plain label",
			"Chủ đầu tư: Ban quản lý dự án khu vực\nNội dung khác",
			"Chủ đầu tư", 5, 150,
			"Ban quản lý dự án khu vực",
		},
		{
			"next-field truncation",
			"Mục tiêu: Nâng cao năng lực hạ tầng kỹ thuật phục vụ công tác Địa điểm xây dựng tại Hà Nội",
			"Mục tiêu", 30, 500,
			"Nâng cao năng lực hạ tầng kỹ thuật phục vụ công tác",
		},
		{
			"length window rejects",
			"Tên dự án: ngắn",
			"Tên dự án", 20, 200,
			"",
		},
		{
			"final line with trailing newline",
			"1. Tên dự án: Xây dựng trụ sở làm việc trung tâm\n",
			"Tên dự án", 20, 200,
			"Xây dựng trụ sở làm việc trung tâm",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := labeledValue(tt.text, tt.label, tt.min, tt.max); got != tt.want {
				t.Errorf("labeledValue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_scenarioC(t *testing.T) {
	text := "Số trang: 12\nTổng mức đầu tư: 1.234.567 đồng\nphụ lục 250.000 đồng"
	r := Extract(text, &models.Classification{DocType: "Quyết định"})
	if r.InvestmentAmount != "1.234.567 VND" {
		t.Errorf("InvestmentAmount = %q, want %q", r.InvestmentAmount, "1.234.567 VND")
	}
	if r.CurrencyUnit != "VND" {
		t.Errorf("CurrencyUnit = %q, want VND", r.CurrencyUnit)
	}
}

func TestExtract_fallbackChains(t *testing.T) {
	c := &models.Classification{
		DocType:     "Quyết định",
		Title:       "Về việc phê duyệt dự án nâng cấp hạ tầng",
		IssuingUnit: "TRUNG TÂM CÔNG NGHỆ THÔNG TIN",
		RefNumber:   "123/QĐ-TTCNTT",
		IssuedDate:  "ngày 2 tháng 1 năm 2024",
	}
	r := Extract("văn bản không có nhãn trường nào", c)

	if r.ProjectName != c.Title {
		t.Errorf("ProjectName = %q, want title fallback %q", r.ProjectName, c.Title)
	}
	if r.Investor != c.IssuingUnit {
		t.Errorf("Investor = %q, want issuing-unit fallback", r.Investor)
	}
	if r.DecisionNumber != c.RefNumber {
		t.Errorf("DecisionNumber = %q, want %q", r.DecisionNumber, c.RefNumber)
	}
	if r.DecisionDate != c.IssuedDate {
		t.Errorf("DecisionDate = %q, want issued-date fallback", r.DecisionDate)
	}
}

func TestExtract_dedicatedValuesBeatFallbacks(t *testing.T) {
	c := &models.Classification{DocType: "Quyết định", Title: "Tiêu đề phân loại dùng dự phòng"}
	text := "Tên dự án: Đầu tư xây dựng nhà điều hành sản xuất\nNgày 15 tháng 6 năm 2023"
	r := Extract(text, c)
	if r.ProjectName != "Đầu tư xây dựng nhà điều hành sản xuất" {
		t.Errorf("ProjectName = %q, dedicated pattern should win", r.ProjectName)
	}
	if r.DecisionDate != "ngày 15 tháng 6 năm 2023" {
		t.Errorf("DecisionDate = %q", r.DecisionDate)
	}
}

func TestExtract_keywordTables(t *testing.T) {
	text := "Dự án nhóm B sử dụng ngân sách nhà nước, công trình cấp II, " +
		"đang thực hiện việc xây dựng hạ tầng giao thông"
	r := Extract(text, &models.Classification{DocType: models.DocTypeUnknown})

	if r.ProjectGroup != "Dự án nhóm B" {
		t.Errorf("ProjectGroup = %q", r.ProjectGroup)
	}
	if r.FundSource != "Ngân sách Nhà nước" {
		t.Errorf("FundSource = %q", r.FundSource)
	}
	if r.WorkGrade != "Cấp II" {
		t.Errorf("WorkGrade = %q", r.WorkGrade)
	}
	if r.ProjectStatus != "Đang thực hiện" {
		t.Errorf("ProjectStatus = %q", r.ProjectStatus)
	}
	if r.WorkType != "Xây dựng" {
		t.Errorf("WorkType = %q", r.WorkType)
	}
}

func TestExtract_executionPeriodFallback(t *testing.T) {
	r := Extract("triển khai trong Quý II/2025", &models.Classification{DocType: models.DocTypeUnknown})
	if r.ExecutionPeriod != "Quý II/2025" {
		t.Errorf("ExecutionPeriod = %q, want time-period fallback", r.ExecutionPeriod)
	}
}

func TestExtract_placeholdersAlwaysEmpty(t *testing.T) {
	r := Extract("Tổng mức đầu tư: 5.000.000 đồng", &models.Classification{DocType: "Quyết định"})
	if r.InspectionStatus != "" || r.AuditStatus != "" || r.SettlementUnit != "" || r.ManagementForm != "" {
		t.Errorf("placeholder fields must stay empty, got %+v", r)
	}
}

func TestExtract_deterministic(t *testing.T) {
	text := "Tên dự án: Đầu tư xây dựng nhà điều hành sản xuất\nTổng mức đầu tư: 7.000.000 đồng"
	c := &models.Classification{DocType: "Quyết định"}
	first := Extract(text, c)
	second := Extract(text, c)
	if *first != *second {
		t.Error("Extract should be deterministic for identical input")
	}
}

func TestProjectCode(t *testing.T) {
	r := Extract("Mã dự án DA-2024/001 được duyệt", &models.Classification{DocType: models.DocTypeUnknown})
	if r.ProjectCode != "DA-2024/001" {
		t.Errorf("ProjectCode = %q", r.ProjectCode)
	}
}
