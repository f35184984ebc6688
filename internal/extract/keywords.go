package extract

import (
	"regexp"
	"strings"
)

// keywordRule maps a category label to its trigger pattern. Rules are
// tested in declared order; first match wins.
type keywordRule struct {
	label   string
	pattern *regexp.Regexp
}

var fundSourceRules = []keywordRule{
	{"Ngân sách Nhà nước", regexp.MustCompile(`(?i)ngân\s*sách\s*(?:nhà nước|trung ương|địa phương)`)},
	{"Vốn tư nhân", regexp.MustCompile(`(?i)vốn\s*tư\s*(?:nhân|thực hiện)`)},
	{"Vốn ODA", regexp.MustCompile(`(?i)ODA|vốn\s+nước\s+ngoài`)},
	{"Vốn kết hợp", regexp.MustCompile(`(?i)(?:kết hợp|hỗn hợp)\s+(?:công tư|nhà nước)`)},
	{"Vốn doanh nghiệp", regexp.MustCompile(`(?i)(?:doanh nghiệp|công ty)`)},
}

var statusRules = []keywordRule{
	{"Đang thực hiện", regexp.MustCompile(`(?i)đang\s+(?:thực\s+hiện|tiến\s+hành)`)},
	{"Hoàn thành", regexp.MustCompile(`(?i)(?:hoàn\s+thành|kết\s+thúc)`)},
	{"Chưa bắt đầu", regexp.MustCompile(`(?i)chưa\s+(?:bắt\s+đầu|khởi\s+công)`)},
	{"Tạm dừng", regexp.MustCompile(`(?i)tạm\s+dừng`)},
}

var workTypeRules = []keywordRule{
	{"Xây dựng", regexp.MustCompile(`(?i)xây\s+dựng`)},
	{"Mua sắm", regexp.MustCompile(`(?i)mua sắm|máy móc|thiết bị`)},
	{"Cải tạo", regexp.MustCompile(`(?i)cải tạo|sửa chữa|nâng cấp`)},
	{"Nghiên cứu", regexp.MustCompile(`(?i)nghiên cứu|khảo sát`)},
	{"Phần mềm", regexp.MustCompile(`(?i)phần mềm|software|hệ thống|cntt`)},
}

var workGradeRules = []keywordRule{
	{"Cấp I", regexp.MustCompile(`(?i)cấp\s+(?:I|1)\b`)},
	{"Cấp II", regexp.MustCompile(`(?i)cấp\s+(?:II|2)\b`)},
	{"Cấp III", regexp.MustCompile(`(?i)cấp\s+(?:III|3)\b`)},
	{"Cấp IV", regexp.MustCompile(`(?i)cấp\s+(?:IV|4)\b`)},
	{"Cấp V", regexp.MustCompile(`(?i)cấp\s+(?:V|5)\b`)},
}

var sectorRules = []keywordRule{
	{"Công nghệ thông tin", regexp.MustCompile(`(?i)phần mềm|cntt|công nghệ thông tin`)},
	{"Xây dựng", regexp.MustCompile(`(?i)xây dựng|công trình|cấu trúc`)},
	{"Y tế", regexp.MustCompile(`(?i)y tế|bệnh viện|khám chữa`)},
	{"Giáo dục", regexp.MustCompile(`(?i)giáo dục|đào tạo|học`)},
	{"Giao thông", regexp.MustCompile(`(?i)giao thông|đường|cầu`)},
}

// matchRules returns the label of the first rule whose pattern matches.
func matchRules(rules []keywordRule, text string) string {
	for _, rule := range rules {
		if rule.pattern.MatchString(text) {
			return rule.label
		}
	}
	return ""
}

var projectGroupRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Dự án\s+)?nhóm\s+([ABC])\b`),
	regexp.MustCompile(`(?i)nhóm\s*[:：]\s*([ABC])\b`),
}

// projectGroup detects the investment project group (A, B or C).
func projectGroup(text string) string {
	for _, re := range projectGroupRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return "Dự án nhóm " + strings.ToUpper(m[1])
		}
	}
	return ""
}

var timePeriodRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Quý\s*(?:I{1,3}|IV)\s*/\s*\d{4}`),
	regexp.MustCompile(`(?i)Năm\s*\d{4}`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
}

// timePeriod finds a generic execution period mention (quarter, year or
// slash date), used as the execution-period fallback.
func timePeriod(text string) string {
	for _, re := range timePeriodRes {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}
