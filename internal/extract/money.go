package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// CurrencyUnit is the single currency this extractor emits.
const CurrencyUnit = "VND"

const minAmountDigits = 6

// amountPatterns carry the amount-bearing phrasings seen in decisions and
// cost tables. All of them are evaluated; recognition output is littered
// with page numbers and line totals, and the project total is reliably
// the largest number present.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Tổng\s*mức\s*đầu\s*tư\s*[:：]?\s*([\d\.,\s]+)\s*(?:VN[ĐD]|đồng|tỷ|triệu)`),
	regexp.MustCompile(`(?i)TỔNG\s*CỘNG\s*\(?làm\s*tròn\)?(?:\s*[:：])?\s*([\d\.,\s]+)\s*(?:VN[ĐD]|đồng)`),
	regexp.MustCompile(`(?i)(\d{1,3}(?:\.|,)?\d{3}(?:\.|,)?\d{3}(?:\.|,)?\d{0,3})\s*(?:VN[ĐD]|đồng|triệu|tỷ)`),
	regexp.MustCompile(`(?i)Kinh phí[:：]?\s*([\d\.,\s]+)\s*(?:VN[ĐD]|đồng)`),
}

var separatorRe = regexp.MustCompile(`[\s,\.]`)

// moneyAmount extracts the investment amount: every numeric candidate
// across all patterns is parsed after stripping thousands separators and
// the single largest value wins. The currency suffix is appended when the
// match did not carry one.
func moneyAmount(text string) string {
	var bestValue int64 = -1
	best := ""

	for _, pattern := range amountPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			raw := strings.TrimSpace(m[1])
			digits := separatorRe.ReplaceAllString(raw, "")
			if len(digits) < minAmountDigits {
				continue
			}
			value, err := strconv.ParseInt(digits, 10, 64)
			if err != nil {
				continue
			}
			if value > bestValue {
				bestValue = value
				best = strings.ReplaceAll(raw, " ", "")
			}
		}
	}

	if best == "" {
		return ""
	}
	upper := strings.ToUpper(best)
	if !strings.Contains(upper, "VND") && !strings.Contains(upper, "VNĐ") {
		best += " " + CurrencyUnit
	}
	return best
}
