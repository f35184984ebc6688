package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/vanban/internal/models"
)

func TestParse_headingMarkers(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLevel int
		wantText  string
	}{
		{"level 1", "# Quyết định", 1, "Quyết định"},
		{"level 2", "## Điều khoản chung", 2, "Điều khoản chung"},
		{"level 3", "### Mục a", 3, "Mục a"},
		{"level 4", "#### Chi tiết", 4, "Chi tiết"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if len(got.Headings) != 1 {
				t.Fatalf("expected 1 heading, got %d", len(got.Headings))
			}
			h := got.Headings[0]
			if h.Level != tt.wantLevel || h.Text != tt.wantText {
				t.Errorf("got level=%d text=%q, want level=%d text=%q", h.Level, h.Text, tt.wantLevel, tt.wantText)
			}
		})
	}
}

func TestParse_emptyHeadingDiscarded(t *testing.T) {
	got := Parse("##   ")
	if len(got.Headings) != 0 {
		t.Errorf("empty heading text should be discarded, got %v", got.Headings)
	}
}

func TestParse_uppercaseHeadingRule(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantHeading bool
	}{
		{"letterhead line", "CỘNG HÒA XÃ HỘI CHỦ NGHĨA VIỆT NAM", true},
		{"ministry line", "BỘ QUỐC PHÒNG", true},
		{"mixed case", "Bộ Quốc phòng kính gửi", false},
		{"date excluded", "NGÀY 5 THÁNG 3 NĂM 2024", false},
		{"slash date excluded", "KẾ HOẠCH 12/10/2023", false},
		{"too long", strings.Repeat("A", 101), false},
		{"bullet not heading", "- MỤC MỘT", false},
		{"digits only", "2024 - 2025", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if (len(got.Headings) == 1) != tt.wantHeading {
				t.Errorf("Parse(%q) headings = %v, want heading %v", tt.input, got.Headings, tt.wantHeading)
			}
		})
	}
}

func TestParse_lists(t *testing.T) {
	input := "- mục một\n* mục hai\n1. mục ba\n\n- danh sách khác"
	got := Parse(input)
	want := [][]string{
		{"mục một", "mục hai", "mục ba"},
		{"danh sách khác"},
	}
	if !reflect.DeepEqual(got.Lists, want) {
		t.Errorf("Lists = %v, want %v", got.Lists, want)
	}
}

func TestParse_tables(t *testing.T) {
	input := "| STT | Tên | Giá trị |\n| 1 | Gói thầu A | 500.000 |\n\nvăn xuôi tiếp theo"
	got := Parse(input)
	if len(got.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(got.Tables))
	}
	want := [][]string{
		{"STT", "Tên", "Giá trị"},
		{"1", "Gói thầu A", "500.000"},
	}
	if !reflect.DeepEqual(got.Tables[0], want) {
		t.Errorf("table = %v, want %v", got.Tables[0], want)
	}
	if len(got.Paragraphs) != 1 {
		t.Errorf("expected trailing paragraph, got %v", got.Paragraphs)
	}
}

func TestParse_openCollectionsFlushedAtEOF(t *testing.T) {
	got := Parse("- một\n- hai")
	if len(got.Lists) != 1 || len(got.Lists[0]) != 2 {
		t.Errorf("open list should flush at end of input, got %v", got.Lists)
	}
	got = Parse("| a | b |")
	if len(got.Tables) != 1 {
		t.Errorf("open table should flush at end of input, got %v", got.Tables)
	}
}

func TestParse_keyValuePairs(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   []models.KeyValue
		asPara bool
	}{
		{
			"colon pair",
			"Chủ đầu tư: Ban quản lý dự án",
			[]models.KeyValue{{Key: "Chủ đầu tư", Value: "Ban quản lý dự án"}},
			false,
		},
		{
			"dash pair",
			"Hạng mục - Nhà điều hành",
			[]models.KeyValue{{Key: "Hạng mục", Value: "Nhà điều hành"}},
			false,
		},
		{
			"key too long falls to paragraph",
			strings.Repeat("a", 60) + ": giá trị",
			nil,
			true,
		},
		{
			"too many dashes falls to paragraph",
			"a - b - c - d - e",
			nil,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !reflect.DeepEqual(got.KeyValuePairs, tt.want) {
				t.Errorf("KeyValuePairs = %v, want %v", got.KeyValuePairs, tt.want)
			}
			if tt.asPara && len(got.Paragraphs) != 1 {
				t.Errorf("expected paragraph fallback, got %v", got.Paragraphs)
			}
		})
	}
}

func TestParse_deterministic(t *testing.T) {
	input := "# Tiêu đề\nđoạn văn\n- mục\n| a | b |\nkhóa: giá trị"
	first := Parse(input)
	second := Parse(input)
	if !reflect.DeepEqual(first, second) {
		t.Error("Parse should be deterministic for identical input")
	}
}

func TestParsePage_stats(t *testing.T) {
	page := models.PageResult{
		Page:     3,
		Markdown: "# Tiêu đề\nđoạn một\nđoạn hai\nkhóa: giá trị",
		Width:    800,
		Height:   1200,
		Success:  true,
	}
	got := ParsePage(page)
	if got.PageNumber != 3 {
		t.Errorf("PageNumber = %d, want 3", got.PageNumber)
	}
	if got.Stats.NumHeadings != 1 || got.Stats.NumParagraphs != 2 || got.Stats.NumKeyValuePairs != 1 {
		t.Errorf("unexpected stats: %+v", got.Stats)
	}
	if got.Stats.TextLength != len(page.Markdown) {
		t.Errorf("TextLength = %d, want %d", got.Stats.TextLength, len(page.Markdown))
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<b>đậm</b> chữ", "đậm chữ"},
		{"| --- | :--- |", ""},
		{"nhiều   khoảng\n\ttrắng", "nhiều khoảng trắng"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.input); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
