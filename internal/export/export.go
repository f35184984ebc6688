// Package export writes completed pipeline results to disk as a full
// JSON dump and a flat XLSX extraction sheet.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/vanban/internal/models"
)

// Column order of the extraction sheet. Downstream consumers import the
// sheet by position, so this order is part of the export contract.
var xlsxColumns = []struct {
	header string
	value  func(r *models.Record) interface{}
}{
	{"segment_id", func(r *models.Record) interface{} { return r.SegmentID }},
	{"start_page", func(r *models.Record) interface{} { return r.StartPage }},
	{"end_page", func(r *models.Record) interface{} { return r.EndPage }},
	{"page_count", func(r *models.Record) interface{} { return r.PageCount }},
	{"loai_van_ban", func(r *models.Record) interface{} { return r.DocType }},
	{"ten_day_du", func(r *models.Record) interface{} { return r.FullTitle }},
	{"ma_du_an", func(r *models.Record) interface{} { return r.ProjectCode }},
	{"ten_du_an", func(r *models.Record) interface{} { return r.ProjectName }},
	{"chu_dau_tu", func(r *models.Record) interface{} { return r.Investor }},
	{"muc_tieu_du_an", func(r *models.Record) interface{} { return r.Objective }},
	{"quy_mo_dau_tu", func(r *models.Record) interface{} { return r.InvestmentAmount }},
	{"loai_nguon_von", func(r *models.Record) interface{} { return r.FundSource }},
	{"trang_thai_du_an", func(r *models.Record) interface{} { return r.ProjectStatus }},
	{"trang_thai_thanh_tra", func(r *models.Record) interface{} { return r.InspectionStatus }},
	{"trang_thai_kiem_toan", func(r *models.Record) interface{} { return r.AuditStatus }},
	{"nhom_du_an", func(r *models.Record) interface{} { return r.ProjectGroup }},
	{"linh_vuc", func(r *models.Record) interface{} { return r.Sector }},
	{"don_vi_xu_ly_quyet_toan", func(r *models.Record) interface{} { return r.SettlementUnit }},
	{"loai_cong_trinh", func(r *models.Record) interface{} { return r.WorkType }},
	{"cap_cong_trinh", func(r *models.Record) interface{} { return r.WorkGrade }},
	{"hinh_thuc_quan_ly", func(r *models.Record) interface{} { return r.ManagementForm }},
	{"thoi_gian_du_kien_khoi_cong", func(r *models.Record) interface{} { return r.ExpectedStart }},
	{"thoi_gian_du_kien_hoan_thanh", func(r *models.Record) interface{} { return r.ExpectedCompletion }},
	{"thoi_gian_thuc_hien_du_an", func(r *models.Record) interface{} { return r.ExecutionPeriod }},
	{"thoi_gian_ket_thuc_du_an", func(r *models.Record) interface{} { return r.EndDate }},
	{"don_vi_tien_te", func(r *models.Record) interface{} { return r.CurrencyUnit }},
	{"so_quyet_dinh", func(r *models.Record) interface{} { return r.DecisionNumber }},
	{"ngay_quyet_dinh", func(r *models.Record) interface{} { return r.DecisionDate }},
	{"loai_cong_van", func(r *models.Record) interface{} { return r.DispatchType }},
}

// JSONPath returns the full-extraction JSON path for a document under dir.
func JSONPath(dir, documentID string) string {
	return filepath.Join(dir, documentID+"_full_extraction.json")
}

// XLSXPath returns the extraction sheet path for a document under dir.
func XLSXPath(dir, documentID string) string {
	return filepath.Join(dir, documentID+"_extraction.xlsx")
}

// WriteJSON dumps the full result to <dir>/<id>_full_extraction.json.
func WriteJSON(dir string, result *models.Result) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	path := JSONPath(dir, result.Metadata.DocumentID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result JSON: %w", err)
	}
	return path, nil
}

// ReadJSON loads a previously written full-extraction dump.
func ReadJSON(dir, documentID string) (*models.Result, error) {
	data, err := os.ReadFile(JSONPath(dir, documentID))
	if err != nil {
		return nil, err
	}
	var result models.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse result JSON: %w", err)
	}
	return &result, nil
}

// WriteXLSX writes one row per extraction record to
// <dir>/<id>_extraction.xlsx.
func WriteXLSX(dir, documentID string, records []*models.Record) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Extractions"
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, len(xlsxColumns))
	for i, col := range xlsxColumns {
		header[i] = col.header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", err
	}

	for i, rec := range records {
		row := make([]interface{}, len(xlsxColumns))
		for j, col := range xlsxColumns {
			row[j] = col.value(rec)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", err
		}
	}

	path := XLSXPath(dir, documentID)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to write extraction sheet: %w", err)
	}
	return path, nil
}
