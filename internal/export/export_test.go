package export

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/vanban/internal/models"
)

func sampleResult() *models.Result {
	return &models.Result{
		Metadata: models.ResultMetadata{
			DocumentID:      "abc123def456",
			FileName:        "ho-so.pdf",
			TotalPages:      5,
			SuccessfulPages: 5,
			TotalDocuments:  2,
			ProcessedAt:     time.Now(),
		},
		Extractions: []*models.Record{
			{SegmentID: 1, StartPage: 1, EndPage: 3, PageCount: 3, DocType: "Quyết định", ProjectName: "Dự án A", CurrencyUnit: "VND"},
			{SegmentID: 2, StartPage: 4, EndPage: 5, PageCount: 2, DocType: "Tờ trình", CurrencyUnit: "VND"},
		},
	}
}

func TestWriteReadJSON(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()

	path, err := WriteJSON(dir, res)
	if err != nil {
		t.Fatal(err)
	}
	if path != JSONPath(dir, "abc123def456") {
		t.Errorf("path = %q", path)
	}

	got, err := ReadJSON(dir, "abc123def456")
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata.DocumentID != "abc123def456" || got.Metadata.TotalDocuments != 2 {
		t.Errorf("metadata = %+v", got.Metadata)
	}
	if len(got.Extractions) != 2 || got.Extractions[0].ProjectName != "Dự án A" {
		t.Errorf("extractions = %+v", got.Extractions)
	}
}

func TestReadJSONMissing(t *testing.T) {
	if _, err := ReadJSON(t.TempDir(), "nope"); err == nil {
		t.Error("expected error for missing dump")
	}
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()

	path, err := WriteXLSX(dir, res.Metadata.DocumentID, res.Extractions)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Extractions")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "segment_id" || rows[0][4] != "loai_van_ban" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][4] != "Quyết định" || rows[1][7] != "Dự án A" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[2][0] != "2" {
		t.Errorf("second row segment_id = %v", rows[2][0])
	}
}

func TestWriteXLSXEmptyRecords(t *testing.T) {
	path, err := WriteXLSX(t.TempDir(), "d1", nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, _ := f.GetRows("Extractions")
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}
