package models

// Segment is a maximal contiguous run of pages judged to belong to one
// logical document. Segments partition the page sequence: no gaps, no
// overlaps, every page in exactly one segment.
type Segment struct {
	ID               int           `json:"segment_id"`
	StartPage        int           `json:"start_page"`
	EndPage          int           `json:"end_page"`
	Pages            []*ParsedPage `json:"pages"`
	FullText         string        `json:"full_text"`
	PageCount        int           `json:"page_count"`
	DetectionScore   int           `json:"detection_score"`
	DetectionSignals []string      `json:"detection_signals"`
	HeadingType      string        `json:"heading_type"`
}

// Classification is the document-type label and header metadata derived
// from a segment's first page headings and full text.
type Classification struct {
	DocType     string `json:"loai_van_ban"`
	Title       string `json:"ten_ho_so"`
	RefNumber   string `json:"so_ky_hieu"`
	IssuingUnit string `json:"don_vi_ban_hanh"`
	IssuedDate  string `json:"ngay_ban_hanh"`
}

// DocTypeUnknown is the classification label for unrecognized documents.
const DocTypeUnknown = "Không xác định"
