// Package search maintains a Bleve full-text index over extracted
// document segments.
package search

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/hyperjump/vanban/internal/models"
	"github.com/hyperjump/vanban/internal/parser"
)

// SegmentIndex indexes one entry per extracted segment so search hits
// point at a specific document within a scanned file.
type SegmentIndex struct {
	index bleve.Index
}

type segmentEntry struct {
	Title   string `json:"title"`
	DocType string `json:"doc_type"`
	Content string `json:"content"`
}

// Hit is one search result.
type Hit struct {
	DocumentID string  `json:"document_id"`
	SegmentID  int     `json:"segment_id"`
	Score      float64 `json:"score"`
}

// NewSegmentIndex creates or opens a Bleve index at path. An existing
// index is reused; remove the directory to force a rebuild after a
// mapping change.
func NewSegmentIndex(path string) (*SegmentIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize, no stemming. Stemming is
	// built for English and mangles Vietnamese tokens.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("doc_type", bleve.NewKeywordFieldMapping())
	im.AddDocumentMapping("segment", docMapping)
	im.DefaultType = "segment"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open search index: %w", openErr)
		}
		return &SegmentIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &SegmentIndex{index: index}, nil
}

// IndexSegments replaces the indexed entries for a document with one
// entry per extraction record.
func (s *SegmentIndex) IndexSegments(ctx context.Context, documentID string, segments []*models.Segment, records []*models.Record) error {
	if err := s.DeleteDocument(ctx, documentID); err != nil {
		return err
	}

	text := make(map[int]string, len(segments))
	for _, seg := range segments {
		text[seg.ID] = parser.CleanText(seg.FullText)
	}

	batch := s.index.NewBatch()
	for _, rec := range records {
		entry := segmentEntry{
			Title:   rec.FullTitle,
			DocType: rec.DocType,
			Content: text[rec.SegmentID],
		}
		if err := batch.Index(entryID(documentID, rec.SegmentID), entry); err != nil {
			return err
		}
	}
	return s.index.Batch(batch)
}

// Search runs a match query over titles and content.
func (s *SegmentIndex) Search(ctx context.Context, query string, limit int) ([]*Hit, error) {
	if limit < 1 {
		limit = 10
	}
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = limit

	results, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]*Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		docID, segID, ok := splitEntryID(hit.ID)
		if !ok {
			continue
		}
		hits = append(hits, &Hit{DocumentID: docID, SegmentID: segID, Score: hit.Score})
	}
	return hits, nil
}

// DeleteDocument removes every indexed segment of a document.
func (s *SegmentIndex) DeleteDocument(ctx context.Context, documentID string) error {
	q := bleve.NewPrefixQuery(documentID + ":")
	q.SetField("_id")
	req := bleve.NewSearchRequest(q)
	req.Size = 10000

	results, err := s.index.Search(req)
	if err != nil {
		return fmt.Errorf("failed to enumerate indexed segments: %w", err)
	}

	batch := s.index.NewBatch()
	for _, hit := range results.Hits {
		batch.Delete(hit.ID)
	}
	return s.index.Batch(batch)
}

// DocCount returns the total number of indexed segments.
func (s *SegmentIndex) DocCount() (uint64, error) {
	return s.index.DocCount()
}

// Close closes the underlying index.
func (s *SegmentIndex) Close() error {
	return s.index.Close()
}

func entryID(documentID string, segmentID int) string {
	return documentID + ":" + strconv.Itoa(segmentID)
}

func splitEntryID(id string) (string, int, bool) {
	docID, rest, ok := strings.Cut(id, ":")
	if !ok {
		return "", 0, false
	}
	segID, err := strconv.Atoi(rest)
	if err != nil {
		return "", 0, false
	}
	return docID, segID, true
}
