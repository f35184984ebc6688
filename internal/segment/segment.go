// Package segment reconstructs logical document boundaries from the
// ordered page stream using boundary detection signals.
package segment

import (
	"github.com/hyperjump/vanban/internal/boundary"
	"github.com/hyperjump/vanban/internal/models"
)

// Split partitions ordered parsed pages into segments. Every page lands in
// exactly one segment and segment order follows page order. Pages before
// the first detected boundary form an implicit segment with heading type
// "unknown". Boundaries are never merged or re-scored retroactively.
func Split(pages []*models.ParsedPage) []*models.Segment {
	var segments []*models.Segment
	var current *models.Segment

	for _, page := range pages {
		detection := boundary.Detect(page.Elements.Headings)

		if detection.IsDocumentStart {
			if current != nil {
				segments = append(segments, current)
			}
			current = open(len(segments)+1, page, detection.Score, detection.Signals, detection.HeadingType)
			continue
		}

		if current != nil {
			current.EndPage = page.PageNumber
			current.Pages = append(current.Pages, page)
			current.FullText += "\n\n" + page.Raw
			current.PageCount++
			continue
		}

		current = open(len(segments)+1, page, 0, []string{boundary.SignalNoHeading}, boundary.TypeUnknown)
	}

	if current != nil {
		segments = append(segments, current)
	}
	return segments
}

func open(id int, page *models.ParsedPage, score int, signals []string, headingType string) *models.Segment {
	return &models.Segment{
		ID:               id,
		StartPage:        page.PageNumber,
		EndPage:          page.PageNumber,
		Pages:            []*models.ParsedPage{page},
		FullText:         page.Raw,
		PageCount:        1,
		DetectionScore:   score,
		DetectionSignals: signals,
		HeadingType:      headingType,
	}
}
