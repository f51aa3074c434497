package timetable

import (
	"context"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// minimum recognition confidence for a word to enter the pipeline,
// anything below is noise the downstream heuristics cannot recover
const minOcrConfidence = 0.3

// extractOcrPage is the last-resort strategy for documents whose pages
// carry no text layer at all: the page is carved out as a single-page
// document, rendered and recognized on the sidecar, and the word boxes
// come back in raster coordinates. Everything downstream compares
// positions relative to the page size, so the change of unit is
// invisible to it.
func (e Engine) extractOcrPage(ctx context.Context, doc *document, pageNum int) (pageData, error) {
	pageReader, err := api.ExtractPage(doc.pdfctx, pageNum)
	if err != nil {
		return pageData{}, err
	}
	pageBytes, err := io.ReadAll(pageReader)
	if err != nil {
		return pageData{}, err
	}

	res, err := e.ocr.Recognize(ctx, pageBytes)
	if err != nil {
		return pageData{}, err
	}
	if res.Width <= 0 || res.Height <= 0 {
		return pageData{}, fmt.Errorf("sidecar returned degenerate page size %fx%f", res.Width, res.Height)
	}

	page := pageData{Width: res.Width, Height: res.Height}
	for _, w := range res.Words {
		if w.Text == "" || w.Confidence < minOcrConfidence {
			continue
		}
		page.Tokens = append(page.Tokens, Token{
			Text: w.Text,
			Box: Box{
				Left:   w.Left,
				Top:    w.Top,
				Right:  w.Right,
				Bottom: w.Bottom,
			},
		})
	}
	if len(page.Tokens) == 0 {
		return pageData{}, fmt.Errorf("sidecar recognized nothing on page %d", pageNum)
	}

	return page, nil
}
