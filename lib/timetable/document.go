package timetable

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pagesPerCourse is how many pages of the institutional template each
// academic year occupies.
const pagesPerCourse = 2

// pagesTaken is how many consecutive pages are actually read per
// course, one extra to survive off-by-one drift between template
// releases.
const pagesTaken = 3

// headerCropFraction is the top band of every page occupied by
// institution/specialty text that is not part of the grid.
const headerCropFraction = 0.12

type document struct {
	data      []byte
	pdfctx    *pdfcpumodel.Context
	PageCount int
}

// openDocument validates that the byte stream is a well-formed
// document and records the page count. Anything that fails here is
// unreadable input, not a parse irregularity.
func openDocument(data []byte) (*document, error) {
	conf := pdfcpumodel.NewDefaultConfiguration()
	pdfctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDocumentUnreadable, err.Error())
	}
	if pdfctx.PageCount == 0 {
		return nil, fmt.Errorf("%w: zero pages", ErrDocumentUnreadable)
	}
	return &document{
		data:      data,
		pdfctx:    pdfctx,
		PageCount: pdfctx.PageCount,
	}, nil
}

// selectPages maps an academic year to the 1-based pages it occupies.
// The course number comes from free text scraped off the portal and
// cannot be trusted: anything below 1 is clamped to 1, and a range
// that falls entirely off the end of the document falls back to all
// pages rather than returning nothing.
func selectPages(pageCount, course int) []int {
	if course < 1 {
		course = 1
	}
	start := (course - 1) * pagesPerCourse

	if start >= pageCount {
		all := make([]int, pageCount)
		for i := range all {
			all[i] = i + 1
		}
		return all
	}

	var pages []int
	for i := start; i < start+pagesTaken && i < pageCount; i++ {
		pages = append(pages, i+1)
	}
	return pages
}

// pageData is one page reduced to positioned tokens, the common
// currency of every extraction strategy.
type pageData struct {
	Width  float64
	Height float64
	Tokens []Token
}

// cropHeaderBand drops tokens inside the fixed non-tabular band at the
// top of the page.
func (p pageData) cropHeaderBand() pageData {
	limit := p.Height * headerCropFraction
	kept := make([]Token, 0, len(p.Tokens))
	for _, t := range p.Tokens {
		if t.Box.CenterY() < limit {
			continue
		}
		kept = append(kept, t)
	}
	p.Tokens = kept
	return p
}

// extractPage probes the strategies in order of fidelity: the
// structural grid reader, then geometric reconstruction of the text
// layer, then OCR over a rendered page for documents that carry no
// text layer at all.
func (e Engine) extractPage(ctx context.Context, doc *document, pageNum int) (pageData, string, error) {
	// the structural reader already excludes ink outside the table, so
	// the header-band crop only applies to the strategies that see the
	// whole page
	page, gridErr := extractGridPage(doc, pageNum)
	if gridErr == nil {
		return page, "grid", nil
	}

	page, geomErr := extractGeometricPage(doc, pageNum)
	if geomErr == nil {
		return page.cropHeaderBand(), "geometric", nil
	}

	if e.ocr != nil {
		page, ocrErr := e.extractOcrPage(ctx, doc, pageNum)
		if ocrErr == nil {
			return page.cropHeaderBand(), "ocr", nil
		}
		return pageData{}, "", fmt.Errorf(
			"grid: %w; geometric: %s; ocr: %s",
			gridErr, geomErr.Error(), ocrErr.Error(),
		)
	}

	return pageData{}, "", fmt.Errorf("grid: %w; geometric: %s", gridErr, geomErr.Error())
}
