package timetable

import (
	"bytes"
	"fmt"

	"github.com/unidoc/unipdf/v3/extractor"
	unimodel "github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/pdfutil"
)

// minimum shape a table must have to plausibly be a timetable grid:
// day + time + at least one group column, and a handful of slot rows
const (
	minGridColumns = 3
	minGridRows    = 4
)

// extractGridPage reads the page's structural table and lays its cells
// back out as positioned tokens on a synthetic uniform grid. The
// synthetic geometry is exact enough for role classification and cell
// resolution because both only compare positions of cells against each
// other, never against the original ink.
func extractGridPage(doc *document, pageNum int) (pageData, error) {
	reader, err := unimodel.NewPdfReader(bytes.NewReader(doc.data))
	if err != nil {
		return pageData{}, err
	}
	page, err := reader.GetPage(pageNum)
	if err != nil {
		return pageData{}, err
	}
	if err := pdfutil.NormalizePage(page); err != nil {
		return pageData{}, err
	}

	width, height := 842.0, 595.0
	if mbox, err := page.GetMediaBox(); err == nil {
		width = mbox.Urx - mbox.Llx
		height = mbox.Ury - mbox.Lly
	}

	ex, err := extractor.New(page)
	if err != nil {
		return pageData{}, err
	}
	pageText, _, _, err := ex.ExtractPageText()
	if err != nil {
		return pageData{}, err
	}

	table, ok := largestTable(pageText.Tables())
	if !ok {
		return pageData{}, fmt.Errorf("no structural table of timetable shape on page %d", pageNum)
	}

	page2 := pageData{Width: width, Height: height}
	colWidth := width / float64(table.W)
	rowHeight := height / float64(table.H)

	sawTime := false
	for y, row := range table.Cells {
		for x, cell := range row {
			text := collapseCellText(cell.Text)
			if text == "" {
				continue
			}
			if timePattern.MatchString(text) {
				sawTime = true
			}
			page2.Tokens = append(page2.Tokens, Token{
				Text: text,
				Box: Box{
					Left:   float64(x)*colWidth + 1,
					Top:    float64(y)*rowHeight + 1,
					Right:  float64(x+1)*colWidth - 1,
					Bottom: float64(y+1)*rowHeight - 1,
				},
			})
		}
	}
	if !sawTime {
		return pageData{}, fmt.Errorf("structural table on page %d has no time column", pageNum)
	}

	return page2, nil
}

func largestTable(tables []extractor.TextTable) (extractor.TextTable, bool) {
	var best extractor.TextTable
	bestArea := 0
	for _, t := range tables {
		if t.W < minGridColumns || t.H < minGridRows {
			continue
		}
		area := t.W * t.H
		if area > bestArea {
			best = t
			bestArea = area
		}
	}
	return best, bestArea > 0
}

func collapseCellText(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || r == ' ' {
			space = true
			continue
		}
		if space && len(out) > 0 {
			out = append(out, ' ')
		}
		space = false
		out = append(out, r)
	}
	return string(out)
}
