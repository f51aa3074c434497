package timetable

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ajroetker/pdf"
)

const (
	// glyph runs on the same baseline closer than this fraction of the
	// font size belong to one word
	maxGlyphGapFactor = 0.3
	// baseline jitter tolerated when grouping glyph runs into lines
	baselineTolerance = 2.0
	// below this many reconstructed tokens the page is considered to
	// have no usable text layer
	minTextLayerTokens = 10
)

// extractGeometricPage reconstructs positioned words from the page's
// raw text layer. The renderer that produces these documents emits
// text as loose glyph runs, so words have to be reassembled from
// baseline and horizontal proximity before anything downstream can
// reason about them.
func extractGeometricPage(doc *document, pageNum int) (pageData, error) {
	reader, err := pdf.NewReader(bytes.NewReader(doc.data), int64(len(doc.data)))
	if err != nil {
		return pageData{}, err
	}
	if pageNum > reader.NumPage() {
		return pageData{}, fmt.Errorf("page %d out of range", pageNum)
	}
	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return pageData{}, fmt.Errorf("page %d is null", pageNum)
	}

	width, height := mediaBoxSize(page)
	content := page.Content()
	if len(content.Text) == 0 {
		return pageData{}, fmt.Errorf("page %d has no text layer", pageNum)
	}

	tokens := assembleWords(content.Text, height)
	if len(tokens) < minTextLayerTokens {
		return pageData{}, fmt.Errorf(
			"page %d text layer too sparse: %d tokens", pageNum, len(tokens),
		)
	}

	return pageData{Width: width, Height: height, Tokens: tokens}, nil
}

func mediaBoxSize(page pdf.Page) (float64, float64) {
	mbox := page.V.Key("MediaBox")
	if mbox.IsNull() || mbox.Len() < 4 {
		return 842, 595
	}
	width := mbox.Index(2).Float64() - mbox.Index(0).Float64()
	height := mbox.Index(3).Float64() - mbox.Index(1).Float64()
	if width <= 0 || height <= 0 {
		return 842, 595
	}
	return width, height
}

// assembleWords groups glyph runs into baseline lines and merges
// adjacent runs into words. Output boxes are converted to the
// top-down coordinate system used by the rest of the pipeline.
func assembleWords(texts []pdf.Text, pageHeight float64) []Token {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		// descending Y first: the document origin is bottom-left
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	type line struct {
		y    float64
		runs []pdf.Text
	}
	var lines []line
	for _, t := range sorted {
		if t.S == "" {
			continue
		}
		placed := false
		for i := range lines {
			if abs(lines[i].y-t.Y) <= baselineTolerance {
				lines[i].runs = append(lines[i].runs, t)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, line{y: t.Y, runs: []pdf.Text{t}})
		}
	}

	var tokens []Token
	for _, ln := range lines {
		sort.SliceStable(ln.runs, func(i, j int) bool {
			return ln.runs[i].X < ln.runs[j].X
		})

		var word bytes.Buffer
		var box Box
		var fontSize float64
		flush := func() {
			if word.Len() == 0 {
				return
			}
			tokens = append(tokens, Token{Text: word.String(), Box: box})
			word.Reset()
		}

		for _, run := range ln.runs {
			top := pageHeight - run.Y - run.FontSize
			bottom := pageHeight - run.Y
			if word.Len() > 0 && run.X-box.Right <= fontSize*maxGlyphGapFactor {
				word.WriteString(run.S)
				box.Right = run.X + run.W
				if top < box.Top {
					box.Top = top
				}
				if bottom > box.Bottom {
					box.Bottom = bottom
				}
				continue
			}
			flush()
			word.WriteString(run.S)
			fontSize = run.FontSize
			box = Box{Left: run.X, Top: top, Right: run.X + run.W, Bottom: bottom}
		}
		flush()
	}

	return tokens
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
