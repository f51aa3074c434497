// Package timetable recovers a per-group weekly schedule from the
// faculty's published timetable PDFs. The documents are a loosely
// structured grid: merged cells, several group columns sharing one
// time axis, whole-cohort lectures spanning multiple columns and the
// occasional mirrored text fragment. Extraction runs through one of
// three interchangeable strategies (structural table grid, positioned
// text geometry, OCR over a rendered page) selected by a capability
// probe, and everything downstream of token production is shared.
package timetable

import (
	"context"
	"errors"
	"log/slog"

	"firportal-backend/lib/ocr"
)

// ErrDocumentUnreadable is the only error that crosses the package
// boundary: the byte stream could not be opened as a document at all.
// Every other irregularity degrades into a smaller result.
var ErrDocumentUnreadable = errors.New("document unreadable")

// ParserVersion participates in cache keys so stale results are
// discarded when extraction behavior changes.
const ParserVersion = "v13"

// Box is an axis-aligned bounding box in page coordinates, origin
// top-left, y growing downward.
type Box struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }
func (b Box) CenterY() float64 { return (b.Top + b.Bottom) / 2 }
func (b Box) Width() float64   { return b.Right - b.Left }

// Token is the atomic unit of recognized text all geometric reasoning
// operates on, regardless of which strategy produced it.
type Token struct {
	Text string
	Box  Box
}

type ColumnRole int

const (
	RoleDay ColumnRole = iota
	RoleTime
	RoleGroup
)

// Column assigns a role to an x-interval [X0, X1) of the page.
type Column struct {
	Role ColumnRole
	// group name, only set for RoleGroup
	Name string
	X0   float64
	X1   float64
}

func (c Column) contains(x float64) bool { return x >= c.X0 && x < c.X1 }
func (c Column) width() float64          { return c.X1 - c.X0 }
func (c Column) centerX() float64        { return (c.X0 + c.X1) / 2 }

// TimeSlot is one row of the grid: a start/end time pair and the
// vertical extent it occupies.
type TimeSlot struct {
	Start  string
	End    string
	Top    float64
	Bottom float64
}

// Lesson is the parsed unit of curriculum, shaped exactly like the
// wire/cache JSON.
type Lesson struct {
	Subject   string `json:"subject"`
	Type      string `json:"type"`
	Teacher   string `json:"teacher"`
	Room      string `json:"room"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
	Subgroup  string `json:"subgroup,omitempty"`
}

type DaySchedule struct {
	DayName string   `json:"day_name"`
	Lessons []Lesson `json:"lessons"`
}

// ScheduleResult maps group name to the ordered week. An empty Groups
// map means "nothing recovered", callers treat it as not found rather
// than as a failure.
type ScheduleResult struct {
	Groups map[string][]DaySchedule `json:"groups"`
}

// session types, rendered the way the mobile client displays them
const (
	TypeLecture   = "Лекция"
	TypePractical = "Прак"
	TypeSeminar   = "Семинар"
	TypeLab       = "Лаба"
	TypeExam      = "Экзамен"
	TypeElective  = "Факультатив"
	TypeOther     = "Занятие"
)

// Engine holds the strategy chain. A nil OCR client simply removes the
// raster strategy from the probe.
type Engine struct {
	ocr *ocr.Client
}

type Options struct {
	// optional recognition sidecar used for pages without a text layer
	Ocr *ocr.Client
}

func NewEngine(options Options) Engine {
	return Engine{ocr: options.Ocr}
}

// Parse is a convenience wrapper for callers that have no recognition
// sidecar available (tests, the CLI).
func Parse(ctx context.Context, data []byte, course int) (ScheduleResult, error) {
	return NewEngine(Options{}).Parse(ctx, data, course)
}

// Parse extracts the weekly schedule for one academic year out of the
// raw document bytes. It is a pure function of its inputs: identical
// bytes and course yield an identical result, which is what lets the
// service layer memoize on content.
func (e Engine) Parse(ctx context.Context, data []byte, course int) (ScheduleResult, error) {
	doc, err := openDocument(data)
	if err != nil {
		return ScheduleResult{}, err
	}

	builder := newScheduleBuilder()

	pages := selectPages(doc.PageCount, course)
	for _, pageNum := range pages {
		page, strategy, err := e.extractPage(ctx, doc, pageNum)
		if err != nil {
			slog.WarnContext(
				ctx, "page yielded no usable extraction",
				"page", pageNum,
				"err", err,
			)
			continue
		}
		slog.DebugContext(
			ctx, "extracted page",
			"page", pageNum,
			"strategy", strategy,
			"tokens", len(page.Tokens),
		)

		parsePage(ctx, page, builder)
	}

	return builder.result(), nil
}

// parsePage runs the shared pipeline over one page worth of tokens:
// time axis, column roles, cell resolution, lesson parsing.
func parsePage(ctx context.Context, page pageData, builder *scheduleBuilder) {
	slots := buildTimeAxis(page)
	if len(slots) == 0 {
		slog.WarnContext(ctx, "no time axis found, skipping page")
		return
	}

	columns := classifyColumns(ctx, page, slots)
	groups := groupColumns(columns)
	if len(groups) == 0 {
		slog.WarnContext(ctx, "no group columns survived, skipping page")
		return
	}

	cells := resolveCells(page, slots, groups)
	days := buildDayIndex(page, slots)

	for si, slot := range slots {
		day := days[si]
		for gi, col := range groups {
			text := cells[si][gi]
			if text == "" {
				continue
			}
			for _, lesson := range parseLessonText(text) {
				lesson.TimeStart = slot.Start
				lesson.TimeEnd = slot.End
				builder.add(col.Name, day, lesson)
			}
		}
	}
}
