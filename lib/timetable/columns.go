package timetable

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
)

var groupNumberPattern = regexp.MustCompile(`\d{2,3}`)
var bareNumberPattern = regexp.MustCompile(`^\d{2}$`)

// column names that look like group identifiers but are really header
// leakage from a misdetected grid line
var badGroupNames = []string{"дни", "часы", "курс", "специальность", "форма"}

// forbidden terms in sampled data cells under a provisional group
// column, a hit means the column is actually day/time/header material
var phantomVocabulary = []string{
	"понедельник", "вторник", "среда", "четверг", "пятница", "суббота", "воскресенье",
	"дни", "часы", "время", "курс", "специальность",
}

const (
	// group anchors closer than this fraction of the page width are
	// the same column detected twice
	anchorMergeFraction = 0.05
	// data rows sampled under a provisional group column when probing
	// for phantoms
	phantomSampleRows = 8
	// a provisional column whose sampled cells are emptier than this
	// is structurally hollow and gets rejected
	phantomEmptyCutoff = 0.8
)

// classifyColumns assigns every x-range of the page one of the three
// roles by inspecting the header band above the first time slot.
func classifyColumns(ctx context.Context, page pageData, slots []TimeSlot) []Column {
	headerLimit := slots[0].Top
	var header []Token
	for _, t := range page.Tokens {
		if t.Box.Bottom <= headerLimit {
			header = append(header, t)
		}
	}
	sort.SliceStable(header, func(i, j int) bool {
		if abs(header[i].Box.Top-header[j].Box.Top) > rowClusterTolerance {
			return header[i].Box.Top < header[j].Box.Top
		}
		return header[i].Box.Left < header[j].Box.Left
	})

	anchors := findGroupAnchors(ctx, page, header)
	if len(anchors) == 0 {
		return nil
	}

	timeRight := page.Width * timeRegionFraction
	dayRight := page.Width * dayRegionFraction

	columns := []Column{
		{Role: RoleDay, X0: 0, X1: dayRight},
		{Role: RoleTime, X0: dayRight, X1: timeRight},
	}
	for i, a := range anchors {
		left := timeRight
		if i > 0 {
			left = (anchors[i-1].center + a.center) / 2
		}
		right := page.Width
		if i < len(anchors)-1 {
			right = (a.center + anchors[i+1].center) / 2
		}
		col := Column{Role: RoleGroup, Name: "Группа " + a.name, X0: left, X1: right}

		if isPhantomColumn(page, slots, col) {
			slog.DebugContext(ctx, "rejected phantom group column", "name", a.name)
			continue
		}
		columns = append(columns, col)
	}

	return columns
}

func groupColumns(columns []Column) []Column {
	var groups []Column
	for _, c := range columns {
		if c.Role == RoleGroup {
			groups = append(groups, c)
		}
	}
	return groups
}

type groupAnchor struct {
	name   string
	center float64
}

// findGroupAnchors locates the group identifiers in the header. The
// template writes either "Группа 13" as two tokens, "Группа13" as one,
// or, in degraded releases, just the bare number, hence the two
// passes.
func findGroupAnchors(ctx context.Context, page pageData, header []Token) []groupAnchor {
	var anchors []groupAnchor

	for i, t := range header {
		text := strings.ToLower(repairText(t.Text))
		if !strings.Contains(text, "груп") {
			continue
		}

		name := ""
		center := t.Box.CenterX()
		if digits := groupNumberPattern.FindString(text); digits != "" {
			name = digits
		} else if i+1 < len(header) {
			// the label and its number render as separate tokens, or a
			// grid misdetection pushes an unrelated header word next to
			// the label
			next := strings.TrimSpace(repairText(header[i+1].Text))
			if next != "" && !strings.Contains(next, " ") {
				name = next
				center = header[i+1].Box.CenterX()
			}
		}

		if name != "" && !isBadGroupName(name) {
			anchors = append(anchors, groupAnchor{name: name, center: center})
		}
	}

	// degraded header: no "Группа" labels at all, look for stand-alone
	// two-digit numbers to the right of the day column
	if len(anchors) == 0 {
		slog.DebugContext(ctx, "no explicit group headers, falling back to bare numbers")
		dayRight := page.Width * dayRegionFraction
		for _, t := range header {
			text := strings.TrimSpace(t.Text)
			if t.Box.Left > dayRight && bareNumberPattern.MatchString(text) {
				anchors = append(anchors, groupAnchor{name: text, center: t.Box.CenterX()})
			}
		}
	}

	sort.SliceStable(anchors, func(i, j int) bool { return anchors[i].center < anchors[j].center })

	// the same number detected twice nearby is one column
	minGap := page.Width * anchorMergeFraction
	var unique []groupAnchor
	for _, a := range anchors {
		if len(unique) > 0 && a.center-unique[len(unique)-1].center <= minGap {
			continue
		}
		unique = append(unique, a)
	}

	return unique
}

func isBadGroupName(name string) bool {
	lower := strings.ToLower(name)
	for _, bad := range badGroupNames {
		if lower == bad {
			return true
		}
	}
	return false
}

// isPhantomColumn samples the first few data rows beneath a
// provisional group column. Real group columns contain lesson text,
// phantoms contain weekday/time leakage from a misdetected grid line
// or nothing at all.
func isPhantomColumn(page pageData, slots []TimeSlot, col Column) bool {
	sampled := len(slots)
	if sampled > phantomSampleRows {
		sampled = phantomSampleRows
	}

	empty := 0
	for _, slot := range slots[:sampled] {
		text := strings.ToLower(repairText(collectCellText(page, slot, col)))
		if text == "" {
			empty++
			continue
		}
		for _, forbidden := range phantomVocabulary {
			if strings.Contains(text, forbidden) {
				return true
			}
		}
	}

	return sampled > 0 && float64(empty)/float64(sampled) > phantomEmptyCutoff
}
