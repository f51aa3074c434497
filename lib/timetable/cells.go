package timetable

import (
	"sort"
	"strings"
)

const (
	// vertical jitter tolerated when ordering a cell's tokens into
	// reading lines
	cellBandTolerance = 5.0
	// a token covering more than this fraction of a column's width
	// belongs to that column regardless of where its center sits
	lectureOverlapFraction = 0.5
	// repaired cell text shorter than this is grid noise
	minCellRunes = 3
)

// markers identifying a whole-cohort session that one cell renders on
// behalf of several columns
var lectureMarkers = []string{"лек", "поток"}

// abbreviations the template leaves in otherwise empty cells
var noiseCellTexts = map[string]bool{
	"с/к": true,
	"с/з": true,
}

// tokenInColumn decides membership of a token in a column's x-range.
// Center containment is the common case, the other two clauses keep
// wide tokens from dropping into the gap between columns.
func tokenInColumn(t Token, col Column) bool {
	if col.contains(t.Box.CenterX()) {
		return true
	}
	if horizontalOverlap(t.Box, col) > lectureOverlapFraction*col.width() {
		return true
	}
	center := col.centerX()
	return t.Box.Left < center && t.Box.Right > center
}

func horizontalOverlap(b Box, col Column) float64 {
	left := b.Left
	if col.X0 > left {
		left = col.X0
	}
	right := b.Right
	if col.X1 < right {
		right = col.X1
	}
	if right <= left {
		return 0
	}
	return right - left
}

// cellTokens gathers the tokens belonging to one (slot, column) cell in
// reading order: lines top to bottom, tokens left to right within a
// line.
func cellTokens(page pageData, slot TimeSlot, col Column) []Token {
	var tokens []Token
	for _, t := range page.Tokens {
		cy := t.Box.CenterY()
		if cy < slot.Top || cy >= slot.Bottom {
			continue
		}
		if tokenInColumn(t, col) {
			tokens = append(tokens, t)
		}
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		if abs(tokens[i].Box.Top-tokens[j].Box.Top) > cellBandTolerance {
			return tokens[i].Box.Top < tokens[j].Box.Top
		}
		return tokens[i].Box.Left < tokens[j].Box.Left
	})
	return tokens
}

// collectCellText is cellTokens flattened to a single space-joined
// string, with each token individually repaired first. Mirroring
// happens per rendered fragment, never across a whole cell.
func collectCellText(page pageData, slot TimeSlot, col Column) string {
	var parts []string
	for _, t := range cellTokens(page, slot, col) {
		repaired := strings.TrimSpace(repairText(t.Text))
		if repaired != "" {
			parts = append(parts, repaired)
		}
	}
	return strings.Join(parts, " ")
}

// cleanCellText discards fragments too small to be a lesson and the
// template's filler abbreviations.
func cleanCellText(s string) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) < minCellRunes {
		return ""
	}
	if noiseCellTexts[strings.ToLower(s)] {
		return ""
	}
	return s
}

func hasLectureMarker(s string) bool {
	lower := strings.ToLower(s)
	for _, m := range lectureMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// resolveCells produces the text of every (slot, group) cell. The
// second pass handles merged lecture cells: the template renders a
// whole-cohort session once, in the leftmost column it belongs to, so
// an empty cell adopts the first cell to its left in the same row that
// carries a lecture marker. The pass reads only the first-pass
// snapshot, so inheritance never chains.
func resolveCells(page pageData, slots []TimeSlot, groups []Column) [][]string {
	texts := make([][]string, len(slots))
	for si, slot := range slots {
		texts[si] = make([]string, len(groups))
		for gi, col := range groups {
			texts[si][gi] = cleanCellText(collectCellText(page, slot, col))
		}
	}

	resolved := make([][]string, len(slots))
	for si := range slots {
		resolved[si] = make([]string, len(groups))
		copy(resolved[si], texts[si])

		for gi := range groups {
			if resolved[si][gi] != "" {
				continue
			}
			for gj := 0; gj < gi; gj++ {
				if texts[si][gj] != "" && hasLectureMarker(texts[si][gj]) {
					resolved[si][gi] = texts[si][gj]
					break
				}
			}
		}
	}

	return resolved
}
