package timetable

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var timePattern = regexp.MustCompile(`^\d{1,2}[:.]\d{2}`)
var timeFindPattern = regexp.MustCompile(`\d{1,2}[:.]\d{2}`)

const (
	// fraction of the page width occupied by the day and time label
	// area, times are only looked for there
	timeRegionFraction = 0.25
	// fraction of the page width occupied by the day label column
	dayRegionFraction = 0.18
	// vertical distance within which time tokens are merged into the
	// same row
	rowClusterTolerance = 15.0
)

// buildTimeAxis recovers the ordered sequence of time slots defining
// the grid's rows. It only looks at the label area on the left, the
// group columns are free to contain times of their own (exam dates and
// the like) without confusing the axis.
func buildTimeAxis(page pageData) []TimeSlot {
	type cluster struct {
		top    float64
		tokens []Token
	}

	var clusters []*cluster
	labelLimit := page.Width * timeRegionFraction
	for _, t := range page.Tokens {
		if t.Box.Left >= labelLimit || !timePattern.MatchString(t.Text) {
			continue
		}
		placed := false
		for _, c := range clusters {
			if abs(c.top-t.Box.Top) < rowClusterTolerance {
				c.tokens = append(c.tokens, t)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, &cluster{top: t.Box.Top, tokens: []Token{t}})
		}
	}
	if len(clusters) == 0 {
		return nil
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].top < clusters[j].top })

	slots := make([]TimeSlot, 0, len(clusters))
	for i, c := range clusters {
		sort.SliceStable(c.tokens, func(a, b int) bool {
			if c.tokens[a].Box.Top != c.tokens[b].Box.Top {
				return c.tokens[a].Box.Top < c.tokens[b].Box.Top
			}
			return c.tokens[a].Box.Left < c.tokens[b].Box.Left
		})
		var joined strings.Builder
		for _, t := range c.tokens {
			joined.WriteString(t.Text)
		}

		times := timeFindPattern.FindAllString(joined.String(), -1)
		slot := TimeSlot{Top: c.top}
		if len(times) > 0 {
			slot.Start = normalizeClock(times[0])
		}
		if len(times) > 1 {
			slot.End = normalizeClock(times[1])
		}
		if i+1 < len(clusters) {
			slot.Bottom = clusters[i+1].top
		} else {
			slot.Bottom = page.Height
		}
		slots = append(slots, slot)
	}

	return slots
}

// normalizeClock brings a raw time token to HH:MM form, the renderer
// is inconsistent about the separator and leading zero.
func normalizeClock(s string) string {
	s = strings.ReplaceAll(s, ".", ":")
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return s
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return s
	}
	return fmt.Sprintf("%02d:%s", hour, parts[1])
}
