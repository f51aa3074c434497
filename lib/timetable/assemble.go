package timetable

import (
	"sort"
)

// buildDayIndex assigns a weekday name to every time slot. Day labels
// live in the leftmost column, one per block of rows, so a label
// applies from the row it starts at until the next label takes over.
func buildDayIndex(page pageData, slots []TimeSlot) []string {
	type dayMark struct {
		name string
		top  float64
	}

	var marks []dayMark
	limit := page.Width * dayRegionFraction
	for _, t := range page.Tokens {
		if t.Box.CenterX() >= limit {
			continue
		}
		if name, ok := canonicalWeekday(repairText(t.Text)); ok {
			marks = append(marks, dayMark{name: name, top: t.Box.Top})
		}
	}
	sort.SliceStable(marks, func(i, j int) bool { return marks[i].top < marks[j].top })

	days := make([]string, len(slots))
	for i, slot := range slots {
		name := ""
		for _, m := range marks {
			if m.top >= slot.Bottom {
				break
			}
			name = m.name
		}
		if name == "" && len(marks) > 0 {
			name = marks[0].name
		}
		days[i] = name
	}
	return days
}

// scheduleBuilder accumulates lessons across pages and deduplicates
// repeats, which happen whenever consecutive page selections overlap.
type scheduleBuilder struct {
	groups map[string]map[string][]Lesson
	// day names per group in first-seen order, for days the canonical
	// weekday list does not cover
	dayOrder map[string][]string
	seen     map[dedupKey]bool
}

type dedupKey struct {
	group    string
	day      string
	start    string
	subject  string
	subgroup string
}

func newScheduleBuilder() *scheduleBuilder {
	return &scheduleBuilder{
		groups:   map[string]map[string][]Lesson{},
		dayOrder: map[string][]string{},
		seen:     map[dedupKey]bool{},
	}
}

func (b *scheduleBuilder) add(group, day string, lesson Lesson) {
	if day == "" {
		return
	}
	key := dedupKey{
		group:    group,
		day:      day,
		start:    lesson.TimeStart,
		subject:  lesson.Subject,
		subgroup: lesson.Subgroup,
	}
	if b.seen[key] {
		return
	}
	b.seen[key] = true

	days, ok := b.groups[group]
	if !ok {
		days = map[string][]Lesson{}
		b.groups[group] = days
	}
	if _, ok := days[day]; !ok {
		b.dayOrder[group] = append(b.dayOrder[group], day)
	}
	days[day] = append(days[day], lesson)
}

// result renders the accumulated state: days in weekday order with
// stragglers appended as encountered, lessons within a day ordered by
// start time. The Groups map is never nil, an empty schedule serializes
// as {"groups":{}}.
func (b *scheduleBuilder) result() ScheduleResult {
	out := ScheduleResult{Groups: map[string][]DaySchedule{}}

	for group, days := range b.groups {
		ordered := make([]string, 0, len(days))
		for _, day := range weekdays {
			canonical := capitalizeFirst(day)
			if _, ok := days[canonical]; ok {
				ordered = append(ordered, canonical)
			}
		}
		for _, day := range b.dayOrder[group] {
			if !containsString(ordered, day) {
				ordered = append(ordered, day)
			}
		}

		week := make([]DaySchedule, 0, len(ordered))
		for _, day := range ordered {
			lessons := days[day]
			sort.SliceStable(lessons, func(i, j int) bool {
				if lessons[i].TimeStart != lessons[j].TimeStart {
					return lessons[i].TimeStart < lessons[j].TimeStart
				}
				return lessons[i].Subgroup < lessons[j].Subgroup
			})
			week = append(week, DaySchedule{DayName: day, Lessons: lessons})
		}
		out.Groups[group] = week
	}

	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
