package timetable

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestBuildDayIndex(t *testing.T) {
	slots := []TimeSlot{
		{Start: "09:00", Top: 120, Bottom: 200},
		{Start: "10:05", Top: 200, Bottom: 280},
		{Start: "11:20", Top: 280, Bottom: 360},
		{Start: "12:30", Top: 360, Bottom: 600},
	}
	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			// one label per block of rows, the second one mirrored
			tok("Понедельник", 20, 125, 120, 140),
			tok("кинротВ", 20, 285, 100, 300),
			// group column text must not look like a day label
			tok("Математика", 250, 130, 350, 150),
		},
	}

	days := buildDayIndex(page, slots)
	require.Equal(
		t,
		[]string{"Понедельник", "Понедельник", "Вторник", "Вторник"},
		days,
	)
}

func TestBuildDayIndexNoLabels(t *testing.T) {
	slots := []TimeSlot{{Start: "09:00", Top: 120, Bottom: 600}}
	days := buildDayIndex(pageData{Width: 800, Height: 600}, slots)
	require.Equal(t, []string{""}, days)
}

func TestScheduleBuilderDedup(t *testing.T) {
	b := newScheduleBuilder()
	lesson := Lesson{
		Subject:   "Математика",
		Type:      TypeLecture,
		Teacher:   "Иванов И.И.",
		Room:      "301",
		TimeStart: "09:00",
		TimeEnd:   "09:50",
	}

	// the same lesson seen on two overlapping pages
	b.add("Группа 13", "Понедельник", lesson)
	b.add("Группа 13", "Понедельник", lesson)

	result := b.result()
	require.Len(t, result.Groups["Группа 13"], 1)
	require.Len(t, result.Groups["Группа 13"][0].Lessons, 1)
}

func TestScheduleBuilderKeepsSubgroupsApart(t *testing.T) {
	b := newScheduleBuilder()
	first := Lesson{
		Subject:   "Иностранный язык",
		Teacher:   "Петров И.И.",
		Room:      "205",
		TimeStart: "09:00",
		Subgroup:  "1",
	}
	second := first
	second.Teacher = "Сидорова А.А."
	second.Room = "206"
	second.Subgroup = "2"

	b.add("Группа 13", "Понедельник", first)
	b.add("Группа 13", "Понедельник", second)

	result := b.result()
	require.Len(t, result.Groups["Группа 13"][0].Lessons, 2)
}

func TestScheduleBuilderOrdering(t *testing.T) {
	b := newScheduleBuilder()
	b.add("Группа 13", "Среда", Lesson{Subject: "Физика", TimeStart: "11:20"})
	b.add("Группа 13", "Понедельник", Lesson{Subject: "История", TimeStart: "10:05"})
	b.add("Группа 13", "Понедельник", Lesson{Subject: "Математика", TimeStart: "09:00"})
	// a day name the canonical list does not know goes last
	b.add("Группа 13", "День консультаций", Lesson{Subject: "Химия", TimeStart: "09:00"})

	result := b.result()
	week := result.Groups["Группа 13"]
	require.Len(t, week, 3)
	require.Equal(t, "Понедельник", week[0].DayName)
	require.Equal(t, "Среда", week[1].DayName)
	require.Equal(t, "День консультаций", week[2].DayName)

	diff := cmp.Diff(
		[]Lesson{
			{Subject: "Математика", TimeStart: "09:00"},
			{Subject: "История", TimeStart: "10:05"},
		},
		week[0].Lessons,
	)
	require.Empty(t, diff)
}

func TestScheduleBuilderSkipsDaylessLessons(t *testing.T) {
	b := newScheduleBuilder()
	b.add("Группа 13", "", Lesson{Subject: "Математика", TimeStart: "09:00"})
	require.Empty(t, b.result().Groups)
}

func TestEmptyResultSerialization(t *testing.T) {
	data, err := json.Marshal(newScheduleBuilder().result())
	require.NoError(t, err)
	require.JSONEq(t, `{"groups":{}}`, string(data))
}
