package timetable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mirror(s string) string {
	runes := []rune(s)
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[len(runes)-1-i] = r
	}
	return string(out)
}

func TestRepairText(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "киньледеноП", expected: "Понедельник"},
		{input: "ысаЧ", expected: "Часы"},
		{input: "инД", expected: "Дни"},
		{input: "Понедельник", expected: "Понедельник"},
		{input: "Математика", expected: "Математика"},
		{input: "(лек) Математика Иванов И.И. 301", expected: "(лек) Математика Иванов И.И. 301"},
		{input: "а", expected: "а"},
		{input: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, repairText(test.input), "input: %q", test.input)
	}
}

func TestRepairTextWeekdayRoundTrip(t *testing.T) {
	for _, day := range weekdays {
		capitalized := capitalizeFirst(day)
		require.Equal(t, capitalized, repairText(mirror(capitalized)))
	}
}

func TestRepairTextIdempotent(t *testing.T) {
	inputs := []string{
		"киньледеноП",
		"ысаЧ",
		"Среда",
		"адерС",
		"Математика",
		"яицкеЛ",
		"Физика (лек) Петров П.П. 210",
	}
	for _, input := range inputs {
		once := repairText(input)
		require.Equal(t, once, repairText(once), "input: %q", input)
	}
}

func TestCanonicalWeekday(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		ok       bool
	}{
		{input: "понедельник", expected: "Понедельник", ok: true},
		{input: "Вторник", expected: "Вторник", ok: true},
		{input: "суббота 1 курс", expected: "Суббота", ok: true},
		// OCR damage within the fuzzy threshold
		{input: "понедельнил", expected: "Понедельник", ok: true},
		{input: "читверг", expected: "Четверг", ok: true},
		{input: "часы", ok: false},
		{input: "групп", ok: false},
		{input: "", ok: false},
	}

	for _, test := range testCases {
		got, ok := canonicalWeekday(test.input)
		require.Equal(t, test.ok, ok, "input: %q", test.input)
		if test.ok {
			require.Equal(t, test.expected, got, "input: %q", test.input)
		}
	}
}
