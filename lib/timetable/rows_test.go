package timetable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tok(text string, left, top, right, bottom float64) Token {
	return Token{Text: text, Box: Box{Left: left, Top: top, Right: right, Bottom: bottom}}
}

func TestBuildTimeAxis(t *testing.T) {
	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			// rows deliberately out of document order
			tok("11:20", 150, 280, 190, 292),
			tok("12:10", 150, 284, 190, 296),
			tok("9:00", 150, 120, 185, 132),
			tok("9:50", 150, 124, 185, 136),
			tok("10:05", 150, 200, 190, 212),
			tok("10:55", 150, 204, 190, 216),
			// a time inside a group column must not become a row
			tok("14:00", 500, 120, 540, 132),
			// non-time text in the label area
			tok("Часы", 150, 80, 190, 95),
		},
	}

	slots := buildTimeAxis(page)
	require.Len(t, slots, 3)

	require.Equal(t, "09:00", slots[0].Start)
	require.Equal(t, "09:50", slots[0].End)
	require.Equal(t, "10:05", slots[1].Start)
	require.Equal(t, "10:55", slots[1].End)
	require.Equal(t, "11:20", slots[2].Start)
	require.Equal(t, "12:10", slots[2].End)

	// rows tile the page vertically
	require.Equal(t, slots[1].Top, slots[0].Bottom)
	require.Equal(t, slots[2].Top, slots[1].Bottom)
	require.Equal(t, page.Height, slots[2].Bottom)

	for i := 1; i < len(slots); i++ {
		require.Less(t, slots[i-1].Start, slots[i].Start)
	}
}

func TestBuildTimeAxisEmptyPage(t *testing.T) {
	slots := buildTimeAxis(pageData{Width: 800, Height: 600})
	require.Empty(t, slots)
}

func TestNormalizeClock(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "9.00", expected: "09:00"},
		{input: "9:00", expected: "09:00"},
		{input: "12:10", expected: "12:10"},
		{input: "08.15", expected: "08:15"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, normalizeClock(test.input))
	}
}
