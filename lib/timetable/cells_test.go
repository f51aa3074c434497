package timetable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveCells(t *testing.T) {
	slots := []TimeSlot{
		{Start: "09:00", End: "09:50", Top: 120, Bottom: 200},
		{Start: "10:05", End: "10:55", Top: 200, Bottom: 280},
	}
	groups := []Column{
		{Role: RoleGroup, Name: "Группа 13", X0: 200, X1: 420},
		{Role: RoleGroup, Name: "Группа 14", X0: 420, X1: 800},
	}
	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			// two lines of one cell, read top to bottom
			tok("Математика", 250, 130, 350, 145),
			tok("Иванов И.И. 301", 250, 155, 360, 170),
			tok("Физика", 500, 130, 560, 145),
			// filler abbreviation, must resolve to an empty cell
			tok("с/к", 250, 210, 280, 225),
		},
	}

	cells := resolveCells(page, slots, groups)
	require.Equal(t, "Математика Иванов И.И. 301", cells[0][0])
	require.Equal(t, "Физика", cells[0][1])
	require.Equal(t, "", cells[1][0])
	require.Equal(t, "", cells[1][1])
}

func TestResolveCellsRepairsMirroredTokens(t *testing.T) {
	slots := []TimeSlot{{Start: "09:00", End: "09:50", Top: 120, Bottom: 200}}
	groups := []Column{{Role: RoleGroup, Name: "Группа 13", X0: 200, X1: 800}}
	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			tok("яицкеЛ", 250, 130, 310, 145),
			tok("Математика", 320, 130, 420, 145),
		},
	}

	cells := resolveCells(page, slots, groups)
	require.Equal(t, "Лекция Математика", cells[0][0])
}

func TestResolveCellsStraddlingLectureLandsInBothColumns(t *testing.T) {
	slots := []TimeSlot{{Start: "09:00", End: "09:50", Top: 120, Bottom: 200}}
	groups := []Column{
		{Role: RoleGroup, Name: "Группа 13", X0: 200, X1: 420},
		{Role: RoleGroup, Name: "Группа 14", X0: 420, X1: 800},
	}
	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			// one wide line covering both column centers
			tok("(лек) Физика Петров П.П. 210", 220, 130, 780, 150),
		},
	}

	cells := resolveCells(page, slots, groups)
	require.Equal(t, "(лек) Физика Петров П.П. 210", cells[0][0])
	require.Equal(t, cells[0][0], cells[0][1])
}

func TestResolveCellsLectureInheritedFromLeftColumn(t *testing.T) {
	slots := []TimeSlot{{Start: "09:00", End: "09:50", Top: 120, Bottom: 200}}
	groups := []Column{
		{Role: RoleGroup, Name: "Группа 13", X0: 200, X1: 420},
		{Role: RoleGroup, Name: "Группа 14", X0: 420, X1: 800},
	}
	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			// the lecture renders wholly inside the first column even
			// though the whole cohort attends it
			tok("(лек) Физика", 210, 130, 320, 150),
			tok("Петров П.П. 210", 210, 155, 400, 170),
		},
	}

	cells := resolveCells(page, slots, groups)
	require.Equal(t, "(лек) Физика Петров П.П. 210", cells[0][0])
	require.Equal(t, cells[0][0], cells[0][1])
}

func TestResolveCellsLectureInheritedAcrossGap(t *testing.T) {
	slots := []TimeSlot{{Start: "09:00", End: "09:50", Top: 120, Bottom: 200}}
	groups := []Column{
		{Role: RoleGroup, Name: "Группа 13", X0: 200, X1: 400},
		{Role: RoleGroup, Name: "Группа 14", X0: 400, X1: 600},
		{Role: RoleGroup, Name: "Группа 15", X0: 600, X1: 800},
	}
	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			tok("(лек) Физика Петров П.П. 210", 210, 130, 390, 150),
		},
	}

	// both empty columns adopt from the first-pass snapshot, so the
	// rightmost one inherits the lecture itself, not a copy of a copy
	cells := resolveCells(page, slots, groups)
	require.Equal(t, "(лек) Физика Петров П.П. 210", cells[0][0])
	require.Equal(t, cells[0][0], cells[0][1])
	require.Equal(t, cells[0][0], cells[0][2])
}

func TestResolveCellsNoRightToLeftInheritance(t *testing.T) {
	slots := []TimeSlot{{Start: "09:00", End: "09:50", Top: 120, Bottom: 200}}
	groups := []Column{
		{Role: RoleGroup, Name: "Группа 13", X0: 200, X1: 420},
		{Role: RoleGroup, Name: "Группа 14", X0: 420, X1: 800},
	}
	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			tok("(лек) Физика Петров П.П. 210", 430, 130, 700, 150),
		},
	}

	cells := resolveCells(page, slots, groups)
	require.Equal(t, "(лек) Физика Петров П.П. 210", cells[0][1])
	require.Equal(t, "", cells[0][0])
}

func TestResolveCellsNoInheritanceWithoutMarker(t *testing.T) {
	slots := []TimeSlot{{Start: "09:00", End: "09:50", Top: 120, Bottom: 200}}
	groups := []Column{
		{Role: RoleGroup, Name: "Группа 13", X0: 200, X1: 420},
		{Role: RoleGroup, Name: "Группа 14", X0: 420, X1: 800},
	}
	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			// an ordinary session in the left column stays put
			tok("Физика Петров П.П. 210", 210, 130, 400, 150),
		},
	}

	cells := resolveCells(page, slots, groups)
	require.Equal(t, "Физика Петров П.П. 210", cells[0][0])
	require.Equal(t, "", cells[0][1])
}

func TestCleanCellText(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "с/к", expected: ""},
		{input: "С/З", expected: ""},
		{input: "ab", expected: ""},
		{input: "  ", expected: ""},
		{input: "Математика", expected: "Математика"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, cleanCellText(test.input), "input: %q", test.input)
	}
}
