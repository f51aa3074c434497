package timetable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"firportal-backend/lib/telemetry"
)

func testSlots() []TimeSlot {
	return []TimeSlot{
		{Start: "09:00", End: "09:50", Top: 120, Bottom: 200},
		{Start: "10:05", End: "10:55", Top: 200, Bottom: 280},
		{Start: "11:20", End: "12:10", Top: 280, Bottom: 600},
	}
}

func groupNames(columns []Column) []string {
	var names []string
	for _, c := range groupColumns(columns) {
		names = append(names, c.Name)
	}
	return names
}

func TestClassifyColumns(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/timetable")
	defer cleanup()

	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			tok("Группа 13", 220, 80, 320, 100),
			tok("Группа 14", 520, 80, 620, 100),
			tok("Математика", 250, 130, 350, 150),
			tok("Физика", 500, 130, 600, 150),
		},
	}

	columns := classifyColumns(context.Background(), page, testSlots())
	require.Equal(t, []string{"Группа 13", "Группа 14"}, groupNames(columns))

	groups := groupColumns(columns)
	// boundaries split the gap between adjacent headers down the middle
	require.Equal(t, 420.0, groups[0].X1)
	require.Equal(t, 420.0, groups[1].X0)
	require.Equal(t, page.Width, groups[1].X1)

	// the day and time columns pin to the left edge
	require.Equal(t, RoleDay, columns[0].Role)
	require.Equal(t, 0.0, columns[0].X0)
	require.Equal(t, RoleTime, columns[1].Role)
}

func TestClassifyColumnsRejectsVocabularyPhantom(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/timetable")
	defer cleanup()

	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			tok("Группа 13", 220, 80, 320, 100),
			tok("Группа 14", 520, 80, 620, 100),
			// a grid misdetection produced a third header over the day
			// labels that bled to the right edge
			tok("Группа 15", 660, 80, 740, 100),
			tok("Математика", 250, 130, 350, 150),
			tok("Физика", 480, 130, 560, 150),
			tok("Дни", 660, 130, 700, 150),
			tok("инД", 660, 210, 700, 230),
		},
	}

	columns := classifyColumns(context.Background(), page, testSlots())
	require.Equal(t, []string{"Группа 13", "Группа 14"}, groupNames(columns))
}

func TestClassifyColumnsRejectsHollowPhantom(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/timetable")
	defer cleanup()

	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			tok("Группа 13", 220, 80, 320, 100),
			tok("Группа 15", 660, 80, 740, 100),
			tok("Математика", 250, 130, 350, 150),
			tok("Физика", 250, 210, 350, 230),
			tok("История", 250, 290, 350, 310),
			// nothing at all under the phantom header
		},
	}

	columns := classifyColumns(context.Background(), page, testSlots())
	require.Equal(t, []string{"Группа 13"}, groupNames(columns))
}

func TestClassifyColumnsFiltersBadGroupNames(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/timetable")
	defer cleanup()

	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			tok("Группа 13", 220, 80, 320, 100),
			tok("Группа", 500, 80, 560, 100),
			tok("Дни", 565, 80, 600, 100),
			tok("Математика", 250, 130, 350, 150),
		},
	}

	columns := classifyColumns(context.Background(), page, testSlots())
	require.Equal(t, []string{"Группа 13"}, groupNames(columns))
}

func TestClassifyColumnsMergesDuplicateAnchors(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/timetable")
	defer cleanup()

	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			tok("Группа 13", 220, 80, 320, 100),
			tok("Группа 13", 240, 80, 340, 102),
			tok("Математика", 250, 130, 350, 150),
		},
	}

	columns := classifyColumns(context.Background(), page, testSlots())
	require.Equal(t, []string{"Группа 13"}, groupNames(columns))
}

func TestClassifyColumnsBareNumberFallback(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/timetable")
	defer cleanup()

	page := pageData{
		Width:  800,
		Height: 600,
		Tokens: []Token{
			tok("13", 240, 80, 260, 100),
			tok("14", 540, 80, 560, 100),
			tok("Математика", 250, 130, 350, 150),
			tok("Физика", 500, 130, 600, 150),
		},
	}

	columns := classifyColumns(context.Background(), page, testSlots())
	require.Equal(t, []string{"Группа 13", "Группа 14"}, groupNames(columns))
}

func TestClassifyColumnsNoHeaders(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/timetable")
	defer cleanup()

	page := pageData{Width: 800, Height: 600}
	columns := classifyColumns(context.Background(), page, testSlots())
	require.Empty(t, groupColumns(columns))
}
