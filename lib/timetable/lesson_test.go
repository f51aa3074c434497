package timetable

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseLessonText(t *testing.T) {
	testCases := []struct {
		text     string
		expected []Lesson
	}{
		{
			text: "(лек) Математика Иванов И.И. 301",
			expected: []Lesson{{
				Subject: "Математика",
				Type:    TypeLecture,
				Teacher: "Иванов И.И.",
				Room:    "301",
			}},
		},
		{
			text: "Иностранный язык Петров И.И. 205 Сидорова А.А. 206",
			expected: []Lesson{
				{
					Subject:  "Иностранный язык",
					Type:     TypePractical,
					Teacher:  "Петров И.И.",
					Room:     "205",
					Subgroup: "Подгруппа 1",
				},
				{
					Subject:  "Иностранный язык",
					Type:     TypePractical,
					Teacher:  "Сидорова А.А.",
					Room:     "206",
					Subgroup: "Подгруппа 2",
				},
			},
		},
		{
			// the language track written after each teacher names the
			// subgroup
			text: "Иностранный язык Петров И.И. 205 англ. Сидорова А.А. 206 нем.",
			expected: []Lesson{
				{
					Subject:  "Иностранный язык",
					Type:     TypePractical,
					Teacher:  "Петров И.И.",
					Room:     "205",
					Subgroup: "Английский",
				},
				{
					Subject:  "Иностранный язык",
					Type:     TypePractical,
					Teacher:  "Сидорова А.А.",
					Room:     "206",
					Subgroup: "Немецкий",
				},
			},
		},
		{
			// two instructors without a language or elective word is one
			// co-taught session, the last name wins
			text: "Математический анализ Иванов И.И. 301 Петров П.П. 302",
			expected: []Lesson{{
				Subject: "Математический анализ",
				Type:    TypePractical,
				Teacher: "Петров П.П.",
				Room:    "302",
			}},
		},
		{
			text: "(прак) Физика Смирнов В.В. ауд. 412а",
			expected: []Lesson{{
				Subject: "Физика",
				Type:    TypePractical,
				Teacher: "Смирнов В.В.",
				Room:    "412а",
			}},
		},
		{
			// a correction appended to the cell, the last room wins
			text: "(сем) Философия Козлов К.К. 101 305",
			expected: []Lesson{{
				Subject: "Философия",
				Type:    TypeSeminar,
				Teacher: "Козлов К.К.",
				Room:    "305",
			}},
		},
		{
			text: "Экзамен Высшая математика Иванов И.И. 301",
			expected: []Lesson{{
				Subject: "Высшая математика",
				Type:    TypeExam,
				Teacher: "Иванов И.И.",
				Room:    "301",
			}},
		},
		{
			text: "(лаб) Информатика 1 п/г Орлова О.О. 214",
			expected: []Lesson{{
				Subject:  "Информатика",
				Type:     TypeLab,
				Teacher:  "Орлова О.О.",
				Room:     "214",
				Subgroup: "1",
			}},
		},
		{
			// no subject survives subtraction, the generic label stands in
			text: "(лек) Иванов И.И. 301",
			expected: []Lesson{{
				Subject: "Занятие",
				Type:    TypeLecture,
				Teacher: "Иванов И.И.",
				Room:    "301",
			}},
		},
		{
			// a short abbreviated remainder resolves through lexical hints
			text: "Нем. Петров И.И. 205",
			expected: []Lesson{{
				Subject:  "Иностранный язык",
				Type:     TypePractical,
				Teacher:  "Петров И.И.",
				Room:     "205",
				Subgroup: "Немецкий",
			}},
		},
		{
			text: "Физ. Иванов И.И. с/к",
			expected: []Lesson{{
				Subject: "Физкультура",
				Type:    TypePractical,
				Teacher: "Иванов И.И.",
				Room:    "с/к",
			}},
		},
		{
			// an abbreviation with no known hint still yields a lesson
			text: "Фк Иванов И.И. 301",
			expected: []Lesson{{
				Subject: "Занятие",
				Type:    TypePractical,
				Teacher: "Иванов И.И.",
				Room:    "301",
			}},
		},
		{
			// a foreign given name carries no initials
			text: "Иностранный язык Ван Лисин 205",
			expected: []Lesson{{
				Subject: "Иностранный язык",
				Type:    TypePractical,
				Teacher: "Ван Лисин",
				Room:    "205",
			}},
		},
		{
			text: "Физическая культура",
			expected: []Lesson{{
				Subject: "Физическая культура",
				Type:    TypePractical,
			}},
		},
		{text: "", expected: nil},
		{text: "   ", expected: nil},
	}

	for _, test := range testCases {
		got := parseLessonText(test.text)
		diff := cmp.Diff(test.expected, got)
		require.Empty(t, diff, "text: %q", test.text)
	}
}

func TestParseLessonTextDoesNotMistakeSubjectForTeacher(t *testing.T) {
	lessons := parseLessonText("Высшая Математика Иванов И.И. 301")
	require.Len(t, lessons, 1)
	require.Equal(t, "Иванов И.И.", lessons[0].Teacher)
	require.Equal(t, "Высшая Математика", lessons[0].Subject)
}

func TestFindRoomsRejectsGluedDigits(t *testing.T) {
	rooms := findRooms("тел. 123456 семинар 309")
	var numbers []string
	for _, r := range rooms {
		numbers = append(numbers, r.number)
	}
	require.Equal(t, []string{"309"}, numbers)
}

func TestFindRoomsSportsFacility(t *testing.T) {
	rooms := findRooms("Физкультура с/к")
	require.Len(t, rooms, 1)
	require.Equal(t, "с/к", rooms[0].number)

	// glued to a word it is part of that word, not a facility
	require.Empty(t, findRooms("класс/кабинет"))
}
