package bsu

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseHiddenInputs(t *testing.T) {
	doc := parseDoc(t, `
		<form>
			<input type="hidden" name="__VIEWSTATE" value="abc123" />
			<input type="hidden" name="__EVENTVALIDATION" value="def456" />
			<input type="hidden" value="orphan" />
			<input type="text" name="ctl00$ContentPlaceHolder0$txtUserLogin" />
		</form>
	`)

	diff := cmp.Diff(
		map[string]string{
			"__VIEWSTATE":       "abc123",
			"__EVENTVALIDATION": "def456",
		},
		parseHiddenInputs(doc),
	)
	require.Empty(t, diff)
}

func TestParseNewsPage(t *testing.T) {
	doc := parseDoc(t, `
		<span id="ctl00_lbFIO1">  Иванов Иван Иванович </span>
		<h2 align="left"><a href="/news/1">Начало семестра</a></h2>
		<p>Занятия начинаются 1 сентября.</p>
		<h2 align="left"><a href="https://example.org/ext">Внешняя новость</a></h2>
		<h2 align="left"><a href="/news/3"></a></h2>
	`)

	page := parseNewsPage(doc, "https://student.bsu.by")
	require.Equal(t, "Иванов Иван Иванович", page.FullName)

	diff := cmp.Diff(
		[]NewsItem{
			{
				Title:       "Начало семестра",
				Description: "Занятия начинаются 1 сентября.",
				Link:        "https://student.bsu.by/news/1",
			},
			{
				Title: "Внешняя новость",
				Link:  "https://example.org/ext",
			},
		},
		page.Items,
	)
	require.Empty(t, diff)
}

func TestParseProgress(t *testing.T) {
	doc := parseDoc(t, `
		<span id="ctl00_lbStudBall">Средний   балл: 8,7</span>
		<span id="ctl00_lbStudKurs">3 курс, специальность: мировая экономика</span>
	`)

	progress := parseProgress(doc)
	require.Equal(t, "Средний балл: 8,7", progress.GradeText)
	require.InDelta(t, 8.7, progress.GradeValue, 0.001)
	require.Equal(t, 3, progress.Course)
	require.Equal(t, "мировая экономика", progress.Specialty)
}

func TestParseProgressDefaults(t *testing.T) {
	progress := parseProgress(parseDoc(t, `<html></html>`))
	require.Equal(t, 1, progress.Course)
	require.Equal(t, "", progress.Specialty)
	require.Equal(t, 0.0, progress.GradeValue)
}

func TestTimetableFile(t *testing.T) {
	testCases := []struct {
		specialty string
		expected  string
	}{
		{specialty: "мировая экономика", expected: "WE_timetable.pdf"},
		{specialty: "  Международные отношения ", expected: "IR_timetable.pdf"},
		{specialty: "неизвестная специальность", expected: DefaultTimetableFile},
		{specialty: "", expected: DefaultTimetableFile},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, TimetableFile(test.specialty), "specialty: %q", test.specialty)
	}
}
