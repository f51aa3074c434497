package timetable

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"firportal-backend/lib/textutil"
)

// teacherPattern matches "Фамилия И.О." and the one-initial variant,
// including hyphenated surnames. foreignTeacherPattern covers
// instructors written as two capitalized words with no initials; it is
// consulted only when no dotted-initials name is present, which keeps
// capitalized subject words out of the teacher slot.
var teacherPattern = regexp.MustCompile(`[А-ЯЁ][а-яё]+(?:-[А-ЯЁ][а-яё]+)?\s+[А-ЯЁ]\.\s?(?:[А-ЯЁ]\.)?`)
var foreignTeacherPattern = regexp.MustCompile(`[А-ЯЁ][а-яё]+(?:-[А-ЯЁ][а-яё]+)?\s+[А-ЯЁ][а-яё]+`)

// roomPattern matches an auditorium number with its optional building
// letter and "ауд." prefix, or a sports facility abbreviation. Boundary
// checks happen in findRooms since \b does not understand Cyrillic.
var roomPattern = regexp.MustCompile(`(?:ауд\.?\s*)?(\d{3,4}[а-яё]?|[сС]/[кзКЗ])`)

// subgroupPattern matches explicit subgroup markers like "1 п/г" or
// "2 подгруппа".
var subgroupPattern = regexp.MustCompile(`(\d)\s*(?:п/г|п\.г\.|подгруппа|подгр\.?)`)

var parenPattern = regexp.MustCompile(`\(([^)]*)\)`)

// session type spellings, longest spellings first so "лекция" is
// consumed before "лек" gets a chance
var typeSpellings = []struct {
	prefix string
	kind   string
}{
	{"лекция", TypeLecture},
	{"лек", TypeLecture},
	{"практическое", TypePractical},
	{"практика", TypePractical},
	{"прак", TypePractical},
	{"пр", TypePractical},
	{"семинар", TypeSeminar},
	{"сем", TypeSeminar},
	{"лабораторная", TypeLab},
	{"лаб", TypeLab},
	{"экзамен", TypeExam},
	{"экз", TypeExam},
	{"зачет", TypeExam},
	{"зачёт", TypeExam},
	{"факультатив", TypeElective},
	{"фак", TypeElective},
}

// a remainder shorter than this is an abbreviation hint, not a subject
const minSubjectRunes = 4

// language tracks recognized in lesson text, standing in for the
// subject when nothing else survives and labeling subgroups
var languageTracks = []struct {
	hint  string
	label string
}{
	{"англ", "Английский"},
	{"нем", "Немецкий"},
	{"фр", "Французский"},
}

// cells holding one lesson per instructor carry one of these words; a
// co-taught session without them stays a single lesson
var splitTriggers = []string{"язык", "иностранн", "факультатив"}

type span struct{ start, end int }

// parseLessonText turns one resolved cell into lessons subtractively:
// the session type, teachers, subgroup markers and rooms are carved out
// of the text in that order, and whatever survives is the subject.
// Several teacher/room pairs in a language or elective cell describe
// per-subgroup sessions of the same subject.
func parseLessonText(text string) []Lesson {
	s := textutil.CollapseSpaces(text)
	if s == "" {
		return nil
	}
	original := s

	kind, s := extractType(s)

	teacherSpans := findTeachers(s)
	if len(teacherSpans) >= 2 && hasSplitTrigger(original) {
		return parseSubgroups(s, kind, teacherSpans)
	}

	var cuts []span
	teacher := ""
	for _, m := range teacherSpans {
		teacher = strings.TrimSpace(s[m[0]:m[1]])
		cuts = append(cuts, span{m[0], m[1]})
	}

	subgroup := ""
	if m := subgroupPattern.FindStringSubmatchIndex(s); m != nil {
		subgroup = s[m[2]:m[3]]
		cuts = append(cuts, span{m[0], m[1]})
	}

	room := ""
	for _, r := range findRooms(s) {
		// several room mentions collapse to the last one, corrections
		// are appended to the cell rather than edited in
		room = r.number
		cuts = append(cuts, r.span)
	}

	subject := cleanSubject(cutSpans(s, cuts))
	if utf8.RuneCountInString(subject) < minSubjectRunes {
		label, track := fallbackSubject(original)
		subject = label
		if subgroup == "" {
			subgroup = track
		}
	}

	return []Lesson{{
		Subject:  subject,
		Type:     kind,
		Teacher:  teacher,
		Room:     room,
		Subgroup: subgroup,
	}}
}

// findTeachers locates instructor names, preferring the dotted-initials
// form and falling back to foreign given-name spellings only when no
// initials are present anywhere in the text.
func findTeachers(s string) [][]int {
	if spans := teacherPattern.FindAllStringIndex(s, -1); spans != nil {
		return spans
	}
	return foreignTeacherPattern.FindAllStringIndex(s, -1)
}

func hasSplitTrigger(s string) bool {
	lower := strings.ToLower(s)
	for _, t := range splitTriggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func languageTrack(s string) string {
	lower := strings.ToLower(s)
	for _, t := range languageTracks {
		if strings.Contains(lower, t.hint) {
			return t.label
		}
	}
	return ""
}

// fallbackSubject names a lesson whose remainder is too short to be a
// real subject, using lexical hints from the unsubtracted cell text.
func fallbackSubject(original string) (string, string) {
	if track := languageTrack(original); track != "" {
		return "Иностранный язык", track
	}
	if strings.Contains(strings.ToLower(original), "физ") {
		return "Физкультура", ""
	}
	return "Занятие", ""
}

// parseSubgroups splits a cell of the form "Subject T1 room1 T2 room2"
// into one lesson per teacher. Each subgroup is labeled with the
// language track written after its teacher, or ordinally when the cell
// names no track.
func parseSubgroups(s, kind string, teacherSpans [][]int) []Lesson {
	subject := cleanSubject(s[:teacherSpans[0][0]])
	if utf8.RuneCountInString(subject) < minSubjectRunes {
		subject, _ = fallbackSubject(s)
	}

	rooms := findRooms(s)
	lessons := make([]Lesson, 0, len(teacherSpans))
	for i, m := range teacherSpans {
		segEnd := len(s)
		if i+1 < len(teacherSpans) {
			segEnd = teacherSpans[i+1][0]
		}

		room := ""
		for _, r := range rooms {
			if r.span.start >= m[1] && r.span.start < segEnd {
				room = r.number
				break
			}
		}

		subgroup := languageTrack(s[m[0]:segEnd])
		if subgroup == "" {
			subgroup = "Подгруппа " + strconv.Itoa(i+1)
		}

		lessons = append(lessons, Lesson{
			Subject:  subject,
			Type:     kind,
			Teacher:  strings.TrimSpace(s[m[0]:m[1]]),
			Room:     room,
			Subgroup: subgroup,
		})
	}
	return lessons
}

// extractType recognizes the session type, parenthesized or inline,
// removes its spelling from the text and returns the canonical label.
// Unmarked cells are practicals in this template family.
func extractType(s string) (string, string) {
	for _, m := range parenPattern.FindAllStringSubmatchIndex(s, -1) {
		inner := strings.ToLower(strings.TrimSpace(s[m[2]:m[3]]))
		inner = strings.TrimSuffix(inner, ".")
		for _, t := range typeSpellings {
			if strings.HasPrefix(inner, t.prefix) {
				return t.kind, cutSpans(s, []span{{m[0], m[1]}})
			}
		}
	}

	lower := strings.ToLower(s)
	for _, t := range typeSpellings {
		// inline spellings must stand alone as a word, prefixes alone
		// would eat the start of subject names
		if len([]rune(t.prefix)) < 4 {
			continue
		}
		idx := strings.Index(lower, t.prefix)
		if idx < 0 {
			continue
		}
		end := idx + len(t.prefix)
		if !standaloneWord(lower, idx, end) {
			continue
		}
		return t.kind, cutSpans(s, []span{{idx, end}})
	}

	return TypePractical, s
}

func standaloneWord(s string, start, end int) bool {
	if start > 0 {
		before, _ := lastRune(s[:start])
		if unicode.IsLetter(before) {
			return false
		}
	}
	if end < len(s) {
		after := firstRune(s[end:])
		if unicode.IsLetter(after) {
			return false
		}
	}
	return true
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) (rune, bool) {
	var last rune
	found := false
	for _, r := range s {
		last = r
		found = true
	}
	return last, found
}

type roomMatch struct {
	number string
	span   span
}

// findRooms locates auditorium numbers and facility abbreviations,
// rejecting digit runs glued to more digits on either side (years,
// phone fragments, time ranges) and abbreviations glued to letters.
func findRooms(s string) []roomMatch {
	var rooms []roomMatch
	for _, m := range roomPattern.FindAllStringSubmatchIndex(s, -1) {
		number := s[m[2]:m[3]]
		abbrev := !unicode.IsDigit(firstRune(number))
		if m[0] > 0 {
			before, _ := lastRune(s[:m[0]])
			if unicode.IsDigit(before) || before == ':' {
				continue
			}
			if abbrev && unicode.IsLetter(before) {
				continue
			}
		}
		if m[1] < len(s) {
			after := firstRune(s[m[1]:])
			if unicode.IsDigit(after) || after == ':' {
				continue
			}
			if abbrev && unicode.IsLetter(after) {
				continue
			}
		}
		rooms = append(rooms, roomMatch{
			number: number,
			span:   span{m[0], m[1]},
		})
	}
	return rooms
}

// cutSpans removes the given byte ranges from s.
func cutSpans(s string, cuts []span) string {
	if len(cuts) == 0 {
		return s
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i].start < cuts[j].start })

	var out strings.Builder
	pos := 0
	for _, c := range cuts {
		if c.start > pos {
			out.WriteString(s[pos:c.start])
		}
		if c.end > pos {
			pos = c.end
		}
	}
	if pos < len(s) {
		out.WriteString(s[pos:])
	}
	return out.String()
}

// cleanSubject strips the punctuation debris subtraction leaves behind.
func cleanSubject(s string) string {
	s = textutil.CollapseSpaces(s)
	s = strings.Trim(s, " ,.;:()-/")
	s = textutil.CollapseSpaces(s)
	return capitalizeFirst(s)
}
