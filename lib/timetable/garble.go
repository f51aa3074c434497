package timetable

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

// weekday names in canonical order, Monday first
var weekdays = []string{
	"понедельник",
	"вторник",
	"среда",
	"четверг",
	"пятница",
	"суббота",
	"воскресенье",
}

// closed vocabulary of terms expected in the grid, used to confirm
// that a reversed string is actually mirrored text and not an odd but
// legitimate token
var repairVocabulary = []string{
	"понедельник",
	"вторник",
	"среда",
	"четверг",
	"пятница",
	"суббота",
	"воскресенье",
	"время",
	"часы",
	"дни",
	"лекция",
	"группа",
	"курс",
	"английский",
	"немецкий",
	"французский",
	"испанский",
	"китайский",
}

// jaroWinklerWeekdayThreshold tolerates the character damage OCR
// inflicts on weekday labels.
const jaroWinklerWeekdayThreshold = 0.88

// repairText undoes the renderer's mirrored-text defect: certain short
// strings come out character-reversed. The tell is the casing, a
// string that ends with an uppercase letter and starts with a
// lowercase one is a reversed capitalized word. When the reversal
// produces a known vocabulary term we accept it confidently, otherwise
// we still reverse on the casing evidence alone, accepting the rare
// mis-repair of a legitimately odd token.
//
// The function is idempotent: repaired (or already correct) text never
// matches the casing pattern again.
func repairText(s string) string {
	trimmed := strings.TrimSpace(s)
	runes := []rune(trimmed)
	if len(runes) < 2 {
		return s
	}

	first := runes[0]
	last := runes[len(runes)-1]
	if !unicode.IsLower(first) || !unicode.IsUpper(last) {
		return s
	}

	reversed := make([]rune, len(runes))
	for i, r := range runes {
		reversed[len(runes)-1-i] = r
	}
	rev := string(reversed)
	revLower := strings.ToLower(rev)

	for _, term := range repairVocabulary {
		if !strings.Contains(revLower, term) {
			continue
		}
		if _, isDay := canonicalWeekday(revLower); isDay {
			return capitalizeFirst(revLower)
		}
		return rev
	}

	// casing evidence only, reverse speculatively
	return rev
}

func capitalizeFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// canonicalWeekday reports whether the text names a weekday and
// returns its canonical capitalized form. Containment handles clean
// text, the Jaro-Winkler pass handles OCR damage.
func canonicalWeekday(s string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return "", false
	}
	for _, day := range weekdays {
		if strings.Contains(normalized, day) {
			return capitalizeFirst(day), true
		}
	}
	if len([]rune(normalized)) >= 5 {
		for _, day := range weekdays {
			if matchr.JaroWinkler(normalized, day, false) >= jaroWinklerWeekdayThreshold {
				return capitalizeFirst(day), true
			}
		}
	}
	return "", false
}
