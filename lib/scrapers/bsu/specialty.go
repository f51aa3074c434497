package bsu

import "strings"

// specialtyFiles maps the cabinet's specialty names to the timetable
// documents the faculty publishes for them.
var specialtyFiles = map[string]string{
	"международные отношения":     "IR_timetable.pdf",
	"мировая экономика":           "WE_timetable.pdf",
	"международное право":         "IL_timetable.pdf",
	"таможенное дело":             "CA_timetable.pdf",
	"востоковедение":              "V_timetable.pdf",
	"международная конфликтология": "IC_timetable.pdf",
	"международная логистика":     "ILOG_timetable.pdf",
	"африканистика":               "AF_timetable.pdf",
}

// DefaultTimetableFile is used when the cabinet's specialty line is
// missing or unrecognized.
const DefaultTimetableFile = "CA_timetable.pdf"

const timetableBaseUrl = "https://fir.bsu.by/images/timetable/"

// TimetableFile resolves a specialty name to its timetable document.
func TimetableFile(specialty string) string {
	normalized := strings.ToLower(strings.TrimSpace(specialty))
	if file, ok := specialtyFiles[normalized]; ok {
		return file
	}
	return DefaultTimetableFile
}

// TimetableUrl is the public download location of a timetable document.
func TimetableUrl(file string) string {
	return timetableBaseUrl + file
}

// SpecialtyFiles lists every known timetable document, used to warm
// caches ahead of demand.
func SpecialtyFiles() []string {
	seen := map[string]bool{}
	var files []string
	for _, file := range specialtyFiles {
		if !seen[file] {
			seen[file] = true
			files = append(files, file)
		}
	}
	return files
}
