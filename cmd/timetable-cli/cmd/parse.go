package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"

	"firportal-backend/lib/timetable"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var parseCourse int
var parseJson bool

func init() {
	parseCmd.Flags().IntVar(&parseCourse, "course", 1, "academic year to extract")
	parseCmd.Flags().BoolVar(&parseJson, "json", false, "print the raw json instead of tables")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <document.pdf>",
	Short: "Extracts the schedule from a timetable document on disk.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatal(err)
		}

		result, err := timetable.Parse(cmd.Context(), data, parseCourse)
		if err != nil {
			log.Fatal(err)
		}

		renderResult(result, parseJson)
	},
}

func renderResult(result timetable.ScheduleResult, asJson bool) {
	if asJson {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(encoded))
		return
	}

	groups := make([]string, 0, len(result.Groups))
	for group := range result.Groups {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	for _, group := range groups {
		fmt.Println(group)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"День", "Время", "Предмет", "Тип", "Преподаватель", "Ауд.", "П/г"})

		for _, day := range result.Groups[group] {
			for _, lesson := range day.Lessons {
				t.AppendRow(table.Row{
					day.DayName,
					fmt.Sprintf("%s-%s", lesson.TimeStart, lesson.TimeEnd),
					lesson.Subject,
					lesson.Type,
					lesson.Teacher,
					lesson.Room,
					lesson.Subgroup,
				})
			}
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	}
}
