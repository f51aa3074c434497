package cmd

import (
	"log"
	"strings"

	"firportal-backend/lib/scrapers/bsu"
	libtimetable "firportal-backend/lib/timetable"
	"firportal-backend/services/timetable"

	"github.com/spf13/cobra"
)

var fetchCourse int
var fetchJson bool

func init() {
	fetchCmd.Flags().IntVar(&fetchCourse, "course", 1, "academic year to extract")
	fetchCmd.Flags().BoolVar(&fetchJson, "json", false, "print the raw json instead of tables")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <specialty or file name>",
	Short: "Downloads a timetable document from the faculty site and extracts its schedule.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		if !strings.HasSuffix(file, ".pdf") {
			file = bsu.TimetableFile(file)
		}

		fetcher := timetable.NewFacultyFetcher(timetable.FetcherOptions{})
		data, err := fetcher.Fetch(cmd.Context(), file)
		if err != nil {
			log.Fatal(err)
		}

		result, err := libtimetable.Parse(cmd.Context(), data, fetchCourse)
		if err != nil {
			log.Fatal(err)
		}

		renderResult(result, fetchJson)
	},
}
