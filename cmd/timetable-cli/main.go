package main

import (
	"firportal-backend/cmd/timetable-cli/cmd"
)

func main() {
	cmd.Execute()
}
