package assets

import (
	"embed"
	"io/fs"
)

// ScheduleFile is the bundled Ekaterinburg metro timetable.
const ScheduleFile = "schedule.csv"

//go:embed *.csv
var DataFS embed.FS

// Schedule opens the bundled timetable for reading.
func Schedule() (fs.File, error) {
	return DataFS.Open(ScheduleFile)
}
