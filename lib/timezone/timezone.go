package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Minsk")
	if err != nil {
		panic(err)
	}
}

// force timezone to be in Minsk because the portal and the published
// timetables live there, while our servers may not, which causes
// disturbances when manipulating dates based on
// <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Location)
}

// GetCurrentWeek returns the Monday and Saturday bounding the academic
// week that contains `now`.
func GetCurrentWeek(now time.Time) (time.Time, time.Time) {
	// time.Weekday starts on Sunday, the timetable week starts on Monday
	offset := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
	stop := start.AddDate(0, 0, 5)
	return start, stop
}
