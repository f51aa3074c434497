package db

type ScheduleCache struct {
	File          string
	Course        int64
	ParserVersion string
	FetchedAt     int64
	Result        string
}

type ActiveSchedule struct {
	File          string
	Course        int64
	LastRequested int64
}
