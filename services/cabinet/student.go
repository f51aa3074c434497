package cabinet

import (
	"context"
	"encoding/base64"
	"log/slog"

	"firportal-backend/lib/scrapers/bsu"
	libtimetable "firportal-backend/lib/timetable"

	"go.opentelemetry.io/otel/codes"
)

// StudentData is the aggregated cabinet payload, shaped the way the
// mobile client consumes it.
type StudentData struct {
	FullName      string                      `json:"fio"`
	PhotoB64      string                      `json:"photo_base64,omitempty"`
	GradeValue    float64                     `json:"grade_val"`
	GradeText     string                      `json:"grade_text"`
	News          []bsu.NewsItem              `json:"news"`
	Course        int                         `json:"course"`
	Specialty     string                      `json:"specialty"`
	TimetableFile string                      `json:"timetable_file"`
	Schedule      *libtimetable.ScheduleResult `json:"schedule,omitempty"`
}

// GetStudentData pulls the cabinet pages through the student's portal
// session and resolves their timetable. The photo and the schedule are
// best effort, the rest of the cabinet is mandatory.
func (s Service) GetStudentData(ctx context.Context, token string) (StudentData, error) {
	ctx, span := tracer.Start(ctx, "GetStudentData")
	defer span.End()

	client, err := s.session(token)
	if err != nil {
		return StudentData{}, err
	}

	news, err := client.FetchNews(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch news")
		return StudentData{}, err
	}

	progress, err := client.FetchProgress(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch progress")
		return StudentData{}, err
	}

	data := StudentData{
		FullName:      news.FullName,
		GradeValue:    progress.GradeValue,
		GradeText:     progress.GradeText,
		News:          news.Items,
		Course:        progress.Course,
		Specialty:     progress.Specialty,
		TimetableFile: bsu.TimetableFile(progress.Specialty),
	}
	if data.FullName == "" {
		data.FullName = "Студент БГУ"
	}
	if data.GradeText == "" {
		data.GradeText = "Нет данных"
	}
	if data.News == nil {
		data.News = []bsu.NewsItem{}
	}

	photo, err := client.FetchPhoto(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch student photo", "err", err)
	} else {
		data.PhotoB64 = base64.StdEncoding.EncodeToString(photo)
	}

	schedule, err := s.timetable.GetSchedule(ctx, data.TimetableFile, data.Course)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve schedule", "file", data.TimetableFile, "err", err)
	} else if len(schedule.Groups) > 0 {
		data.Schedule = &schedule
	}

	return data, nil
}
