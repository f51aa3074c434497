// Package timetable serves parsed weekly schedules. Results are cached
// in sqlite keyed by (document, course, parser version) so the faculty
// site is only hit when a schedule is missing or due for a refresh,
// and a background daemon keeps recently requested schedules warm.
package timetable

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"firportal-backend/lib/telemetry"
	"firportal-backend/lib/timetable"
	"firportal-backend/lib/timezone"
	"firportal-backend/services/timetable/db"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("firportal.services.timetable")

// ErrScheduleUnavailable means the document could not be fetched or
// read and no cached result exists to fall back on.
var ErrScheduleUnavailable = errors.New("schedule unavailable")

// cacheFreshFor is how long a cached result is served without
// attempting a refetch.
const cacheFreshFor = 6 * time.Hour

// activeWindow bounds how long a schedule stays in the background
// refresh set after its last request.
const activeWindow = 7 * 24 * time.Hour

type Service struct {
	db     *sql.DB
	qry    *db.Queries
	engine timetable.Engine
	fetch  DocumentFetcher
}

type Options struct {
	Fetcher DocumentFetcher
	Engine  timetable.Engine
}

func NewService(database *sql.DB, options Options) Service {
	return Service{
		db:     database,
		qry:    db.New(database),
		engine: options.Engine,
		fetch:  options.Fetcher,
	}
}

// GetSchedule returns the parsed schedule for one document and course.
// Cached results are served while fresh; once stale they are refetched,
// and if the refetch fails the stale result is still better than
// nothing.
func (s Service) GetSchedule(ctx context.Context, file string, course int) (timetable.ScheduleResult, error) {
	ctx, span := tracer.Start(ctx, "GetSchedule")
	defer span.End()
	span.SetAttributes(
		attribute.String("file", file),
		attribute.Int("course", course),
	)

	now := timezone.Now()
	err := s.qry.TouchActiveSchedule(ctx, db.TouchActiveScheduleParams{
		File:          file,
		Course:        int64(course),
		LastRequested: now.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to record schedule activity")
		return timetable.ScheduleResult{}, err
	}

	cached, cacheErr := s.cachedSchedule(ctx, file, course)
	if cacheErr == nil && now.Unix()-cached.fetchedAt < int64(cacheFreshFor.Seconds()) {
		return cached.result, nil
	}
	if cacheErr != nil && !errors.Is(cacheErr, sql.ErrNoRows) {
		span.RecordError(cacheErr)
		span.SetStatus(codes.Error, "failed to read schedule cache")
		return timetable.ScheduleResult{}, cacheErr
	}

	result, err := s.refreshSchedule(ctx, file, course)
	if err != nil {
		if cacheErr == nil {
			span.RecordError(err)
			span.AddEvent("serving stale cache after failed refresh")
			return cached.result, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return timetable.ScheduleResult{}, fmt.Errorf("%w: %s", ErrScheduleUnavailable, err.Error())
	}
	return result, nil
}

type cachedSchedule struct {
	result    timetable.ScheduleResult
	fetchedAt int64
}

func (s Service) cachedSchedule(ctx context.Context, file string, course int) (cachedSchedule, error) {
	row, err := s.qry.GetCachedSchedule(ctx, db.GetCachedScheduleParams{
		File:          file,
		Course:        int64(course),
		ParserVersion: timetable.ParserVersion,
	})
	if err != nil {
		return cachedSchedule{}, err
	}

	var result timetable.ScheduleResult
	err = json.Unmarshal([]byte(row.Result), &result)
	if err != nil {
		return cachedSchedule{}, err
	}
	if result.Groups == nil {
		result.Groups = map[string][]timetable.DaySchedule{}
	}
	return cachedSchedule{result: result, fetchedAt: row.FetchedAt}, nil
}

func (s Service) storeSchedule(ctx context.Context, file string, course int, result timetable.ScheduleResult) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.qry.UpsertCachedSchedule(ctx, db.UpsertCachedScheduleParams{
		File:          file,
		Course:        int64(course),
		ParserVersion: timetable.ParserVersion,
		FetchedAt:     timezone.Now().Unix(),
		Result:        string(encoded),
	})
}

// refreshSchedule fetches, parses and caches one schedule.
func (s Service) refreshSchedule(ctx context.Context, file string, course int) (timetable.ScheduleResult, error) {
	ctx, span := tracer.Start(ctx, "refreshSchedule")
	defer span.End()

	data, err := s.fetch.Fetch(ctx, file)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch document")
		return timetable.ScheduleResult{}, err
	}

	result, err := s.engine.Parse(ctx, data, course)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse document")
		return timetable.ScheduleResult{}, err
	}

	err = s.storeSchedule(ctx, file, course, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to cache schedule")
		return timetable.ScheduleResult{}, err
	}
	return result, nil
}
