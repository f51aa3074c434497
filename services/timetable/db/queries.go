package db

import (
	"context"
)

const getCachedSchedule = `
SELECT file, course, parser_version, fetched_at, result
FROM schedule_cache
WHERE file = ? AND course = ? AND parser_version = ?
`

type GetCachedScheduleParams struct {
	File          string
	Course        int64
	ParserVersion string
}

func (q *Queries) GetCachedSchedule(ctx context.Context, arg GetCachedScheduleParams) (ScheduleCache, error) {
	row := q.db.QueryRowContext(ctx, getCachedSchedule, arg.File, arg.Course, arg.ParserVersion)
	var i ScheduleCache
	err := row.Scan(&i.File, &i.Course, &i.ParserVersion, &i.FetchedAt, &i.Result)
	return i, err
}

const upsertCachedSchedule = `
INSERT INTO schedule_cache (file, course, parser_version, fetched_at, result)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (file, course, parser_version)
DO UPDATE SET fetched_at = excluded.fetched_at, result = excluded.result
`

type UpsertCachedScheduleParams struct {
	File          string
	Course        int64
	ParserVersion string
	FetchedAt     int64
	Result        string
}

func (q *Queries) UpsertCachedSchedule(ctx context.Context, arg UpsertCachedScheduleParams) error {
	_, err := q.db.ExecContext(
		ctx, upsertCachedSchedule,
		arg.File, arg.Course, arg.ParserVersion, arg.FetchedAt, arg.Result,
	)
	return err
}

const deleteCachedSchedulesBefore = `
DELETE FROM schedule_cache WHERE parser_version != ?
`

// DeleteStaleParserResults evicts results produced by older extraction
// behavior.
func (q *Queries) DeleteStaleParserResults(ctx context.Context, parserVersion string) error {
	_, err := q.db.ExecContext(ctx, deleteCachedSchedulesBefore, parserVersion)
	return err
}

const touchActiveSchedule = `
INSERT INTO active_schedules (file, course, last_requested)
VALUES (?, ?, ?)
ON CONFLICT (file, course)
DO UPDATE SET last_requested = excluded.last_requested
`

type TouchActiveScheduleParams struct {
	File          string
	Course        int64
	LastRequested int64
}

func (q *Queries) TouchActiveSchedule(ctx context.Context, arg TouchActiveScheduleParams) error {
	_, err := q.db.ExecContext(
		ctx, touchActiveSchedule,
		arg.File, arg.Course, arg.LastRequested,
	)
	return err
}

const getActiveSchedules = `
SELECT file, course, last_requested
FROM active_schedules
WHERE last_requested >= ?
ORDER BY file, course
`

func (q *Queries) GetActiveSchedules(ctx context.Context, since int64) ([]ActiveSchedule, error) {
	rows, err := q.db.QueryContext(ctx, getActiveSchedules, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActiveSchedule
	for rows.Next() {
		var i ActiveSchedule
		if err := rows.Scan(&i.File, &i.Course, &i.LastRequested); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteInactiveSchedules = `
DELETE FROM active_schedules WHERE last_requested < ?
`

func (q *Queries) DeleteInactiveSchedules(ctx context.Context, before int64) error {
	_, err := q.db.ExecContext(ctx, deleteInactiveSchedules, before)
	return err
}
