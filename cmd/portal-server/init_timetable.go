package main

import (
	"context"
	"net/http"

	configsqlite "firportal-backend/lib/configutil/sqlite"
	"firportal-backend/lib/ocr"
	"firportal-backend/lib/restyutil"
	libtimetable "firportal-backend/lib/timetable"
	"firportal-backend/services/timetable"
	"firportal-backend/services/timetable/db"
)

type TimetableConfig struct {
	Database configsqlite.Struct `json:"database"`
}

func InitTimetable(
	ctx context.Context,
	mux *http.ServeMux,
	cfg TimetableConfig,
	ocrClient *ocr.Client,
	instrument restyutil.InstrumentOutput,
) (timetable.Service, error) {
	database, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		return timetable.Service{}, err
	}

	// results from older extraction behavior are useless, drop them
	// up front instead of letting them linger
	err = db.New(database).DeleteStaleParserResults(ctx, libtimetable.ParserVersion)
	if err != nil {
		return timetable.Service{}, err
	}

	service := timetable.NewService(database, timetable.Options{
		Fetcher: timetable.NewFacultyFetcher(timetable.FetcherOptions{
			InstrumentOutput: instrument,
		}),
		Engine: libtimetable.NewEngine(libtimetable.Options{
			Ocr: ocrClient,
		}),
	})
	timetable.RegisterHandlers(mux, service)
	timetable.NewRefreshDaemon(service).Start(ctx)

	return service, nil
}
