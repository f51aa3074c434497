package main

import (
	"net/http"

	"firportal-backend/lib/ocr"
	"firportal-backend/lib/restyutil"
	"firportal-backend/services/cabinet"
	"firportal-backend/services/timetable"
)

func InitCabinet(
	mux *http.ServeMux,
	ocrClient *ocr.Client,
	timetableService timetable.Service,
	instrument restyutil.InstrumentOutput,
) {
	service := cabinet.NewService(cabinet.Options{
		Factory: cabinet.NewPortalFactory(cabinet.PortalFactoryOptions{
			Ocr:              ocrClient,
			InstrumentOutput: instrument,
		}),
		Timetable: timetableService,
	})
	cabinet.RegisterHandlers(mux, service)
}
