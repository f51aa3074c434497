package main

import (
	"flag"
	"net/http"

	"firportal-backend/lib/configutil"
	"firportal-backend/lib/ocr"
	"firportal-backend/lib/serviceutil"
)

type OcrConfig struct {
	// base url of the recognition sidecar, e.g. "http://localhost:8100"
	BaseUrl string `json:"base_url"`
}

type Config struct {
	Ocr       OcrConfig       `json:"ocr"`
	Timetable TimetableConfig `json:"timetable"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	instrument := InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	var ocrClient *ocr.Client
	if cfg.Ocr.BaseUrl != "" {
		client := ocr.NewClient(ocr.ClientOptions{
			BaseUrl:          cfg.Ocr.BaseUrl,
			InstrumentOutput: instrument,
		})
		ocrClient = &client
	}

	mux := http.NewServeMux()

	timetableService, err := InitTimetable(ctx, mux, cfg.Timetable, ocrClient, instrument)
	if err != nil {
		serviceutil.Fatal("init timetable", err)
	}
	InitCabinet(mux, ocrClient, timetableService, instrument)

	go serviceutil.StartHttpServer(8000, mux)
	<-ctx.Done()
}
