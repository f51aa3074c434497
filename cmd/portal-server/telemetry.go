package main

import (
	"context"
	"log/slog"

	"firportal-backend/lib/restyutil"
	"firportal-backend/lib/serviceutil"
	"firportal-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) restyutil.InstrumentOutput {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	err := telemetry.SetupFromEnv(ctx, "portal-server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		telemetry.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx)

	if !verbose {
		return nil
	}

	return restyutil.NewFilesystemOutput(".dev/resty/portal")
}
