package timetable

import (
	"context"
	"time"

	"firportal-backend/lib/scrapers/bsu"
	"firportal-backend/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// refreshInterval is how often the daemon sweeps the active set.
const refreshInterval = time.Hour

// RefreshDaemon keeps the schedules students actually look at warm so
// request latency stays flat even when the faculty site is slow.
type RefreshDaemon struct {
	service Service
}

func NewRefreshDaemon(service Service) *RefreshDaemon {
	return &RefreshDaemon{service: service}
}

func (d *RefreshDaemon) refreshActive(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "daemon:refreshActive")
	defer span.End()

	now := timezone.Now()
	since := now.Add(-activeWindow).Unix()

	err := d.service.qry.DeleteInactiveSchedules(ctx, since)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to prune inactive schedules")
		return
	}

	active, err := d.service.qry.GetActiveSchedules(ctx, since)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list active schedules")
		return
	}
	span.SetAttributes(attribute.Int("active_count", len(active)))

	for _, entry := range active {
		_, err := d.service.refreshSchedule(ctx, entry.File, int(entry.Course))
		if err != nil {
			// already recorded on the child span, move on to the rest
			continue
		}
	}
}

// warmKnown primes the cache for every document the faculty is known
// to publish, so the first student asking about a specialty does not
// wait on a fetch and parse. Only the first-year range is warmed, the
// hourly sweep covers whatever students actually request.
func (d *RefreshDaemon) warmKnown(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "daemon:warmKnown")
	defer span.End()

	for _, file := range bsu.SpecialtyFiles() {
		if _, err := d.service.cachedSchedule(ctx, file, 1); err == nil {
			continue
		}
		// failures are recorded on the child span, nothing to do here
		d.service.refreshSchedule(ctx, file, 1)
	}
}

func (d *RefreshDaemon) run(ctx context.Context) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	d.warmKnown(ctx)
	d.refreshActive(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.refreshActive(ctx)
		}
	}
}

func (d *RefreshDaemon) Start(ctx context.Context) {
	go d.run(ctx)
}
