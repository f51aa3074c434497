package bsu

import (
	"firportal-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("firportal.lib.scrapers.bsu")
