package timetable

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"firportal-backend/lib/scrapers/bsu"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("failed to write response body", "err", err)
	}
}

// RegisterHandlers mounts the service's endpoints on the mux.
func RegisterHandlers(mux *http.ServeMux, service Service) {
	mux.HandleFunc("GET /v1/schedule", func(w http.ResponseWriter, r *http.Request) {
		handleGetSchedule(w, r, service)
	})
}

// handleGetSchedule serves the parsed schedule for one specialty and
// course. The specialty can be given by name or directly as the
// published document's file name.
func handleGetSchedule(w http.ResponseWriter, r *http.Request, service Service) {
	ctx := r.Context()

	file := r.URL.Query().Get("file")
	if file == "" {
		file = bsu.TimetableFile(r.URL.Query().Get("specialty"))
	}

	course := 1
	if rawCourse := r.URL.Query().Get("course"); rawCourse != "" {
		parsed, err := strconv.Atoi(rawCourse)
		if err != nil {
			writeJson(w, http.StatusBadRequest, errorResponse{Error: "course must be an integer"})
			return
		}
		course = parsed
	}

	result, err := service.GetSchedule(ctx, file, course)
	if err != nil {
		if errors.Is(err, ErrScheduleUnavailable) {
			writeJson(w, http.StatusBadGateway, errorResponse{Error: "the faculty site did not yield a readable timetable"})
			return
		}
		slog.ErrorContext(ctx, "failed to get schedule", "file", file, "course", course, "err", err)
		writeJson(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	if len(result.Groups) == 0 {
		writeJson(w, http.StatusNotFound, result)
		return
	}
	writeJson(w, http.StatusOK, result)
}
