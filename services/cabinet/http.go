package cabinet

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

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

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// RegisterHandlers mounts the service's endpoints on the mux.
func RegisterHandlers(mux *http.ServeMux, service Service) {
	mux.HandleFunc("POST /v1/login", func(w http.ResponseWriter, r *http.Request) {
		handleLogin(w, r, service)
	})
	mux.HandleFunc("GET /v1/student", func(w http.ResponseWriter, r *http.Request) {
		handleGetStudent(w, r, service)
	})
}

func handleLogin(w http.ResponseWriter, r *http.Request, service Service) {
	ctx := r.Context()

	var req loginRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Username == "" || req.Password == "" {
		writeJson(w, http.StatusBadRequest, errorResponse{Error: "username and password are required"})
		return
	}

	token, err := service.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, bsu.ErrLoginFailed) {
			writeJson(w, http.StatusUnauthorized, errorResponse{Error: "wrong username, password or captcha"})
			return
		}
		slog.ErrorContext(ctx, "login failed", "err", err)
		writeJson(w, http.StatusBadGateway, errorResponse{Error: "the portal is unreachable"})
		return
	}

	writeJson(w, http.StatusOK, loginResponse{Token: token})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("authorization")
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return ""
}

func handleGetStudent(w http.ResponseWriter, r *http.Request, service Service) {
	ctx := r.Context()

	token := bearerToken(r)
	if token == "" {
		writeJson(w, http.StatusUnauthorized, errorResponse{Error: "missing session token"})
		return
	}

	data, err := service.GetStudentData(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			writeJson(w, http.StatusUnauthorized, errorResponse{Error: "session expired, login again"})
			return
		}
		slog.ErrorContext(ctx, "failed to aggregate student data", "err", err)
		writeJson(w, http.StatusBadGateway, errorResponse{Error: "the portal did not respond"})
		return
	}

	writeJson(w, http.StatusOK, data)
}
