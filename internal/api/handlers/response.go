package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	KindInvalidRequest = "invalid_request"
	KindNotFound       = "not_found"
	KindInternal       = "internal"
)

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

type TasksResponse struct {
	Tasks []entity.Task `json:"tasks"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode JSON response", slog.Any("error", err))
	}
}

// respondError переводит ошибку в статус и тело ответа, внутренние детали клиенту не уходят
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *entity.ValidationError

	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, r, http.StatusBadRequest, ErrorResponse{Kind: KindInvalidRequest, Detail: validationErr.Reason})
	case errors.Is(err, entity.ErrInvalidRequest):
		respondJSON(w, r, http.StatusBadRequest, ErrorResponse{Kind: KindInvalidRequest, Detail: "invalid request"})
	case errors.Is(err, entity.ErrTaskNotFound):
		respondJSON(w, r, http.StatusNotFound, ErrorResponse{Kind: KindNotFound, Detail: "task not found"})
	default:
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		respondJSON(w, r, http.StatusInternalServerError, ErrorResponse{Kind: KindInternal, Detail: "internal server error"})
	}
}
