package http

import (
	"log/slog"
	"net/http"

	"github.com/yanqian/skymind/internal/domain/assistant"
	"github.com/yanqian/skymind/internal/domain/favorites"
	"github.com/yanqian/skymind/internal/domain/weather"
	apperrors "github.com/yanqian/skymind/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	weatherSvc   weather.Service
	assistantSvc assistant.Service
	favoritesSvc favorites.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(weatherSvc weather.Service, assistantSvc assistant.Service, favoritesSvc favorites.Service, logger *slog.Logger) *Handler {
	return &Handler{
		weatherSvc:   weatherSvc,
		assistantSvc: assistantSvc,
		favoritesSvc: favoritesSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// domainError maps an AppError code to a transport status.
func domainError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
		code = "not_found"
	case apperrors.CodeWeather:
		status = http.StatusBadGateway
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
