package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrBadRequest  = errors.New("bad request")
	ErrInvalidID   = errors.New("invalid id")
	ErrSearch      = errors.New("failed to search games")
	ErrGetGame     = errors.New("failed to get game")
	ErrGetStats    = errors.New("failed to get stats")
	ErrGetAssigned = errors.New("failed to get assignments")
	ErrEncoding    = errors.New("failed to encode")
)

func writeJSON(w http.ResponseWriter, log *slog.Logger, op string, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(ErrEncoding.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}
}
