package services

import (
	"errors"
	"io"
	"log/slog"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownBGGUser  = errors.New("bgg user not found")
	ErrNoProfile       = errors.New("no linked account for this platform")
	ErrNoGamesLeft     = errors.New("no unassigned games left")
	ErrAssignmentRaced = errors.New("could not assign a game, try again")
)

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log
}
