package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/storage"
)

const (
	hitAttempts  = 3
	activeWindow = 8 * 24 * time.Hour
	recentGames  = 5
)

type AssignmentStore interface {
	GetRandomUnassignedGame() (*models.ItchGame, error)
	AssignGame(gameID int64, userID, username string) error
	UserGames(userID, username string) ([]models.ItchGame, error)
	Stats() (models.GameStats, error)
	GetItchGame(id int64) (*models.ItchGame, error)
	CompleteReview(gameID int64, userID, username, reviewURL string) error
}

type ReviewState string

const (
	StateActive  ReviewState = "active"
	StateWaiting ReviewState = "waiting"
	StateDone    ReviewState = "done"
	StateUnknown ReviewState = "unknown"
)

// Classify places a game in the status list. Done wins over Active, and a
// review date in the future is Unknown.
func Classify(g *models.ItchGame, now time.Time) ReviewState {
	if g.ReviewDate != nil && time.UnixMilli(*g.ReviewDate).Before(now) {
		return StateDone
	}
	if g.AssignDate != nil && now.Sub(time.UnixMilli(*g.AssignDate)) < activeWindow {
		return StateActive
	}
	if g.ReviewDate == nil {
		return StateWaiting
	}
	return StateUnknown
}

type GameStatus struct {
	Game  models.ItchGame
	State ReviewState
}

type UserStats struct {
	Total          int
	Completed      int
	Pending        int
	Windows        int
	Mac            int
	Linux          int
	CompletionRate float64
	Recent         []models.ItchGame
}

type AssignmentService struct {
	store AssignmentStore
	log   *slog.Logger
	now   func() time.Time
}

func NewAssignmentService(store AssignmentStore, log *slog.Logger) *AssignmentService {
	return &AssignmentService{
		store: store,
		log:   orDiscard(log),
		now:   time.Now,
	}
}

// Hit assigns a random unassigned game to the user. Losing the race for a
// game to another user picks a fresh one, a few times at most.
func (s *AssignmentService) Hit(userID, username string) (*models.ItchGame, error) {
	const op = "services.assignments.Hit"

	for attempt := 1; attempt <= hitAttempts; attempt++ {
		g, err := s.store.GetRandomUnassignedGame()
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoGamesLeft)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		err = s.store.AssignGame(g.ID, userID, username)
		if errors.Is(err, storage.ErrAlreadyAssigned) {
			s.log.Debug("lost assignment race",
				slog.String("operation", op),
				slog.Int64("game_id", g.ID),
				slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		ms := s.now().UnixMilli()
		g.Reviewer = &userID
		g.AssignDate = &ms

		s.log.Info("game assigned",
			slog.String("operation", op),
			slog.Int64("game_id", g.ID),
			slog.String("game", g.GameName),
			slog.String("user_id", userID))

		return g, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrAssignmentRaced)
}

func (s *AssignmentService) Status(userID, username string) ([]GameStatus, error) {
	const op = "services.assignments.Status"

	games, err := s.store.UserGames(userID, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	out := make([]GameStatus, 0, len(games))
	for i := range games {
		out = append(out, GameStatus{Game: games[i], State: Classify(&games[i], now)})
	}

	return out, nil
}

func (s *AssignmentService) MyStats(userID, username string) (UserStats, error) {
	const op = "services.assignments.MyStats"

	games, err := s.store.UserGames(userID, username)
	if err != nil {
		return UserStats{}, fmt.Errorf("%s: %w", op, err)
	}

	st := UserStats{Total: len(games)}
	for i := range games {
		g := &games[i]
		if g.Reviewed() {
			st.Completed++
		}
		if g.Windows {
			st.Windows++
		}
		if g.Mac {
			st.Mac++
		}
		if g.Linux {
			st.Linux++
		}
	}
	st.Pending = st.Total - st.Completed
	if st.Total > 0 {
		st.CompletionRate = float64(st.Completed) / float64(st.Total) * 100
	}
	st.Recent = games[:min(len(games), recentGames)]

	return st, nil
}

func (s *AssignmentService) GameInfo() (models.GameStats, error) {
	const op = "services.assignments.GameInfo"

	stats, err := s.store.Stats()
	if err != nil {
		return models.GameStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}

// CompleteReview records a review link. Only the game's reviewer may do so.
func (s *AssignmentService) CompleteReview(gameID int64, userID, username, reviewURL string) (*models.ItchGame, error) {
	const op = "services.assignments.CompleteReview"

	u, err := url.ParseRequestURI(reviewURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%s: %w: review url must be an http(s) link", op, ErrInvalidInput)
	}

	if err := s.store.CompleteReview(gameID, userID, username, reviewURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	g, err := s.store.GetItchGame(gameID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("review completed",
		slog.String("operation", op),
		slog.Int64("game_id", gameID),
		slog.String("user_id", userID))

	return g, nil
}
