package sqlite

import (
	"errors"
	"fmt"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/storage"

	"gorm.io/gorm"
)

const unassigned = "(reviewer IS NULL OR reviewer = '')"

// AssignGame gives an unassigned game to the user. The reviewer column
// flips exactly once: a game that already has a reviewer is left as is and
// storage.ErrAlreadyAssigned is returned.
func (s *Storage) AssignGame(gameID int64, userID, username string) error {
	const op = "storage.sqlite.AssignGame"

	now := time.Now()

	tx := s.DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	res := tx.Model(&models.ItchGame{}).
		Where("id = ? AND "+unassigned, gameID).
		Updates(map[string]any{
			"reviewer":    userID,
			"assign_date": now.UnixMilli(),
		})
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.ItchGame{}).Where("id = ?", gameID).Count(&count).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("%s: %w", op, err)
		}
		tx.Rollback()
		if count == 0 {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyAssigned)
	}

	a := models.Assignment{
		UserID:     userID,
		Username:   username,
		GameID:     gameID,
		AssignedAt: now,
		Status:     models.StatusAssigned,
	}
	if err := tx.Create(&a).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w: %w", op, storage.ErrCreateFailed, err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetRandomUnassignedGame returns storage.ErrNotFound once every game has a
// reviewer.
func (s *Storage) GetRandomUnassignedGame() (*models.ItchGame, error) {
	const op = "storage.sqlite.GetRandomUnassignedGame"

	var games []models.ItchGame
	if err := s.DB.
		Where(unassigned).
		Order("RANDOM()").
		Limit(1).
		Find(&games).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(games) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return &games[0], nil
}

func (s *Storage) Stats() (models.GameStats, error) {
	const op = "storage.sqlite.Stats"

	var stats models.GameStats

	if err := s.DB.Model(&models.ItchGame{}).Count(&stats.Total).Error; err != nil {
		return models.GameStats{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.DB.Model(&models.ItchGame{}).
		Where("reviewer IS NOT NULL AND reviewer != ''").
		Count(&stats.Assigned).Error; err != nil {
		return models.GameStats{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.DB.Model(&models.ItchGame{}).
		Where("review_date IS NOT NULL").
		Count(&stats.Completed).Error; err != nil {
		return models.GameStats{}, fmt.Errorf("%s: %w", op, err)
	}

	stats.Unassigned = stats.Total - stats.Assigned

	return stats, nil
}

// CompleteReview records the review link for a game held by the user.
// Legacy rows name the reviewer by username, so either identity matches.
func (s *Storage) CompleteReview(gameID int64, userID, username, reviewURL string) error {
	const op = "storage.sqlite.CompleteReview"

	now := time.Now()

	tx := s.DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var g models.ItchGame
	if err := tx.First(&g, gameID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if !g.Assigned() || (*g.Reviewer != userID && (username == "" || *g.Reviewer != username)) {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, storage.ErrNotReviewer)
	}

	if err := tx.Model(&models.ItchGame{}).
		Where("id = ?", gameID).
		Updates(map[string]any{
			"review_url":  reviewURL,
			"review_date": now.UnixMilli(),
		}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, err)
	}

	if err := tx.Model(&models.Assignment{}).
		Where("game_id = ?", gameID).
		Updates(map[string]any{
			"completed_at": now,
			"review_url":   reviewURL,
			"status":       models.StatusCompleted,
		}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UserGames lists the games whose reviewer is the user id or, for rows
// imported from the legacy file, the username. Newest assignment first.
func (s *Storage) UserGames(userID, username string) ([]models.ItchGame, error) {
	const op = "storage.sqlite.UserGames"

	if userID == "" && username == "" {
		return []models.ItchGame{}, nil
	}

	db := s.DB.Model(&models.ItchGame{})
	switch {
	case userID != "" && username != "":
		db = db.Where("reviewer = ? OR reviewer = ?", userID, username)
	case userID != "":
		db = db.Where("reviewer = ?", userID)
	default:
		db = db.Where("reviewer = ?", username)
	}

	var out []models.ItchGame
	if err := db.Order("assign_date DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// UserAssignments returns the assignment history recorded by this bot.
func (s *Storage) UserAssignments(userID string) ([]models.Assignment, error) {
	const op = "storage.sqlite.UserAssignments"

	var out []models.Assignment
	if err := s.DB.
		Where("user_id = ?", userID).
		Order("assigned_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) GetItchGame(id int64) (*models.ItchGame, error) {
	const op = "storage.sqlite.GetItchGame"

	var g models.ItchGame
	err := s.DB.First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &g, nil
}

func (s *Storage) HasGames() (bool, error) {
	const op = "storage.sqlite.HasGames"

	var count int64
	if err := s.DB.Model(&models.ItchGame{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return count > 0, nil
}
