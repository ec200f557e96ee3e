package sqlite

import (
	"errors"
	"fmt"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertUserProfile merges the patch into the stored profile, creating it
// on first use, and returns the result.
func (s *Storage) UpsertUserProfile(discordID string, patch models.ProfilePatch) (*models.UserProfile, error) {
	const op = "storage.sqlite.UpsertUserProfile"

	if discordID == "" {
		return nil, fmt.Errorf("%s: empty discord id", op)
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	existing := models.UserProfile{DiscordID: discordID}
	err := tx.Where("discord_id = ?", discordID).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile := models.ApplyPatch(existing, patch)

	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&profile).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &profile, nil
}

func (s *Storage) GetUserProfile(discordID string) (*models.UserProfile, error) {
	const op = "storage.sqlite.GetUserProfile"

	var p models.UserProfile
	err := s.DB.Where("discord_id = ?", discordID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

// ListWeeklyProfiles returns the profiles that opted into the weekly digest
// and can be served by it.
func (s *Storage) ListWeeklyProfiles() ([]models.UserProfile, error) {
	const op = "storage.sqlite.ListWeeklyProfiles"

	var out []models.UserProfile
	if err := s.DB.
		Where("weekly_stats_enabled = ?", true).
		Where("weekly_stats_channel_id IS NOT NULL AND weekly_stats_channel_id != ''").
		Where("bgg_username IS NOT NULL AND bgg_username != ''").
		Order("discord_id").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) GetServerSettings(guildID string) (*models.ServerSettings, error) {
	const op = "storage.sqlite.GetServerSettings"

	var ss models.ServerSettings
	err := s.DB.Where("guild_id = ?", guildID).First(&ss).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &ss, nil
}

func (s *Storage) UpsertServerSettings(ss *models.ServerSettings) error {
	const op = "storage.sqlite.UpsertServerSettings"

	if ss.CommandPrefix == "" {
		ss.CommandPrefix = "!"
	}

	if err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(ss).Error; err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, err)
	}

	return nil
}
