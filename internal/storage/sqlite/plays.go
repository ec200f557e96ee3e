package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/storage"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

const defaultPlaysLimit = 10

// playRow is a play cached for one profile owner.
type playRow struct {
	DiscordID       string `gorm:"primaryKey;type:varchar(32)"`
	PlayID          int64  `gorm:"primaryKey;autoIncrement:false"`
	Date            string `gorm:"index"`
	DurationMinutes int
	Quantity        int
	Incomplete      bool
	Location        *string
	GameID          int64 `gorm:"index"`
	GameName        string
	Players         datatypes.JSON
	Comments        *string
	UpdatedAt       time.Time
}

func (playRow) TableName() string {
	return "play_cache"
}

func newPlayRow(discordID string, p *models.PlayRecord) (playRow, error) {
	players, err := json.Marshal(p.Players)
	if err != nil {
		return playRow{}, err
	}

	return playRow{
		DiscordID:       discordID,
		PlayID:          p.PlayID,
		Date:            p.Date,
		DurationMinutes: p.DurationMinutes,
		Quantity:        p.Quantity,
		Incomplete:      p.Incomplete,
		Location:        p.Location,
		GameID:          p.GameID,
		GameName:        p.GameName,
		Players:         datatypes.JSON(players),
		Comments:        p.Comments,
	}, nil
}

func (r *playRow) record() (models.PlayRecord, error) {
	p := models.PlayRecord{
		PlayID:          r.PlayID,
		Date:            r.Date,
		DurationMinutes: r.DurationMinutes,
		Quantity:        r.Quantity,
		Incomplete:      r.Incomplete,
		Location:        r.Location,
		GameID:          r.GameID,
		GameName:        r.GameName,
		Comments:        r.Comments,
		Players:         []models.Player{},
	}

	if len(r.Players) > 0 {
		if err := json.Unmarshal(r.Players, &p.Players); err != nil {
			return models.PlayRecord{}, err
		}
	}

	return p, nil
}

func (s *Storage) RecordPlay(discordID string, p *models.PlayRecord) error {
	return s.RecordPlays(discordID, []models.PlayRecord{*p})
}

// RecordPlays replaces every given play by play id in one statement.
func (s *Storage) RecordPlays(discordID string, plays []models.PlayRecord) error {
	const op = "storage.sqlite.RecordPlays"

	if len(plays) == 0 {
		return nil
	}

	rows := make([]playRow, 0, len(plays))
	for i := range plays {
		row, err := newPlayRow(discordID, &plays[i])
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		rows = append(rows, row)
	}

	if err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrCreateFailed, err)
	}

	return nil
}

// ListPlays returns the owner's cached plays, most recent first.
func (s *Storage) ListPlays(discordID string, limit int) ([]models.PlayRecord, error) {
	const op = "storage.sqlite.ListPlays"

	if limit <= 0 {
		limit = defaultPlaysLimit
	}

	var rows []playRow
	if err := s.DB.
		Where("discord_id = ?", discordID).
		Order("date DESC").
		Order("play_id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.PlayRecord, 0, len(rows))
	for i := range rows {
		p, err := rows[i].record()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, p)
	}

	return out, nil
}
