package sqlite

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/storage"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gameRow is the cached form of a GameRecord, keyed by platform and id.
type gameRow struct {
	Platform         models.Platform `gorm:"primaryKey;type:varchar(16)"`
	ID               int64           `gorm:"primaryKey;autoIncrement:false"`
	Name             string          `gorm:"not null"`
	YearPublished    *int
	Rating           *float64
	RatingCount      *int
	Weight           *float64
	MinPlayers       *int
	MaxPlayers       *int
	PlayingTime      *int
	MinPlaytime      *int
	MaxPlaytime      *int
	MinAge           *int
	Description      string
	ImageURL         *string
	ThumbnailURL     *string
	SuggestedPlayers datatypes.JSON
	CachedAt         time.Time `gorm:"index"`
}

func (gameRow) TableName() string {
	return "game_cache"
}

func newGameRow(g *models.GameRecord) (gameRow, error) {
	row := gameRow{
		Platform:      g.Platform,
		ID:            g.ID,
		Name:          g.Name,
		YearPublished: g.YearPublished,
		Rating:        g.Rating,
		RatingCount:   g.RatingCount,
		Weight:        g.Weight,
		MinPlayers:    g.MinPlayers,
		MaxPlayers:    g.MaxPlayers,
		PlayingTime:   g.PlayingTime,
		MinPlaytime:   g.MinPlaytime,
		MaxPlaytime:   g.MaxPlaytime,
		MinAge:        g.MinAge,
		Description:   g.Description,
		ImageURL:      g.ImageURL,
		ThumbnailURL:  g.ThumbnailURL,
		CachedAt:      g.CachedAt,
	}
	if row.Platform == "" {
		row.Platform = models.PlatformBGG
	}
	if row.CachedAt.IsZero() {
		row.CachedAt = time.Now()
	}

	if len(g.SuggestedPlayers) > 0 {
		data, err := json.Marshal(g.SuggestedPlayers)
		if err != nil {
			return gameRow{}, err
		}
		row.SuggestedPlayers = datatypes.JSON(data)
	}

	return row, nil
}

func (r *gameRow) record() (models.GameRecord, error) {
	g := models.GameRecord{
		ID:            r.ID,
		Platform:      r.Platform,
		Name:          r.Name,
		YearPublished: r.YearPublished,
		Rating:        r.Rating,
		RatingCount:   r.RatingCount,
		Weight:        r.Weight,
		MinPlayers:    r.MinPlayers,
		MaxPlayers:    r.MaxPlayers,
		PlayingTime:   r.PlayingTime,
		MinPlaytime:   r.MinPlaytime,
		MaxPlaytime:   r.MaxPlaytime,
		MinAge:        r.MinAge,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		ThumbnailURL:  r.ThumbnailURL,
		CachedAt:      r.CachedAt,
	}

	if len(r.SuggestedPlayers) > 0 {
		if err := json.Unmarshal(r.SuggestedPlayers, &g.SuggestedPlayers); err != nil {
			return models.GameRecord{}, err
		}
	}

	return g, nil
}

// UpsertGame stores the record, replacing any cached copy wholesale.
func (s *Storage) UpsertGame(g *models.GameRecord) error {
	const op = "storage.sqlite.UpsertGame"

	row, err := newGameRow(g)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrCreateFailed, err)
	}

	g.CachedAt = row.CachedAt
	return nil
}

func (s *Storage) GetGame(platform models.Platform, id int64) (*models.GameRecord, error) {
	const op = "storage.sqlite.GetGame"

	var row gameRow
	err := s.DB.Where("platform = ? AND id = ?", platform, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	g, err := row.record()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &g, nil
}
