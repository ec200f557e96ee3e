package sqlite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/2mOlaf/gamer-gambit/internal/catalog"
	"github.com/2mOlaf/gamer-gambit/internal/models"

	"gorm.io/gorm/clause"
)

type legacyFile struct {
	Games []catalog.Node `json:"games"`
}

// ImportLegacyJSON loads a legacy itch.io review file, replacing games by
// id. Games that cannot be read or written are logged and skipped. It
// returns the number imported.
func (s *Storage) ImportLegacyJSON(path string, log *slog.Logger) (int, error) {
	const op = "storage.sqlite.ImportLegacyJSON"

	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var file legacyFile
	if err := dec.Decode(&file); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	imported := 0
	for _, raw := range file.Games {
		g, err := legacyGame(raw)
		if err != nil {
			log.Warn("skipping legacy game",
				slog.String("operation", op),
				slog.String("error", err.Error()))
			continue
		}

		if err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&g).Error; err != nil {
			log.Warn("failed to import legacy game",
				slog.String("operation", op),
				slog.Int64("game_id", g.ID),
				slog.String("error", err.Error()))
			continue
		}
		imported++
	}

	log.Info("legacy import finished",
		slog.String("operation", op),
		slog.String("path", path),
		slog.Int("imported", imported),
		slog.Int("total", len(file.Games)))

	return imported, nil
}

func legacyGame(n catalog.Node) (models.ItchGame, error) {
	id, err := catalog.ID(n["id"])
	if err != nil {
		return models.ItchGame{}, err
	}

	g := models.ItchGame{
		ID:         id,
		GameURL:    catalog.Text(n["gameUrl"]),
		ThumbURL:   catalog.OptionalText(n["thumbUrl"]),
		Windows:    n["windows"] == true,
		Mac:        n["mac"] == true,
		Linux:      n["linux"] == true,
		GameName:   catalog.Text(n["gameName"]),
		GameHost:   catalog.OptionalText(n["gameHost"]),
		DevName:    catalog.OptionalText(n["devName"]),
		DevURL:     catalog.OptionalText(n["devUrl"]),
		ShortText:  catalog.OptionalText(n["shortText"]),
		Reviewer:   catalog.OptionalText(n["reviewer"]),
		Thumbnail:  catalog.OptionalText(n["thumbnail"]),
		ReviewURL:  catalog.OptionalText(n["reviewurl"]),
		ReviewDate: millis(n["reviewdate"]),
		AssignDate: millis(n["assigndate"]),
	}

	if g.GameURL == "" || g.GameName == "" {
		return models.ItchGame{}, fmt.Errorf("%w: game %d has no url or name", catalog.ErrMalformedItem, id)
	}

	return g, nil
}

func millis(v any) *int64 {
	i := catalog.SafeInt(v)
	if i == nil || *i == 0 {
		return nil
	}
	ms := int64(*i)
	return &ms
}
