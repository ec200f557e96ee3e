package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/2mOlaf/gamer-gambit/internal/app"
	"github.com/2mOlaf/gamer-gambit/internal/bot"
	"github.com/2mOlaf/gamer-gambit/internal/config"
	"github.com/2mOlaf/gamer-gambit/internal/controllers"
	"github.com/2mOlaf/gamer-gambit/internal/middleware"
	"github.com/2mOlaf/gamer-gambit/internal/routes"
	"github.com/2mOlaf/gamer-gambit/internal/services"
	"github.com/2mOlaf/gamer-gambit/internal/storage/sqlite"
)

const defaultDatabasePath = "./data/jarvfjallet.db"

func main() {
	cfg := config.MustLoad()

	log := app.SetupLogger(cfg.Env)

	log.Info("starting jarvfjallet", slog.String("env", cfg.Env))

	storage, err := sqlite.New(cfg.DatabasePath(defaultDatabasePath))
	if err != nil {
		log.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := storage.MigrateJarvfjallet(); err != nil {
		log.Error("migration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	importLegacy(log, storage, cfg.Legacy.ImportPath)

	log.Info("database init")

	assignments := services.NewAssignmentService(storage, log)

	b, err := bot.New(cfg.Discord.Token, cfg.Discord.GuildID, log, bot.NewJarvfjallet(assignments))
	if err != nil {
		log.Error("failed to create bot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := b.Start(); err != nil {
		log.Error("failed to start bot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := b.Stop(); err != nil {
			log.Error("failed to stop bot", slog.String("error", err.Error()))
		}
	}()

	r := routes.SetupRouter(middleware.NewAuthMiddleware(cfg.HTTPServer.APIToken), routes.Controllers{
		Health:      controllers.NewHealthController("jarvfjallet", b.Ready, log),
		Assignments: controllers.NewAssignmentController(storage, log),
	})

	log.Info("routes init")

	if err := app.Serve(log, app.NewServer(cfg.HTTPServer, r)); err != nil {
		log.Error("jarvfjallet stopped", slog.String("error", err.Error()))
	}
}

// importLegacy seeds an empty games table from the legacy JSON file.
// A missing file is not an error.
func importLegacy(log *slog.Logger, storage *sqlite.Storage, path string) {
	if path == "" {
		return
	}

	has, err := storage.HasGames()
	if err != nil {
		log.Error("failed to check games table", slog.String("error", err.Error()))
		return
	}
	if has {
		return
	}

	n, err := storage.ImportLegacyJSON(path, log)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Info("no legacy data to import", slog.String("path", path))
	case err != nil:
		log.Error("legacy import failed", slog.String("error", err.Error()))
	default:
		log.Info("legacy data imported", slog.String("path", path), slog.Int("games", n))
	}
}
