package main

import (
	"log/slog"
	"os"

	"github.com/2mOlaf/gamer-gambit/internal/app"
	"github.com/2mOlaf/gamer-gambit/internal/bot"
	"github.com/2mOlaf/gamer-gambit/internal/clients/bgg"
	"github.com/2mOlaf/gamer-gambit/internal/clients/steam"
	"github.com/2mOlaf/gamer-gambit/internal/clients/xbox"
	"github.com/2mOlaf/gamer-gambit/internal/config"
	"github.com/2mOlaf/gamer-gambit/internal/controllers"
	"github.com/2mOlaf/gamer-gambit/internal/middleware"
	"github.com/2mOlaf/gamer-gambit/internal/models"
	"github.com/2mOlaf/gamer-gambit/internal/routes"
	"github.com/2mOlaf/gamer-gambit/internal/scheduler"
	"github.com/2mOlaf/gamer-gambit/internal/search"
	"github.com/2mOlaf/gamer-gambit/internal/services"
	"github.com/2mOlaf/gamer-gambit/internal/storage/sqlite"
)

const defaultDatabasePath = "./data/kallax.db"

func main() {
	cfg := config.MustLoad()

	log := app.SetupLogger(cfg.Env)

	log.Info("starting kallax", slog.String("env", cfg.Env))

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

	if err := storage.MigrateKallax(); err != nil {
		log.Error("migration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("database init")

	bggClient := bgg.New(
		log,
		cfg.Clients.BGG.BaseURL,
		cfg.Clients.BGG.Token,
		cfg.Clients.BGG.Timeout,
		cfg.Clients.BGG.RetriesCount,
		cfg.Clients.BGG.RetryDelay,
	)
	steamClient := steam.New(
		log,
		cfg.Clients.Steam.StoreURL,
		cfg.Clients.Steam.Timeout,
		cfg.Clients.Steam.Country,
		cfg.Clients.Steam.Language,
	)
	xboxClient := xbox.New(log, cfg.Clients.Xbox.BaseURL, cfg.Clients.Xbox.APIKey, cfg.Clients.Xbox.Timeout)

	searchers := map[models.Platform]search.Searcher{
		models.PlatformBGG:   search.BGGSearcher(bggClient, log),
		models.PlatformSteam: search.SteamSearcher(steamClient),
	}
	if xboxClient.Enabled() {
		searchers[models.PlatformXbox] = search.XboxSearcher(xboxClient)
	} else {
		log.Warn("xbox api key not set, xbox search disabled")
	}

	searchService := search.NewService(log, searchers)
	profileService := services.NewProfileService(storage, bggClient, log)
	catalogService := services.NewCatalogService(storage, bggClient, cfg.Cache.GameTTL, log)
	playsService := services.NewPlaysService(bggClient, storage, log)

	b, err := bot.New(cfg.Discord.Token, cfg.Discord.GuildID, log,
		bot.NewKallax(searchService, profileService, catalogService, playsService))
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

	if cfg.Weekly.Enabled {
		digest := scheduler.NewWeeklyDigest(storage, playsService, b, log)
		sched, err := scheduler.New(log, cfg.Weekly.Cron, digest)
		if err != nil {
			log.Error("failed to schedule weekly digest", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sched.Start()

		defer func() {
			if err := sched.Stop(); err != nil {
				log.Error("failed to stop scheduler", slog.String("error", err.Error()))
			}
		}()
	}

	r := routes.SetupRouter(middleware.NewAuthMiddleware(cfg.HTTPServer.APIToken), routes.Controllers{
		Health: controllers.NewHealthController("kallax", b.Ready, log),
		Games:  controllers.NewGameController(searchService, catalogService, log),
	})

	log.Info("routes init")

	if err := app.Serve(log, app.NewServer(cfg.HTTPServer, r)); err != nil {
		log.Error("kallax stopped", slog.String("error", err.Error()))
	}
}
