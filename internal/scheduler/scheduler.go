package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/bot"
	"github.com/2mOlaf/gamer-gambit/internal/models"

	"github.com/bwmarrin/discordgo"
	"github.com/go-co-op/gocron/v2"
)

const (
	digestWindow  = 7 * 24 * time.Hour
	digestTimeout = 10 * time.Minute
)

type ProfileLister interface {
	ListWeeklyProfiles() ([]models.UserProfile, error)
}

type PlaysSince interface {
	Since(ctx context.Context, ownerID, username string, since time.Time) ([]models.PlayRecord, error)
}

type Sender interface {
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// WeeklyDigest posts each opted-in user's plays of the last week to their
// chosen channel.
type WeeklyDigest struct {
	profiles ProfileLister
	plays    PlaysSince
	sender   Sender
	log      *slog.Logger
	now      func() time.Time
}

func NewWeeklyDigest(profiles ProfileLister, plays PlaysSince, sender Sender, log *slog.Logger) *WeeklyDigest {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &WeeklyDigest{
		profiles: profiles,
		plays:    plays,
		sender:   sender,
		log:      log,
		now:      time.Now,
	}
}

// Run sends one digest per profile and returns how many went out. A
// failing profile is logged and skipped.
func (d *WeeklyDigest) Run(ctx context.Context) (int, error) {
	const op = "scheduler.WeeklyDigest.Run"

	profiles, err := d.profiles.ListWeeklyProfiles()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	since := d.now().Add(-digestWindow)
	sent := 0
	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return sent, fmt.Errorf("%s: %w", op, err)
		}
		if p.BGGUsername == nil || p.WeeklyStatsChannelID == nil {
			continue
		}

		plays, err := d.plays.Since(ctx, p.DiscordID, *p.BGGUsername, since)
		if err != nil {
			d.log.Warn("failed to fetch weekly plays",
				slog.String("operation", op),
				slog.String("discord_id", p.DiscordID),
				slog.String("error", err.Error()))
			continue
		}

		embed := bot.WeeklyDigestEmbed(*p.BGGUsername, p.DiscordID, plays, since)
		if err := d.sender.SendEmbed(*p.WeeklyStatsChannelID, embed); err != nil {
			d.log.Warn("failed to send weekly digest",
				slog.String("operation", op),
				slog.String("discord_id", p.DiscordID),
				slog.String("channel_id", *p.WeeklyStatsChannelID),
				slog.String("error", err.Error()))
			continue
		}
		sent++
	}

	d.log.Info("weekly digest sent",
		slog.String("operation", op),
		slog.Int("profiles", len(profiles)),
		slog.Int("sent", sent))

	return sent, nil
}

type Scheduler struct {
	sched gocron.Scheduler
	log   *slog.Logger
}

// New schedules the digest on a five-field cron expression.
func New(log *slog.Logger, cron string, digest *WeeklyDigest) (*Scheduler, error) {
	const op = "scheduler.New"

	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = sched.NewJob(
		gocron.CronJob(cron, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
			defer cancel()

			if _, err := digest.Run(ctx); err != nil {
				log.Error("weekly digest failed",
					slog.String("operation", op),
					slog.String("error", err.Error()))
			}
		}),
		gocron.WithName("weekly-digest"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Scheduler{sched: sched, log: log}, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
	s.log.Info("scheduler started")
}

func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}
