package xbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/catalog"
	"github.com/2mOlaf/gamer-gambit/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultBaseURL = "https://xbl.io/api/v2"

var (
	ErrNoAPIKey  = errors.New("xbox: api key not configured")
	ErrNotFound  = errors.New("xbox: gamertag not found")
	ErrBadStatus = errors.New("xbox: unexpected status code")
)

type Profile struct {
	DisplayName string  `json:"display_name"`
	Gamertag    string  `json:"gamertag"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

type Title struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	ImageURL            *string `json:"image_url,omitempty"`
	CurrentGamerscore   int     `json:"current_gamerscore"`
	MaxGamerscore       int     `json:"max_gamerscore"`
	ProgressPercentage  float64 `json:"progress_percentage"`
	CurrentAchievements int     `json:"current_achievements"`
	TotalAchievements   int     `json:"total_achievements"`
}

func (t Title) GameRecord() models.GameRecord {
	return models.GameRecord{
		ID:           t.ID,
		Platform:     models.PlatformXbox,
		Name:         t.Name,
		ThumbnailURL: t.ImageURL,
	}
}

type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	log     *slog.Logger
}

func New(log *slog.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if apiKey == "" {
		log.Warn("xbox api key not provided, xbox functionality will be limited")
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		log:     log,
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(out)
}

// Profile looks up a gamertag. Without an API key it echoes the gamertag
// back so profile display keeps working.
func (c *Client) Profile(ctx context.Context, gamertag string) (Profile, error) {
	const op = "xbox.Profile"

	if !c.Enabled() {
		return Profile{DisplayName: gamertag, Gamertag: gamertag}, nil
	}

	var body catalog.Node
	if err := c.get(ctx, "/profile/"+url.PathEscape(gamertag), &body); err != nil {
		return Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	p := Profile{
		DisplayName: catalog.Text(body["displayName"]),
		Gamertag:    catalog.Text(body["gamertag"]),
		AvatarURL:   catalog.OptionalText(body["displayPicRaw"]),
	}
	if p.DisplayName == "" {
		p.DisplayName = gamertag
	}
	if p.Gamertag == "" {
		p.Gamertag = gamertag
	}

	return p, nil
}

// Titles returns up to limit titles the gamertag has achievement data for.
func (c *Client) Titles(ctx context.Context, gamertag string, limit int) ([]Title, error) {
	const op = "xbox.Titles"

	if !c.Enabled() {
		return nil, fmt.Errorf("%s: %w", op, ErrNoAPIKey)
	}

	var body catalog.Node
	if err := c.get(ctx, "/achievements/player/"+url.PathEscape(gamertag), &body); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw := catalog.EnsureList[catalog.Node](body["titles"])
	out := make([]Title, 0, len(raw))
	for _, n := range raw {
		t, err := parseTitle(n)
		if err != nil {
			c.log.Warn("skipping malformed item",
				slog.String("operation", op),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}

// SearchTitles filters a gamertag's titles by a case-insensitive substring.
func (c *Client) SearchTitles(ctx context.Context, gamertag, query string, limit int) ([]models.GameRecord, error) {
	const op = "xbox.SearchTitles"

	titles, err := c.Titles(ctx, gamertag, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lower := cases.Lower(language.Und)
	q := lower.String(strings.TrimSpace(query))

	var out []models.GameRecord
	for _, t := range titles {
		if !strings.Contains(lower.String(t.Name), q) {
			continue
		}
		out = append(out, t.GameRecord())
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}

func parseTitle(n catalog.Node) (Title, error) {
	id, err := catalog.ID(n["titleId"])
	if err != nil {
		return Title{}, err
	}

	t := Title{
		ID:       id,
		Name:     catalog.Text(n["name"]),
		ImageURL: catalog.OptionalText(n["displayImage"]),
	}
	if t.Name == "" {
		t.Name = "Unknown Game"
	}

	// xbl.io nests progress under "achievement"; older payloads are flat.
	src := n
	if a := catalog.Child(n, "achievement"); a != nil {
		src = a
	}
	t.CurrentGamerscore = intOr(src["currentGamerscore"])
	t.MaxGamerscore = intOr(src["totalGamerscore"])
	if t.MaxGamerscore == 0 {
		t.MaxGamerscore = intOr(src["maxGamerscore"])
	}
	t.CurrentAchievements = intOr(src["currentAchievements"])
	t.TotalAchievements = intOr(src["totalAchievements"])
	if p := catalog.SafeFloat(src["progressPercentage"]); p != nil {
		t.ProgressPercentage = *p
	}

	return t, nil
}

func intOr(v any) int {
	if i := catalog.SafeInt(v); i != nil {
		return *i
	}
	return 0
}

func FormatGamerscore(score int) string {
	if score >= 1000 {
		return fmt.Sprintf("%.1fK", float64(score)/1000)
	}
	return fmt.Sprint(score)
}

func ProgressEmoji(pct float64) string {
	switch {
	case pct >= 100:
		return "🏆"
	case pct >= 75:
		return "🥈"
	case pct >= 50:
		return "🥉"
	case pct >= 25:
		return "📈"
	default:
		return "📊"
	}
}

// StoreURL points at the store search for a title; xbl.io title ids do not
// map to store product ids.
func StoreURL(name string) string {
	return "https://www.xbox.com/en-US/search?q=" + url.QueryEscape(name)
}
