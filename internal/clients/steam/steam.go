package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/catalog"
	"github.com/2mOlaf/gamer-gambit/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultStoreURL = "https://store.steampowered.com"

	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"
	descriptionLimit = 1000
	maxWorkers       = 5
)

var (
	ErrNotFound  = errors.New("steam: app not found")
	ErrBadStatus = errors.New("steam: unexpected status code")
)

var yearRe = regexp.MustCompile(`(20\d{2}|19\d{2})`)

const defaultTimeout = 3 * time.Second

type Client struct {
	http     *http.Client
	storeURL string
	country  string
	language string
	log      *slog.Logger
}

func New(log *slog.Logger, storeURL string, timeout time.Duration, country, language string) *Client {
	if storeURL == "" {
		storeURL = DefaultStoreURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if country == "" {
		country = "US"
	}
	if language == "" {
		language = "english"
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		http:     &http.Client{Timeout: timeout},
		storeURL: strings.TrimRight(storeURL, "/"),
		country:  country,
		language: language,
		log:      log,
	}
}

func (c *Client) newRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.storeURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = params.Encode()

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	req.AddCookie(&http.Cookie{Name: "birthtime", Value: "473385601"})
	req.AddCookie(&http.Cookie{Name: "wants_mature_content", Value: "1"})
	req.AddCookie(&http.Cookie{Name: "Steam_Language", Value: c.language})

	return req, nil
}

// Search runs the store's type-ahead search and fills in release year and
// description for each hit. A hit whose details cannot be fetched is kept
// as is.
func (c *Client) Search(ctx context.Context, query string) ([]models.GameRecord, error) {
	const op = "steam.Search"

	hits, err := c.suggest(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		sem = make(chan struct{}, maxWorkers)
		wg  sync.WaitGroup
	)

	for i := range hits {
		sem <- struct{}{}
		wg.Add(1)
		go func(g *models.GameRecord) {
			defer func() {
				<-sem
				wg.Done()
			}()

			details, err := c.AppDetails(ctx, g.ID)
			if err != nil {
				c.log.Warn("steam app details failed",
					slog.String("operation", op),
					slog.Int64("app_id", g.ID),
					slog.String("error", err.Error()))
				return
			}
			details.ThumbnailURL = g.ThumbnailURL
			*g = details
		}(&hits[i])
	}
	wg.Wait()

	return hits, nil
}

func (c *Client) suggest(ctx context.Context, query string) ([]models.GameRecord, error) {
	params := url.Values{}
	params.Add("term", query)
	params.Add("f", "games")
	params.Add("cc", c.country)
	params.Add("l", c.language)
	params.Add("realm", "1")

	req, err := c.newRequest(ctx, "/search/suggest", params)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseSuggest(doc, c.log), nil
}

// parseSuggest reads the a.match rows of a suggest response. Rows without a
// numeric app id (bundles, packages) are skipped.
func parseSuggest(doc *goquery.Document, log *slog.Logger) []models.GameRecord {
	var out []models.GameRecord

	doc.Find("a.match").Each(func(i int, s *goquery.Selection) {
		id, err := catalog.ID(s.AttrOr("data-ds-appid", ""))
		if err != nil {
			log.Debug("skipping steam suggestion", slog.Int("index", i), slog.String("error", err.Error()))
			return
		}

		name := strings.TrimSpace(s.Find("div.match_name").Text())
		if name == "" {
			name = strings.TrimSpace(s.AttrOr("data-ds-name", ""))
		}
		if name == "" {
			return
		}

		g := models.GameRecord{
			ID:       id,
			Platform: models.PlatformSteam,
			Name:     name,
		}
		if img, ok := s.Find("div.match_img img").Attr("src"); ok && img != "" {
			g.ThumbnailURL = &img
		}

		out = append(out, g)
	})

	return out
}

// AppDetails fetches the store record for one app.
func (c *Client) AppDetails(ctx context.Context, appID int64) (models.GameRecord, error) {
	const op = "steam.AppDetails"

	params := url.Values{}
	params.Set("appids", strconv.FormatInt(appID, 10))
	params.Set("cc", c.country)
	params.Set("l", c.language)

	req, err := c.newRequest(ctx, "/api/appdetails", params)
	if err != nil {
		return models.GameRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.GameRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.GameRecord{}, fmt.Errorf("%s: %w: %d", op, ErrBadStatus, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return models.GameRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	entry, _ := body[strconv.FormatInt(appID, 10)].(map[string]any)
	if ok, _ := entry["success"].(bool); !ok {
		return models.GameRecord{}, fmt.Errorf("%s: %w: %d", op, ErrNotFound, appID)
	}

	g, err := parseAppData(appID, catalog.Child(entry, "data"))
	if err != nil {
		return models.GameRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return g, nil
}

func parseAppData(appID int64, data catalog.Node) (models.GameRecord, error) {
	name := strings.TrimSpace(catalog.Text(data["name"]))
	if name == "" {
		return models.GameRecord{}, fmt.Errorf("%w: app %d has no name", catalog.ErrMalformedItem, appID)
	}

	desc := catalog.Text(data["short_description"])
	if desc == "" {
		desc = catalog.Text(data["about_the_game"])
	}

	g := models.GameRecord{
		ID:          appID,
		Platform:    models.PlatformSteam,
		Name:        name,
		Description: catalog.Truncate(catalog.CleanHTML(desc), descriptionLimit),
		ImageURL:    catalog.OptionalText(data["header_image"]),
	}

	if date := catalog.Text(catalog.Child(data, "release_date")["date"]); date != "" {
		if y := yearRe.FindString(date); y != "" {
			g.YearPublished = catalog.SafeInt(y)
		}
	}

	if score := catalog.SafeFloat(catalog.Child(data, "metacritic")["score"]); score != nil {
		r := *score / 10
		g.Rating = &r
	}

	return g, nil
}

func StoreURL(appID int64) string {
	return fmt.Sprintf("https://store.steampowered.com/app/%d", appID)
}
