package steam

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suggestHTML = `
<a class="match ds_collapse_flag" data-ds-appid="413150" href="https://store.steampowered.com/app/413150/Stardew_Valley/">
	<div class="match_name">Stardew Valley</div>
	<div class="match_img"><img src="https://cdn.akamai.steamstatic.com/steam/apps/413150/capsule_sm_120.jpg"></div>
	<div class="match_price">$14.99</div>
</a>
<a class="match ds_collapse_flag" data-ds-bundleid="1234" href="https://store.steampowered.com/bundle/1234/">
	<div class="match_name">Some Bundle</div>
</a>
<a class="match ds_collapse_flag" data-ds-appid="999" href="https://store.steampowered.com/app/999/">
	<div class="match_name">Missing Details</div>
</a>`

const appDetailsJSON = `{"413150":{"success":true,"data":{"type":"game","name":"Stardew Valley","steam_appid":413150,
"short_description":"You&#39;ve inherited your grandfather&#39;s old farm plot in <b>Stardew Valley</b>.",
"header_image":"https://cdn.akamai.steamstatic.com/steam/apps/413150/header.jpg",
"metacritic":{"score":89},
"release_date":{"coming_soon":false,"date":"26 Feb, 2016"}}}}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/suggest":
			assert.Equal(t, "stardew", r.URL.Query().Get("term"))
			assert.Equal(t, "games", r.URL.Query().Get("f"))
			_, _ = io.WriteString(w, suggestHTML)
		case "/api/appdetails":
			switch r.URL.Query().Get("appids") {
			case "413150":
				_, _ = io.WriteString(w, appDetailsJSON)
			default:
				_, _ = io.WriteString(w, `{"999":{"success":false}}`)
			}
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestClient(url string) *Client {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(log, url, time.Second, "US", "english")
}

func TestClient_Search(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	t.Run("success", func(t *testing.T) {
		got, err := newTestClient(srv.URL).Search(context.Background(), "stardew")

		require.NoError(t, err)
		require.Len(t, got, 2)

		sv := got[0]
		assert.Equal(t, int64(413150), sv.ID)
		assert.Equal(t, "Stardew Valley", sv.Name)
		require.NotNil(t, sv.YearPublished)
		assert.Equal(t, 2016, *sv.YearPublished)
		assert.Equal(t, "You've inherited your grandfather's old farm plot in Stardew Valley.", sv.Description)
		assert.Equal(t, "https://cdn.akamai.steamstatic.com/steam/apps/413150/capsule_sm_120.jpg", *sv.ThumbnailURL)
		assert.InDelta(t, 8.9, *sv.Rating, 1e-9)

		missing := got[1]
		assert.Equal(t, int64(999), missing.ID)
		assert.Equal(t, "Missing Details", missing.Name)
		assert.Nil(t, missing.YearPublished)
	})

	t.Run("error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		got, err := newTestClient(srv.URL).Search(context.Background(), "stardew")

		assert.ErrorIs(t, err, ErrBadStatus)
		assert.Nil(t, got)
	})
}

func TestClient_AppDetails(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	t.Run("not found", func(t *testing.T) {
		_, err := newTestClient(srv.URL).AppDetails(context.Background(), 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
