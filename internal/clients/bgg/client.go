package bgg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2mOlaf/gamer-gambit/internal/catalog"

	"github.com/clbanning/mxj/v2"
)

const DefaultBaseURL = "https://boardgamegeek.com/xmlapi2"

var (
	ErrUpstreamUnavailable = errors.New("bgg api unavailable")
	ErrInvalidRequest      = errors.New("bgg rejected request")
)

// UpstreamError is returned once every attempt at an endpoint has failed.
type UpstreamError struct {
	Endpoint string
	Status   int
	Attempts int
	Err      error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("bgg %s: gave up after %d attempts", e.Endpoint, e.Attempts)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (last status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstreamUnavailable}
	}
	return []error{ErrUpstreamUnavailable, e.Err}
}

type Client struct {
	http       *http.Client
	baseURL    string
	token      string
	retries    int
	retryDelay time.Duration
	parser     *Parser
	log        *slog.Logger
}

func New(
	log *slog.Logger,
	baseURL string,
	token string,
	timeout time.Duration,
	retriesCount int,
	retryDelay time.Duration,
) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if retriesCount < 1 {
		retriesCount = 1
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		http:       &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		retries:    retriesCount,
		retryDelay: retryDelay,
		parser:     NewParser(log),
		log:        log,
	}
}

// do fetches an endpoint and decodes the XML body. A 202 means BGG has
// queued the request; it and any other failure are retried with a doubling
// delay until the attempts run out.
func (c *Client) do(ctx context.Context, endpoint string, params url.Values) (catalog.Node, error) {
	const op = "bgg.client.do"

	delay := c.retryDelay
	last := &UpstreamError{Endpoint: endpoint, Attempts: c.retries}

	for attempt := 0; attempt < c.retries; attempt++ {
		root, status, err := c.fetch(ctx, endpoint, params)
		switch {
		case err == nil:
			return root, nil
		case errors.Is(err, ErrInvalidRequest):
			return nil, fmt.Errorf("%s: %w", op, err)
		case ctx.Err() != nil:
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		}

		last.Status = status
		last.Err = err

		if status == http.StatusAccepted {
			c.log.Info("bgg api processing request, waiting",
				slog.String("endpoint", endpoint),
				slog.Duration("delay", delay))
		} else {
			c.log.Warn("bgg api request failed",
				slog.String("operation", op),
				slog.String("endpoint", endpoint),
				slog.Int("attempt", attempt+1),
				slog.String("error", err.Error()))
		}

		if attempt == c.retries-1 {
			break
		}

		if err := wait(ctx, delay); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		delay *= 2
	}

	return nil, fmt.Errorf("%s: %w", op, last)
}

var errAccepted = errors.New("request queued")

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) (catalog.Node, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/xml")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusAccepted:
		return nil, resp.StatusCode, errAccepted
	default:
		return nil, resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	m, err := mxj.NewMapXml(body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode xml: %w", err)
	}

	root := catalog.Node(m)
	if msg, ok := errorMessage(root); ok {
		return nil, resp.StatusCode, fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
	}

	return root, resp.StatusCode, nil
}

// errorMessage detects the <errors><error><message> body BGG sends with a
// 200 for unknown users and bad parameters.
func errorMessage(root catalog.Node) (string, bool) {
	var errs []catalog.Node
	if e := catalog.Child(root, "errors"); e != nil {
		errs = catalog.Nodes(e, "error")
	} else if e := catalog.Child(root, "error"); e != nil {
		errs = []catalog.Node{e}
	} else if _, ok := root["errors"]; ok {
		return "unknown error", true
	} else {
		return "", false
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if m := catalog.Text(e["message"]); m != "" {
			msgs = append(msgs, m)
		}
	}
	if len(msgs) == 0 {
		return "unknown error", true
	}
	return strings.Join(msgs, "; "), true
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
