// Package rugbyfeed is the live sports-data API path. It fetches match
// summaries per competition season and per-match lineup/event detail, and
// shapes both into the canonical schema shared with the Wikipedia path.
package rugbyfeed

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"rugbydata/internal/platform/fetch"
	"rugbydata/internal/platform/logging"
)

const (
	defaultBaseURL = "https://rugby-union-feeds.incrowdsports.com/v1"

	// Detail endpoints only hold data once squads are announced; matches
	// further out than this are summaries only.
	detailHorizon = 7 * 24 * time.Hour

	feedTimeLayout = "2006-01-02T15:04:05.000Z"
)

type ClientConfig struct {
	Fetcher *fetch.Client
	BaseURL string
	Logger  *logging.Logger
	Now     func() time.Time
}

type Client struct {
	fetcher *fetch.Client
	baseURL string
	logger  *logging.Logger
	now     func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewClient(fetch.ClientConfig{Logger: logger})
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Client{fetcher: fetcher, baseURL: baseURL, logger: logger, now: now}
}

type feedTeam struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Score *int    `json:"score"`
	Group *string `json:"group"`
}

type feedVenue struct {
	Name string `json:"name"`
}

// Summary is one match as the list endpoint reports it.
type Summary struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	Round       int       `json:"round"`
	RoundTypeID int       `json:"roundTypeId"`
	Attendance  *int      `json:"attendance"`
	Officials   []string  `json:"officials"`
	HomeTeam    feedTeam  `json:"homeTeam"`
	AwayTeam    feedTeam  `json:"awayTeam"`
	Venue       feedVenue `json:"venue"`
}

type feedPlayer struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PositionID int    `json:"positionId"`
}

type detailTeam struct {
	ID      int64        `json:"id"`
	Players []feedPlayer `json:"players"`
}

type feedEvent struct {
	Type     string `json:"type"`
	Minute   int    `json:"minute"`
	PlayerID int64  `json:"playerId"`
	TeamID   int64  `json:"teamId"`
}

// Detail is the per-match lineup/event payload.
type Detail struct {
	HomeTeam detailTeam  `json:"homeTeam"`
	AwayTeam detailTeam  `json:"awayTeam"`
	Events   []feedEvent `json:"events"`
}

type matchesEnvelope struct {
	Data []Summary `json:"data"`
}

type detailEnvelope struct {
	Data Detail `json:"data"`
}

func seasonParam(startYear int) string {
	return fmt.Sprintf("%d01", startYear)
}

// Matches lists every match of one competition season.
func (c *Client) Matches(ctx context.Context, compID int, startYear int, provider string) ([]Summary, error) {
	url := fmt.Sprintf("%s/matches?compId=%d&season=%s&provider=%s", c.baseURL, compID, seasonParam(startYear), provider)
	raw, err := c.fetcher.Get(ctx, url)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch matches comp_id=%d season=%d", compID, startYear)
	}

	var envelope matchesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, crerr.Wrapf(err, "decode matches comp_id=%d season=%d", compID, startYear)
	}
	if envelope.Data == nil {
		return nil, crerr.Newf("matches response has no data field comp_id=%d season=%d", compID, startYear)
	}
	return envelope.Data, nil
}

// MatchDetail fetches lineup and event detail for one match.
func (c *Client) MatchDetail(ctx context.Context, matchID int64, startYear int, provider string) (Detail, error) {
	url := fmt.Sprintf("%s/matches/%d?season=%s&provider=%s", c.baseURL, matchID, seasonParam(startYear), provider)
	raw, err := c.fetcher.Get(ctx, url)
	if err != nil {
		return Detail{}, crerr.Wrapf(err, "fetch match detail id=%d", matchID)
	}

	var envelope detailEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return Detail{}, crerr.Wrapf(err, "decode match detail id=%d", matchID)
	}
	return envelope.Data, nil
}
