package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"rugbydata/external/wikipedia"
	"rugbydata/internal/config"
	"rugbydata/internal/domain/match"
	"rugbydata/internal/platform/logging"
)

// ChampionshipScraper yields one season of matches from Wikipedia pages.
// The problem list carries per-section parse failures that did not stop
// the rest of the page.
type ChampionshipScraper interface {
	Championship(ctx context.Context, year int, competition string) ([]match.Match, []string, error)
}

// FeedSeason yields one season of canonical matches from the live sports
// feed, with per-match problems reported rather than failing the season.
type FeedSeason interface {
	Season(ctx context.Context, compID int, startYear int, provider string) ([]match.Match, []string, error)
}

// Stats summarizes one update run against a season store.
type Stats struct {
	New       int
	Updated   int
	Unchanged int
	Total     int
	Errors    []string
}

// UpdateService routes a competition season to its source, merges the
// result into the season store, and persists it.
type UpdateService struct {
	store    match.Repository
	wiki     ChampionshipScraper
	feed     FeedSeason
	registry map[string]config.Competition
	validate *validator.Validate
	logger   *logging.Logger
}

func NewUpdateService(store match.Repository, wiki ChampionshipScraper, feed FeedSeason, registry map[string]config.Competition, logger *logging.Logger) *UpdateService {
	if logger == nil {
		logger = logging.Default()
	}
	return &UpdateService{
		store:    store,
		wiki:     wiki,
		feed:     feed,
		registry: registry,
		validate: validator.New(),
		logger:   logger,
	}
}

// UpdateCompetition fetches one season for the given competition key,
// merges it into the season store, and saves the result unless dryRun is
// set. Per-match source and validation problems land in Stats.Errors; only
// an unreachable source or a failed store write is fatal.
func (s *UpdateService) UpdateCompetition(ctx context.Context, key string, season string, dryRun bool) (Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "UpdateService.UpdateCompetition")
	defer span.End()

	comp, ok := s.registry[key]
	if !ok {
		return Stats{}, crerr.Wrapf(ErrUnknownCompetition, "key %q", key)
	}

	startYear, err := seasonStartYear(season)
	if err != nil {
		return Stats{}, err
	}

	if comp.UseYearOnly && !wikipedia.IsWorldCupYear(startYear) {
		return Stats{}, crerr.Wrapf(ErrSeasonUnsupported, "%d is not a %s year", startYear, comp.Name)
	}

	incoming, problems, err := s.fetchSeason(ctx, comp, startYear)
	if err != nil {
		return Stats{}, crerr.Wrapf(ErrSourceUnavailable, "%s season %s: %v", comp.Key, season, err)
	}

	name := comp.StoreName(season)
	existing, err := s.store.Load(ctx, name)
	if err != nil {
		return Stats{}, crerr.Wrapf(err, "loading store %q", name)
	}

	merged, stats := s.Merge(existing, incoming)
	stats.Errors = append(problems, stats.Errors...)

	if len(merged) > 0 && !dryRun {
		if err := s.store.Save(ctx, name, merged); err != nil {
			return stats, crerr.Wrapf(err, "saving store %q", name)
		}
	}

	s.logger.InfoContext(ctx, "season updated",
		"competition", comp.Key,
		"season", season,
		"store", name,
		"new", stats.New,
		"updated", stats.Updated,
		"unchanged", stats.Unchanged,
		"total", stats.Total,
		"problems", len(stats.Errors),
		"dry_run", dryRun,
	)
	return stats, nil
}

func (s *UpdateService) fetchSeason(ctx context.Context, comp config.Competition, startYear int) ([]match.Match, []string, error) {
	if comp.Provider == config.ProviderWikipedia ||
		(comp.WikipediaFallback && comp.APICutoffYear > 0 && startYear < comp.APICutoffYear) {
		return s.wiki.Championship(ctx, startYear, comp.Name)
	}
	return s.feed.Season(ctx, comp.CompID, startYear, comp.Provider)
}

// Merge folds incoming matches into the existing season list. Records are
// keyed by calendar day plus both team names. Unknown keys are appended;
// a known key with no recorded score is replaced once the incoming record
// carries one. A record that already has a score is never touched, and
// nothing is ever removed. Incoming records missing a date or a team name
// fail validation and are skipped.
func (s *UpdateService) Merge(existing []match.Match, incoming []match.Match) ([]match.Match, Stats) {
	merged := make([]match.Match, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, m := range merged {
		index[m.Key()] = i
	}

	var stats Stats
	for _, m := range incoming {
		if err := s.validate.Struct(m); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("invalid match %q: %v", m.Key(), err))
			continue
		}

		i, seen := index[m.Key()]
		if !seen {
			merged = append(merged, m)
			index[m.Key()] = len(merged) - 1
			stats.New++
			continue
		}
		if !merged[i].Played() && m.Played() {
			merged[i] = m
			stats.Updated++
			continue
		}
		stats.Unchanged++
	}

	stats.Total = len(merged)
	return merged, stats
}

// seasonStartYear extracts the opening calendar year from a season label,
// either cross-year ("2024-2025") or a bare year ("2023").
func seasonStartYear(season string) (int, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(season), "-")
	year, err := strconv.Atoi(head)
	if err != nil || year < 1871 || year > 2200 {
		return 0, crerr.Wrapf(ErrInvalidSeason, "%q", season)
	}
	return year, nil
}
