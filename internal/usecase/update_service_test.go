package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rugbydata/internal/config"
	"rugbydata/internal/domain/match"
	"rugbydata/internal/infrastructure/repository/memory"
	"rugbydata/internal/platform/logging"
)

type fakeWiki struct {
	matches  []match.Match
	problems []string
	err      error
	calls    int
	lastYear int
	lastName string
}

func (w *fakeWiki) Championship(_ context.Context, year int, competition string) ([]match.Match, []string, error) {
	w.calls++
	w.lastYear = year
	w.lastName = competition
	return w.matches, w.problems, w.err
}

type fakeFeed struct {
	matches      []match.Match
	problems     []string
	err          error
	calls        int
	lastCompID   int
	lastYear     int
	lastProvider string
}

func (f *fakeFeed) Season(_ context.Context, compID int, startYear int, provider string) ([]match.Match, []string, error) {
	f.calls++
	f.lastCompID = compID
	f.lastYear = startYear
	f.lastProvider = provider
	return f.matches, f.problems, f.err
}

func playedMatch(date, home, away string, homeScore, awayScore int) match.Match {
	return match.Match{
		Date: date,
		Home: match.Side{Team: home, Score: &homeScore},
		Away: match.Side{Team: away, Score: &awayScore},
	}
}

func fixtureMatch(date, home, away string) match.Match {
	return match.Match{
		Date: date,
		Home: match.Side{Team: home},
		Away: match.Side{Team: away},
	}
}

func testRegistry() map[string]config.Competition {
	return map[string]config.Competition{
		"six-nations": {
			Key:            "six-nations",
			Name:           "Six Nations Championship",
			Provider:       config.ProviderWikipedia,
			FilenamePrefix: "six-nations",
		},
		"urc": {
			Key:               "urc",
			Name:              "United Rugby Championship",
			Provider:          "rugbyviz",
			CompID:            1068,
			FilenamePrefix:    "urc",
			WikipediaFallback: true,
			APICutoffYear:     2005,
		},
		"world-cup": {
			Key:            "world-cup",
			Name:           "Rugby World Cup",
			Provider:       config.ProviderWikipedia,
			FilenamePrefix: "rugby-world-cup",
			UseYearOnly:    true,
		},
	}
}

func newTestService(store match.Repository, wiki *fakeWiki, feed *fakeFeed) *UpdateService {
	return NewUpdateService(store, wiki, feed, testRegistry(), logging.NewNop())
}

func TestMergeAppendsNewMatches(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewMatchRepository(), &fakeWiki{}, &fakeFeed{})

	existing := []match.Match{playedMatch("2025-02-01T15:00:00", "Scotland", "Italy", 31, 19)}
	incoming := []match.Match{
		playedMatch("2025-02-01T15:00:00", "Scotland", "Italy", 31, 19),
		fixtureMatch("2025-02-08T16:45:00", "Scotland", "Ireland"),
	}

	merged, stats := svc.Merge(existing, incoming)

	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 1, stats.Unchanged)
	assert.Equal(t, 2, stats.Total)
	require.Len(t, merged, 2)
	assert.Equal(t, "Ireland", merged[1].Away.Team)
}

func TestMergeIsIdempotent(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewMatchRepository(), &fakeWiki{}, &fakeFeed{})

	incoming := []match.Match{
		playedMatch("2025-02-01T15:00:00", "Scotland", "Italy", 31, 19),
		fixtureMatch("2025-02-08T16:45:00", "Scotland", "Ireland"),
	}

	first, stats := svc.Merge(nil, incoming)
	require.Equal(t, 2, stats.New)

	second, stats := svc.Merge(first, incoming)
	assert.Equal(t, 0, stats.New)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 2, stats.Unchanged)
	assert.Equal(t, first, second)
}

func TestMergeFillsNullScore(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewMatchRepository(), &fakeWiki{}, &fakeFeed{})

	existing := []match.Match{fixtureMatch("2025-02-08T16:45:00", "Scotland", "Ireland")}
	result := playedMatch("2025-02-08T16:45:00", "Scotland", "Ireland", 18, 32)
	result.Home.Scores = []match.ScoreEvent{{Minute: 12, Type: match.EventTry, Player: "Huw Jones", Value: 5}}

	merged, stats := svc.Merge(existing, []match.Match{result})

	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 0, stats.New)
	require.Len(t, merged, 1)
	require.NotNil(t, merged[0].Home.Score)
	assert.Equal(t, 18, *merged[0].Home.Score)
	assert.Len(t, merged[0].Home.Scores, 1)
}

func TestMergeNeverOverwritesRecordedScore(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewMatchRepository(), &fakeWiki{}, &fakeFeed{})

	existing := []match.Match{playedMatch("2025-02-01T15:00:00", "Scotland", "Italy", 31, 19)}
	conflicting := playedMatch("2025-02-01T15:00:00", "Scotland", "Italy", 0, 0)

	merged, stats := svc.Merge(existing, []match.Match{conflicting})

	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 1, stats.Unchanged)
	require.NotNil(t, merged[0].Home.Score)
	assert.Equal(t, 31, *merged[0].Home.Score)
}

func TestMergeSkipsInvalidMatch(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewMatchRepository(), &fakeWiki{}, &fakeFeed{})

	incoming := []match.Match{
		fixtureMatch("2025-02-08T16:45:00", "", "Ireland"),
		fixtureMatch("", "Scotland", "Ireland"),
		fixtureMatch("2025-02-08T16:45:00", "Scotland", "Ireland"),
	}

	merged, stats := svc.Merge(nil, incoming)

	assert.Equal(t, 1, stats.New)
	assert.Len(t, stats.Errors, 2)
	assert.Len(t, merged, 1)
}

func TestUpdateCompetitionWikipediaRoute(t *testing.T) {
	t.Parallel()

	store := memory.NewMatchRepository()
	wiki := &fakeWiki{matches: []match.Match{playedMatch("2025-02-01T15:00:00", "Scotland", "Italy", 31, 19)}}
	feed := &fakeFeed{}
	svc := newTestService(store, wiki, feed)

	stats, err := svc.UpdateCompetition(context.Background(), "six-nations", "2025-2026", false)
	require.NoError(t, err)

	assert.Equal(t, 1, wiki.calls)
	assert.Equal(t, 0, feed.calls)
	assert.Equal(t, 2025, wiki.lastYear)
	assert.Equal(t, "Six Nations Championship", wiki.lastName)
	assert.Equal(t, 1, stats.New)
	saved, err := store.Load(context.Background(), "six-nations-2025-2026")
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestUpdateCompetitionFeedRoute(t *testing.T) {
	t.Parallel()

	store := memory.NewMatchRepository()
	feed := &fakeFeed{matches: []match.Match{fixtureMatch("2024-10-05T17:00:00.000Z", "Munster", "Leinster")}}
	svc := newTestService(store, &fakeWiki{}, feed)

	stats, err := svc.UpdateCompetition(context.Background(), "urc", "2024-2025", false)
	require.NoError(t, err)

	assert.Equal(t, 1, feed.calls)
	assert.Equal(t, 1068, feed.lastCompID)
	assert.Equal(t, 2024, feed.lastYear)
	assert.Equal(t, "rugbyviz", feed.lastProvider)
	assert.Equal(t, 1, stats.New)
	saved, err := store.Load(context.Background(), "urc-2024-2025")
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestUpdateCompetitionFallsBackBeforeCutoff(t *testing.T) {
	t.Parallel()

	wiki := &fakeWiki{matches: []match.Match{playedMatch("2003-09-05T19:00:00", "Ulster", "Edinburgh", 20, 13)}}
	feed := &fakeFeed{}
	svc := newTestService(memory.NewMatchRepository(), wiki, feed)

	_, err := svc.UpdateCompetition(context.Background(), "urc", "2003-2004", false)
	require.NoError(t, err)

	assert.Equal(t, 1, wiki.calls)
	assert.Equal(t, 0, feed.calls)
}

func TestUpdateCompetitionDryRunSkipsSave(t *testing.T) {
	t.Parallel()

	store := memory.NewMatchRepository()
	wiki := &fakeWiki{matches: []match.Match{playedMatch("2025-02-01T15:00:00", "Scotland", "Italy", 31, 19)}}
	svc := newTestService(store, wiki, &fakeFeed{})

	stats, err := svc.UpdateCompetition(context.Background(), "six-nations", "2025-2026", true)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.New)
	saved, err := store.Load(context.Background(), "six-nations-2025-2026")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestUpdateCompetitionEmptySeasonNotSaved(t *testing.T) {
	t.Parallel()

	store := memory.NewMatchRepository()
	svc := newTestService(store, &fakeWiki{}, &fakeFeed{})

	stats, err := svc.UpdateCompetition(context.Background(), "six-nations", "2025-2026", false)
	require.NoError(t, err)

	assert.Zero(t, stats.Total)
	saved, err := store.Load(context.Background(), "six-nations-2025-2026")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestUpdateCompetitionUnknownKey(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewMatchRepository(), &fakeWiki{}, &fakeFeed{})

	_, err := svc.UpdateCompetition(context.Background(), "shield", "2025-2026", false)
	assert.ErrorIs(t, err, ErrUnknownCompetition)
}

func TestUpdateCompetitionBadSeason(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewMatchRepository(), &fakeWiki{}, &fakeFeed{})

	_, err := svc.UpdateCompetition(context.Background(), "six-nations", "next year", false)
	assert.ErrorIs(t, err, ErrInvalidSeason)
}

func TestUpdateCompetitionSkipsNonWorldCupYear(t *testing.T) {
	t.Parallel()

	wiki := &fakeWiki{}
	svc := newTestService(memory.NewMatchRepository(), wiki, &fakeFeed{})

	_, err := svc.UpdateCompetition(context.Background(), "world-cup", "2024", false)
	assert.ErrorIs(t, err, ErrSeasonUnsupported)
	assert.Zero(t, wiki.calls)

	_, err = svc.UpdateCompetition(context.Background(), "world-cup", "2023", false)
	assert.NoError(t, err)
	assert.Equal(t, 1, wiki.calls)
}

func TestUpdateCompetitionSourceFailure(t *testing.T) {
	t.Parallel()

	wiki := &fakeWiki{err: errors.New("all candidate pages missing")}
	svc := newTestService(memory.NewMatchRepository(), wiki, &fakeFeed{})

	_, err := svc.UpdateCompetition(context.Background(), "six-nations", "2025-2026", false)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestUpdateCompetitionCollectsSourceProblems(t *testing.T) {
	t.Parallel()

	wiki := &fakeWiki{
		matches:  []match.Match{playedMatch("2025-02-01T15:00:00", "Scotland", "Italy", 31, 19)},
		problems: []string{`section "Round 3": match template has no resolvable team pair`},
	}
	svc := newTestService(memory.NewMatchRepository(), wiki, &fakeFeed{})

	stats, err := svc.UpdateCompetition(context.Background(), "six-nations", "2025-2026", false)
	require.NoError(t, err)

	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "Round 3")
}

func TestSeasonStartYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		season  string
		want    int
		wantErr bool
	}{
		{season: "2024-2025", want: 2024},
		{season: "2023", want: 2023},
		{season: " 1995 ", want: 1995},
		{season: "next", wantErr: true},
		{season: "", wantErr: true},
		{season: "1066", wantErr: true},
	}

	for _, tc := range tests {
		got, err := seasonStartYear(tc.season)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidSeason, tc.season)
			continue
		}
		require.NoError(t, err, tc.season)
		assert.Equal(t, tc.want, got, tc.season)
	}
}
