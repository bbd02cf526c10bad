package rugbyfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rugbydata/internal/platform/fetch"
	"rugbydata/internal/platform/logging"
)

const matchesPayload = `{"data":[
  {"id":101,"date":"2025-03-08T14:00:00.000Z","status":"result","round":3,"roundTypeId":1,
   "attendance":18000,
   "homeTeam":{"id":1,"name":"Leinster","score":28,"group":"A"},
   "awayTeam":{"id":2,"name":"Munster","score":17},
   "venue":{"name":"Aviva Stadium"},
   "officials":["A Referee","B Touch"]},
  {"id":102,"date":"2099-05-01T14:00:00.000Z","status":"scheduled","round":4,"roundTypeId":2,
   "homeTeam":{"id":1,"name":"Leinster"},
   "awayTeam":{"id":3,"name":"Ulster"},
   "venue":{"name":"RDS Arena"}}
]}`

const detailPayload = `{"data":{
  "homeTeam":{"id":1,"players":[
    {"id":11,"name":"Hugo Keenan","positionId":15},
    {"id":12,"name":"Ross Byrne","positionId":10},
    {"id":13,"name":"Cian Healy","positionId":17}
  ]},
  "awayTeam":{"id":2,"players":[
    {"id":21,"name":"Simon Zebo","positionId":15},
    {"id":22,"name":"Jack Crowley","positionId":10}
  ]},
  "events":[
    {"type":"Try","minute":12,"playerId":11,"teamId":1},
    {"type":"Conversion","minute":13,"playerId":12,"teamId":1},
    {"type":"Penalty","minute":25,"playerId":22,"teamId":2},
    {"type":"Sub On","minute":55,"playerId":13,"teamId":1},
    {"type":"Sub Off","minute":55,"playerId":11,"teamId":1},
    {"type":"Yellow card","minute":60,"playerId":21,"teamId":2},
    {"type":"Missed penalty","minute":70,"playerId":22,"teamId":2}
  ]
}}`

func newFeedClient(srv *httptest.Server, now time.Time) *Client {
	return NewClient(ClientConfig{
		Fetcher: fetch.NewClient(fetch.ClientConfig{
			HTTPClient: srv.Client(),
			MaxRetries: -1,
			BaseDelay:  time.Millisecond,
			Logger:     logging.NewNop(),
		}),
		BaseURL: srv.URL,
		Logger:  logging.NewNop(),
		Now:     func() time.Time { return now },
	})
}

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/matches":
			assert.Equal(t, "1068", r.URL.Query().Get("compId"))
			assert.Equal(t, "202401", r.URL.Query().Get("season"))
			assert.Equal(t, "rugbyviz", r.URL.Query().Get("provider"))
			_, _ = w.Write([]byte(matchesPayload))
		case "/matches/101":
			_, _ = w.Write([]byte(detailPayload))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestMatches(t *testing.T) {
	t.Parallel()

	srv := feedServer(t)
	defer srv.Close()

	matches, err := newFeedClient(srv, time.Now()).Matches(context.Background(), 1068, 2024, "rugbyviz")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, int64(101), matches[0].ID)
	assert.Equal(t, "Leinster", matches[0].HomeTeam.Name)
	require.NotNil(t, matches[0].HomeTeam.Score)
	assert.Equal(t, 28, *matches[0].HomeTeam.Score)
}

func TestCanonicalMatchWithDetail(t *testing.T) {
	t.Parallel()

	srv := feedServer(t)
	defer srv.Close()

	now := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	c := newFeedClient(srv, now)

	summaries, err := c.Matches(context.Background(), 1068, 2024, "rugbyviz")
	require.NoError(t, err)

	m, err := c.CanonicalMatch(context.Background(), summaries[0], 2024, "rugbyviz")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-08T14:00:00.000Z", m.Date)
	assert.Equal(t, "Leinster", m.Home.Team)
	require.NotNil(t, m.Home.Score)
	assert.Equal(t, 28, *m.Home.Score)
	require.NotNil(t, m.Home.Conference)
	assert.Equal(t, "A", *m.Home.Conference)
	assert.Nil(t, m.Away.Conference)
	assert.Equal(t, "Aviva Stadium", m.Stadium)
	assert.Equal(t, 3, m.Round)
	assert.Equal(t, "league", m.RoundType)
	assert.Equal(t, []string{"A Referee", "B Touch"}, m.Officials)

	keenan := m.Home.Lineup["15"]
	assert.Equal(t, "Hugo Keenan", keenan.Name)
	assert.Equal(t, []int{0}, keenan.On)
	assert.Equal(t, []int{55}, keenan.Off)

	healy := m.Home.Lineup["17"]
	assert.Equal(t, []int{55}, healy.On)

	zebo := m.Away.Lineup["15"]
	assert.Equal(t, []int{60}, zebo.Yellows)

	require.Len(t, m.Home.Scores, 2)
	assert.Equal(t, "Try", m.Home.Scores[0].Type)
	assert.Equal(t, 5, m.Home.Scores[0].Value)
	assert.Equal(t, "Hugo Keenan", m.Home.Scores[0].Player)
	assert.Equal(t, "Conversion", m.Home.Scores[1].Type)

	require.Len(t, m.Away.Scores, 2)
	assert.Equal(t, "Penalty", m.Away.Scores[0].Type)
	assert.Equal(t, 3, m.Away.Scores[0].Value)
	assert.Equal(t, "Missed penalty", m.Away.Scores[1].Type)
	assert.Equal(t, 0, m.Away.Scores[1].Value)
}

// A match outside the detail horizon gets no detail call; the 404 the server
// would return for its id proves the endpoint is never hit.
func TestCanonicalMatchSkipsDetailForFutureMatch(t *testing.T) {
	t.Parallel()

	srv := feedServer(t)
	defer srv.Close()

	now := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	c := newFeedClient(srv, now)

	summaries, err := c.Matches(context.Background(), 1068, 2024, "rugbyviz")
	require.NoError(t, err)

	m, err := c.CanonicalMatch(context.Background(), summaries[1], 2024, "rugbyviz")
	require.NoError(t, err)

	assert.Nil(t, m.Home.Score)
	assert.Empty(t, m.Home.Lineup)
	assert.Empty(t, m.Home.Scores)
	assert.Equal(t, "knockout", m.RoundType)
}

func TestCanonicalMatchDetailFailureDegrades(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newFeedClient(srv, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC))
	m, err := c.CanonicalMatch(context.Background(), Summary{
		ID:     5,
		Date:   "2025-03-08T14:00:00.000Z",
		Status: "FT",
		HomeTeam: feedTeam{Name: "Glasgow Warriors", Score: intp(20)},
		AwayTeam: feedTeam{Name: "Edinburgh", Score: intp(13)},
	}, 2024, "rugbyviz")
	require.NoError(t, err)
	require.NotNil(t, m.Home.Score)
	assert.Equal(t, 20, *m.Home.Score)
	assert.Empty(t, m.Home.Lineup)
}

func TestSeason(t *testing.T) {
	t.Parallel()

	srv := feedServer(t)
	defer srv.Close()

	c := newFeedClient(srv, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	matches, problems, err := c.Season(context.Background(), 1068, 2024, "rugbyviz")
	require.NoError(t, err)

	assert.Empty(t, problems)
	require.Len(t, matches, 2)
	assert.Equal(t, "Leinster", matches[0].Home.Team)
	assert.Equal(t, "Ulster", matches[1].Away.Team)
}

func TestSeasonReportsBadMatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
		  {"id":7,"date":"not a date","status":"result",
		   "homeTeam":{"id":1,"name":"Leinster"},
		   "awayTeam":{"id":2,"name":"Munster"}},
		  {"id":8,"date":"2099-05-01T14:00:00.000Z","status":"scheduled",
		   "homeTeam":{"id":1,"name":"Leinster"},
		   "awayTeam":{"id":3,"name":"Ulster"}}
		]}`))
	}))
	defer srv.Close()

	c := newFeedClient(srv, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	matches, problems, err := c.Season(context.Background(), 1068, 2024, "rugbyviz")
	require.NoError(t, err)

	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "id=7")
	require.Len(t, matches, 1)
	assert.Equal(t, "Ulster", matches[0].Away.Team)
}

func TestCanonicalMatchBadDate(t *testing.T) {
	t.Parallel()

	c := NewClient(ClientConfig{Logger: logging.NewNop()})
	_, err := c.CanonicalMatch(context.Background(), Summary{ID: 1, Date: "08/03/2025"}, 2024, "rugbyviz")
	require.Error(t, err)
}

func intp(n int) *int { return &n }
