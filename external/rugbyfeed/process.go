package rugbyfeed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"rugbydata/internal/domain/match"
)

// Statuses the feed uses for a finished match. Anything unrecognized is
// treated as not yet completed and keeps the score null.
var completedStatuses = map[string]bool{
	"complete":  true,
	"completed": true,
	"finished":  true,
	"result":    true,
	"fulltime":  true,
	"ft":        true,
	"played":    true,
}

// Point values per event type; missed attempts appear in the feed with a
// zero value.
var scoringValues = map[string]int{
	match.EventTry:              5,
	match.EventPenaltyTry:       5,
	match.EventPenalty:          3,
	match.EventConversion:       2,
	match.EventDropGoal:         3,
	match.EventMissedDropGoal:   0,
	match.EventMissedPenalty:    0,
	match.EventMissedConversion: 0,
}

const starterMaxPosition = 15

// CanonicalMatch shapes one feed summary into the canonical schema. Lineups
// and event timelines come from the detail endpoint, fetched only for
// matches kicking off within the detail horizon; a detail fetch failure
// degrades to a summary-only record rather than failing the match.
func (c *Client) CanonicalMatch(ctx context.Context, s Summary, startYear int, provider string) (match.Match, error) {
	kickoff, err := time.Parse(feedTimeLayout, s.Date)
	if err != nil {
		return match.Match{}, crerr.Wrapf(err, "match id=%d has unparseable date %q", s.ID, s.Date)
	}

	home := match.Side{
		Team:       s.HomeTeam.Name,
		Conference: s.HomeTeam.Group,
		Lineup:     map[string]match.PlayerRecord{},
		Scores:     []match.ScoreEvent{},
	}
	away := match.Side{
		Team:       s.AwayTeam.Name,
		Conference: s.AwayTeam.Group,
		Lineup:     map[string]match.PlayerRecord{},
		Scores:     []match.ScoreEvent{},
	}

	if completedStatuses[strings.ToLower(s.Status)] {
		home.Score = s.HomeTeam.Score
		away.Score = s.AwayTeam.Score
	}

	if !kickoff.After(c.now().UTC().Add(detailHorizon)) {
		detail, err := c.MatchDetail(ctx, s.ID, startYear, provider)
		if err != nil {
			c.logger.WarnContext(ctx, "match detail unavailable", "match_id", s.ID, "error", err)
		} else {
			applyDetail(detail, &home, &away)
		}
	}

	roundType := match.RoundTypeKnockout
	if s.RoundTypeID == 1 {
		roundType = match.RoundTypeLeague
	}

	return match.Match{
		Date:       s.Date,
		Home:       home,
		Away:       away,
		Stadium:    s.Venue.Name,
		Attendance: s.Attendance,
		Round:      s.Round,
		RoundType:  roundType,
		Officials:  s.Officials,
	}, nil
}

// applyDetail folds the detail payload into both sides: rosters keyed by
// position id, then events distributed by team and player.
func applyDetail(d Detail, home, away *match.Side) {
	if len(d.HomeTeam.Players) == 0 || len(d.AwayTeam.Players) == 0 {
		return
	}

	total := len(d.HomeTeam.Players) + len(d.AwayTeam.Players)
	playerNames := make(map[int64]string, total)
	playerPositions := make(map[int64]int, total)

	addRoster := func(side *match.Side, players []feedPlayer) {
		for _, p := range players {
			playerNames[p.ID] = p.Name
			playerPositions[p.ID] = p.PositionID
			on := []int{}
			if p.PositionID <= starterMaxPosition {
				on = []int{0}
			}
			side.Lineup[strconv.Itoa(p.PositionID)] = match.PlayerRecord{
				Name:    p.Name,
				On:      on,
				Off:     []int{},
				Reds:    []int{},
				Yellows: []int{},
			}
		}
	}
	addRoster(home, d.HomeTeam.Players)
	addRoster(away, d.AwayTeam.Players)

	appendMinute := func(side *match.Side, playerID int64, pick func(*match.PlayerRecord) *[]int, minute int) {
		pos, ok := playerPositions[playerID]
		if !ok {
			return
		}
		rec, ok := side.Lineup[strconv.Itoa(pos)]
		if !ok {
			return
		}
		*pick(&rec) = append(*pick(&rec), minute)
		side.Lineup[strconv.Itoa(pos)] = rec
	}

	for _, ev := range d.Events {
		if ev.TeamID == 0 {
			continue
		}
		side := away
		if ev.TeamID == d.HomeTeam.ID {
			side = home
		}

		if value, ok := scoringValues[ev.Type]; ok {
			side.Scores = append(side.Scores, match.ScoreEvent{
				Minute: ev.Minute,
				Type:   ev.Type,
				Player: playerNames[ev.PlayerID],
				Value:  value,
			})
			continue
		}

		switch ev.Type {
		case "Sub On":
			appendMinute(side, ev.PlayerID, func(r *match.PlayerRecord) *[]int { return &r.On }, ev.Minute)
		case "Sub Off":
			appendMinute(side, ev.PlayerID, func(r *match.PlayerRecord) *[]int { return &r.Off }, ev.Minute)
		case "Yellow card":
			appendMinute(side, ev.PlayerID, func(r *match.PlayerRecord) *[]int { return &r.Yellows }, ev.Minute)
		case "Red card":
			appendMinute(side, ev.PlayerID, func(r *match.PlayerRecord) *[]int { return &r.Reds }, ev.Minute)
		}
	}
}

// Season fetches every summary for one competition season and shapes each
// into the canonical schema. A single bad match is reported, not fatal: it
// lands in the returned problem list and the rest of the season proceeds.
func (c *Client) Season(ctx context.Context, compID int, startYear int, provider string) ([]match.Match, []string, error) {
	summaries, err := c.Matches(ctx, compID, startYear, provider)
	if err != nil {
		return nil, nil, err
	}

	matches := make([]match.Match, 0, len(summaries))
	var problems []string
	for _, s := range summaries {
		m, err := c.CanonicalMatch(ctx, s, startYear, provider)
		if err != nil {
			problems = append(problems, fmt.Sprintf("match id=%d: %v", s.ID, err))
			continue
		}
		matches = append(matches, m)
	}
	return matches, problems, nil
}
