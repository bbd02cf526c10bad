package wikitext

import (
	"sort"
	"strconv"

	"rugbydata/internal/domain/match"
)

// Assemble maps a parsed template and its rosters into the canonical match
// schema shared with the live-feed path. Conversions do not carry their own
// timeline on the page; they are synthesized one minute after the try whose
// marker recorded them.
func (p *Parser) Assemble(pm ParsedMatch, homeLineup, awayLineup []LineupEntry) match.Match {
	m := match.Match{
		Date: pm.Date,
		Home: match.Side{Team: pm.HomeTeam, Score: pm.HomeScore},
		Away: match.Side{Team: pm.AwayTeam, Score: pm.AwayScore},
	}
	if pm.Date != "" && pm.Time != "" {
		m.Date = pm.Date + "T" + pm.Time + ":00"
	}
	m.Stadium = pm.Venue
	m.Attendance = pm.Attendance
	m.Referee = pm.Referee

	m.Home.Scores = p.scoreEvents(pm.HomeTries, pm.HomePenalties, pm.HomeDropGoals)
	m.Away.Scores = p.scoreEvents(pm.AwayTries, pm.AwayPenalties, pm.AwayDropGoals)

	if len(homeLineup) > 0 {
		m.Home.Lineup = lineupMap(homeLineup)
	}
	if len(awayLineup) > 0 {
		m.Away.Lineup = lineupMap(awayLineup)
	}
	return m
}

// scoreEvents flattens one side's scoring into the canonical timeline. Tries
// come first, then penalties, then drop goals; the stable sort keeps a
// synthesized conversion right behind its try when minutes collide.
func (p *Parser) scoreEvents(tries []Try, penalties, dropGoals []Kick) []match.ScoreEvent {
	var out []match.ScoreEvent
	for _, t := range tries {
		out = append(out, match.ScoreEvent{
			Minute: t.Minute,
			Type:   match.EventTry,
			Player: t.Player,
			Value:  p.cfg.Scoring[match.EventTry],
		})
		switch {
		case t.Converted:
			out = append(out, match.ScoreEvent{
				Minute: t.Minute + 1,
				Type:   match.EventConversion,
				Player: t.Player,
				Value:  p.cfg.Scoring[match.EventConversion],
			})
		case t.Missed:
			out = append(out, match.ScoreEvent{
				Minute: t.Minute + 1,
				Type:   match.EventMissedConversion,
				Player: t.Player,
				Value:  p.cfg.Scoring[match.EventMissedConversion],
			})
		}
	}
	out = append(out, p.kickEvents(penalties, match.EventPenalty)...)
	out = append(out, p.kickEvents(dropGoals, match.EventDropGoal)...)
	if len(out) == 0 {
		return nil
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Minute < out[j].Minute })
	return out
}

func (p *Parser) kickEvents(kicks []Kick, typ string) []match.ScoreEvent {
	var out []match.ScoreEvent
	for _, k := range kicks {
		for _, t := range k.Minutes {
			out = append(out, match.ScoreEvent{
				Minute: t.Minute,
				Type:   typ,
				Player: k.Player,
				Value:  p.cfg.Scoring[typ],
			})
		}
	}
	return out
}

// lineupMap keys a roster by jersey number. Every player starts with on=[0]
// until a substitution-on event says otherwise; historical rosters carry no
// numbers, so their entries all land on "0".
func lineupMap(entries []LineupEntry) map[string]match.PlayerRecord {
	out := make(map[string]match.PlayerRecord, len(entries))
	for _, e := range entries {
		rec := match.PlayerRecord{
			Name:     e.Player,
			Position: e.Position,
			On:       []int{0},
			Off:      []int{},
			Reds:     []int{},
			Yellows:  []int{},
		}
		for _, ev := range e.Events {
			switch ev.Type {
			case LineupSubOn:
				if ev.Minute > 0 {
					rec.On = []int{ev.Minute}
				}
			case LineupSubOff:
				rec.Off = append(rec.Off, ev.Minute)
			case LineupYellowCard:
				rec.Yellows = append(rec.Yellows, ev.Minute)
			case LineupRedCard:
				rec.Reds = append(rec.Reds, ev.Minute)
			}
		}
		out[strconv.Itoa(e.Number)] = rec
	}
	return out
}
