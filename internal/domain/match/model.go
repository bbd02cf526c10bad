package match

import "strings"

// Score event types shared by the wikitext and live-feed paths.
const (
	EventTry              = "Try"
	EventPenaltyTry       = "Penalty Try"
	EventConversion       = "Conversion"
	EventPenalty          = "Penalty"
	EventDropGoal         = "Drop goal"
	EventMissedConversion = "Missed conversion"
	EventMissedPenalty    = "Missed penalty"
	EventMissedDropGoal   = "Missed drop goal"
)

const (
	RoundTypeLeague   = "league"
	RoundTypeKnockout = "knockout"
)

// ScoreEvent is one scoring action inside a match, ordered by minute.
type ScoreEvent struct {
	Minute int    `json:"minute"`
	Type   string `json:"type"`
	Player string `json:"player"`
	Value  int    `json:"value"`
}

// PlayerRecord holds one player's participation minutes. On carries 0 for
// players in the starting lineup; substitutes get their entry minute instead.
type PlayerRecord struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	On       []int  `json:"on"`
	Off      []int  `json:"off"`
	Reds     []int  `json:"reds"`
	Yellows  []int  `json:"yellows"`
}

// Side is one team's half of a match record. Score stays nil until the match
// has been played. Lineup is keyed by jersey number as a string.
type Side struct {
	Team       string                  `json:"team" validate:"required"`
	Score      *int                    `json:"score"`
	Lineup     map[string]PlayerRecord `json:"lineup,omitempty"`
	Scores     []ScoreEvent            `json:"scores,omitempty"`
	Conference *string                 `json:"conference,omitempty"`
}

// Match is the canonical persisted unit shared by every ingestion path.
type Match struct {
	Date       string   `json:"date" validate:"required"`
	Home       Side     `json:"home"`
	Away       Side     `json:"away"`
	Stadium    string   `json:"stadium,omitempty"`
	Attendance *int     `json:"attendance,omitempty"`
	Referee    string   `json:"referee,omitempty"`
	Round      int      `json:"round,omitempty"`
	RoundType  string   `json:"round_type,omitempty"`
	Officials  []string `json:"officials,omitempty"`
}

// Key identifies a match for de-duplication: calendar day plus both team
// names. Within one store file no two records may share a key.
func (m Match) Key() string {
	day := m.Date
	if len(day) > 10 {
		day = day[:10]
	}
	return day + "|" + strings.TrimSpace(m.Home.Team) + "|" + strings.TrimSpace(m.Away.Team)
}

// Played reports whether both sides carry a recorded score.
func (m Match) Played() bool {
	return m.Home.Score != nil && m.Away.Score != nil
}
