// Package wikitext extracts rugby match records from raw MediaWiki markup.
//
// Wikipedia encodes one match as a "rugbybox" template followed, on most
// modern pages, by lineup tables. Page structure drifted several times since
// 1987, so section location runs as an ordered cascade of strategies and the
// lineup parser carries both a table strategy and a free-text strategy.
package wikitext

import (
	"time"

	"rugbydata/internal/platform/logging"
)

// RawTemplate is one located match template together with the label of the
// heading it was found under and the markup trailing it (lineups live there).
// It only exists for the duration of one extraction pass.
type RawTemplate struct {
	Section  string
	Template string
	Trailing string
}

// ParsedMatch is the normalized form of one rugbybox template.
type ParsedMatch struct {
	HomeTeam   string
	AwayTeam   string
	Date       string // ISO yyyy-mm-dd, empty when unparseable
	Time       string // HH:MM, optional
	HomeScore  *int
	AwayScore  *int
	Venue      string
	Attendance *int
	Referee    string

	HomeTries       []Try
	AwayTries       []Try
	HomeConversions []Kick
	AwayConversions []Kick
	HomePenalties   []Kick
	AwayPenalties   []Kick
	HomeDropGoals   []Kick
	AwayDropGoals   []Kick
}

// Try is a single try with its minute. Extra carries injury-time offsets
// ("45+2'" gives Minute 45, Extra 2).
type Try struct {
	Player    string
	Minute    int
	Extra     int
	Converted bool
	Missed    bool
}

// Kick covers conversions, penalties and drop goals: one kicker, an optional
// made/attempted fraction and the minutes of each successful kick.
type Kick struct {
	Player    string
	Made      *int
	Attempted *int
	Minutes   []KickTime
}

type KickTime struct {
	Minute int
	Extra  int
}

// LineupEvent types.
const (
	LineupSubOn      = "substitution_on"
	LineupSubOff     = "substitution_off"
	LineupYellowCard = "yellow_card"
	LineupRedCard    = "red_card"
)

type LineupEvent struct {
	Type   string
	Minute int
}

// LineupEntry is one player row. Position and Number stay zero-valued for
// eras where rosters were recorded as free text.
type LineupEntry struct {
	Position string
	Number   int
	Player   string
	Captain  bool
	Events   []LineupEvent
}

// Config holds the lookup tables the parser depends on. They are passed in
// explicitly so tests can shrink or extend them without touching globals.
type Config struct {
	// CountryCodes resolves {{ru|CODE}} three-letter codes to team names.
	CountryCodes map[string]string
	// Months maps lowercase English month names to their number.
	Months map[string]time.Month
	// Scoring assigns point values per score event type.
	Scoring map[string]int
	// FlatSectionMinMatches guards the flat-results strategy against short
	// summary sections that happen to contain a couple of rugbyboxes.
	FlatSectionMinMatches int
}

func DefaultConfig() Config {
	return Config{
		CountryCodes:          defaultCountryCodes(),
		Months:                defaultMonths(),
		Scoring:               defaultScoring(),
		FlatSectionMinMatches: 5,
	}
}

// Parser turns wikitext documents into canonical matches.
type Parser struct {
	cfg Config
	log *logging.Logger
}

func NewParser(cfg Config, log *logging.Logger) *Parser {
	if cfg.CountryCodes == nil {
		cfg.CountryCodes = defaultCountryCodes()
	}
	if cfg.Months == nil {
		cfg.Months = defaultMonths()
	}
	if cfg.Scoring == nil {
		cfg.Scoring = defaultScoring()
	}
	if cfg.FlatSectionMinMatches <= 0 {
		cfg.FlatSectionMinMatches = 5
	}
	if log == nil {
		log = logging.Default()
	}
	return &Parser{cfg: cfg, log: log}
}

func defaultMonths() map[string]time.Month {
	return map[string]time.Month{
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June,
		"july": time.July, "august": time.August, "september": time.September,
		"october": time.October, "november": time.November, "december": time.December,
	}
}

func defaultScoring() map[string]int {
	return map[string]int{
		"Try":               5,
		"Penalty Try":       5,
		"Penalty":           3,
		"Conversion":        2,
		"Drop goal":         3,
		"Missed drop goal":  0,
		"Missed penalty":    0,
		"Missed conversion": 0,
	}
}

func defaultCountryCodes() map[string]string {
	return map[string]string{
		"ARG": "Argentina", "AUS": "Australia", "ENG": "England", "FIJ": "Fiji",
		"FRA": "France", "GEO": "Georgia", "IRE": "Ireland", "ITA": "Italy",
		"JPN": "Japan", "NAM": "Namibia", "NZL": "New Zealand", "ROM": "Romania",
		"RSA": "South Africa", "SAM": "Samoa", "SCO": "Scotland", "TON": "Tonga",
		"URU": "Uruguay", "USA": "United States", "WAL": "Wales",
		"CAN": "Canada", "CHI": "Chile", "CIV": "Ivory Coast", "ESP": "Spain",
		"HKG": "Hong Kong", "KOR": "South Korea", "NED": "Netherlands",
		"POR": "Portugal", "RUS": "Russia", "ZIM": "Zimbabwe",
	}
}
