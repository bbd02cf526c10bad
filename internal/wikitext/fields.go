package wikitext

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNoTeams is returned when a match template cannot be resolved to a home
// and an away team from any of the known parameter sets.
var ErrNoTeams = errors.New("wikitext: match template has no resolvable team pair")

var (
	teamSplitRe    = regexp.MustCompile(`\s+vs?\.?\s+`)
	dateRe         = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`)
	kickoffRe      = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	scorelineRe    = regexp.MustCompile(`(\d+)\s*[–—-]\s*(\d+)`)
	wikiLinkRe     = regexp.MustCompile(`\[\[(?:[^\]|]+\|)?([^\]|]+)\]\]`)
	tryTimeRe      = regexp.MustCompile(`(\d+)(?:\+(\d+))?['′]\s*([cm]?)`)
	kickTimeRe     = regexp.MustCompile(`(\d+)(?:\+(\d+))?['′]`)
	kickTallyRe    = regexp.MustCompile(`\((\d+)/(\d+)\)`)
	attendanceRe   = regexp.MustCompile(`([\d,]+)`)
	refereePageRe  = regexp.MustCompile(`\[\[([^\]|]+)`)
	lineBreakRe    = regexp.MustCompile(`<br\s*/?>`)
	htmlCommentRe  = regexp.MustCompile(`<!--.*?-->`)
	nbspRe         = regexp.MustCompile(`&nbsp;?`)
)

// ParseMatch extracts every scalar field and scoring-event list a rugbybox
// template carries. Lineups live outside the template and are handled
// separately by ParseLineups.
func (p *Parser) ParseMatch(rt RawTemplate) (ParsedMatch, error) {
	params := parseParams(rt.Template)

	var out ParsedMatch
	p.resolveTeams(&out, params, rt.Section)
	if out.HomeTeam == "" || out.AwayTeam == "" {
		return ParsedMatch{}, errors.Wrapf(ErrNoTeams, "section %q", rt.Section)
	}

	out.Date = p.parseDate(params["date"])
	out.Time = parseKickoff(params["time"])

	if m := scorelineRe.FindStringSubmatch(normalizeText(params["score"])); m != nil {
		out.HomeScore = intPtr(mustAtoi(m[1]))
		out.AwayScore = intPtr(mustAtoi(m[2]))
	}

	out.Venue = parseVenue(params["stadium"])
	out.Attendance = parseAttendance(params["attendance"])
	out.Referee = parseReferee(params["referee"])

	out.HomeTries = parseTries(params["try1"])
	out.AwayTries = parseTries(params["try2"])
	out.HomeConversions = parseKicks(params["con1"])
	out.AwayConversions = parseKicks(params["con2"])
	out.HomePenalties = parseKicks(params["pen1"])
	out.AwayPenalties = parseKicks(params["pen2"])
	out.HomeDropGoals = parseKicks(params["drop1"])
	out.AwayDropGoals = parseKicks(params["drop2"])

	return out, nil
}

// resolveTeams walks the team-pair sources in priority order: the id
// parameter, then the enclosing section label, then home/away, then
// team1/team2.
func (p *Parser) resolveTeams(out *ParsedMatch, params map[string]string, section string) {
	for _, source := range []string{params["id"], section} {
		if source == "" {
			continue
		}
		parts := teamSplitRe.Split(source, -1)
		if len(parts) != 2 {
			continue
		}
		home, away := p.CleanTeamName(parts[0]), p.CleanTeamName(parts[1])
		if home != "" && away != "" {
			out.HomeTeam, out.AwayTeam = home, away
			return
		}
	}
	for _, pair := range [][2]string{{"home", "away"}, {"team1", "team2"}} {
		h, a := params[pair[0]], params[pair[1]]
		if h == "" || a == "" {
			continue
		}
		home, away := p.CleanTeamName(h), p.CleanTeamName(a)
		if home != "" && away != "" {
			out.HomeTeam, out.AwayTeam = home, away
			return
		}
	}
}

// ParseDateText exposes date normalization for callers working outside a
// template, like the rendered-HTML fallback path.
func (p *Parser) ParseDateText(raw string) string {
	return p.parseDate(raw)
}

// parseDate turns "7 February 2026" style values into an ISO date. Values
// that name an unknown month or an impossible day yield an empty string so
// the caller can decide whether a dateless match is still worth keeping.
func (p *Parser) parseDate(raw string) string {
	m := dateRe.FindStringSubmatch(normalizeText(raw))
	if m == nil {
		return ""
	}
	month, ok := p.cfg.Months[strings.ToLower(m[2])]
	if !ok {
		return ""
	}
	day := mustAtoi(m[1])
	year := mustAtoi(m[3])
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month || t.Year() != year {
		return ""
	}
	return t.Format("2006-01-02")
}

func parseKickoff(raw string) string {
	m := kickoffRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1] + ":" + m[2]
}

func parseVenue(raw string) string {
	names := wikiLinkRe.FindAllStringSubmatch(normalizeText(raw), -1)
	if len(names) == 0 {
		return strings.TrimSpace(stripMarkup(raw))
	}
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, strings.TrimSpace(n[1]))
	}
	return strings.Join(parts, ", ")
}

func parseAttendance(raw string) *int {
	m := attendanceRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return intPtr(n)
}

func parseReferee(raw string) string {
	if m := refereePageRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(stripMarkup(raw))
}

// parseTries reads one try1/try2 parameter. Entries are <br>-separated, each
// naming a player link followed by one minute marker per try, with an
// optional trailing c (converted) or m (conversion missed).
func parseTries(raw string) []Try {
	raw = normalizeText(raw)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []Try
	for _, entry := range lineBreakRe.Split(raw, -1) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		loc := wikiLinkRe.FindStringSubmatchIndex(entry)
		if loc == nil {
			continue
		}
		player := strings.TrimSpace(entry[loc[2]:loc[3]])
		rest := entry[loc[1]:]
		for _, tm := range tryTimeRe.FindAllStringSubmatch(rest, -1) {
			out = append(out, Try{
				Player:    player,
				Minute:    mustAtoi(tm[1]),
				Extra:     atoiOrZero(tm[2]),
				Converted: tm[3] == "c",
				Missed:    tm[3] == "m",
			})
		}
	}
	return out
}

// parseKicks reads one con/pen/drop parameter: a kicker link, an optional
// (made/attempted) tally, and minute markers. Entries without minutes carry
// no event we can place on a timeline and are dropped.
func parseKicks(raw string) []Kick {
	raw = normalizeText(raw)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []Kick
	for _, entry := range lineBreakRe.Split(raw, -1) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		loc := wikiLinkRe.FindStringSubmatchIndex(entry)
		if loc == nil {
			continue
		}
		k := Kick{Player: strings.TrimSpace(entry[loc[2]:loc[3]])}
		if tm := kickTallyRe.FindStringSubmatch(entry); tm != nil {
			k.Made = intPtr(mustAtoi(tm[1]))
			k.Attempted = intPtr(mustAtoi(tm[2]))
		}
		for _, mm := range kickTimeRe.FindAllStringSubmatch(entry[loc[1]:], -1) {
			k.Minutes = append(k.Minutes, KickTime{
				Minute: mustAtoi(mm[1]),
				Extra:  atoiOrZero(mm[2]),
			})
		}
		if len(k.Minutes) == 0 {
			continue
		}
		out = append(out, k)
	}
	return out
}

// normalizeText removes the noise MediaWiki embeds inside parameter values:
// HTML comments, non-breaking spaces and stray carriage returns.
func normalizeText(s string) string {
	s = htmlCommentRe.ReplaceAllString(s, "")
	s = nbspRe.ReplaceAllString(s, " ")
	return strings.ReplaceAll(s, "\r", "")
}

func stripMarkup(s string) string {
	s = anyTemplateRe.ReplaceAllString(s, "")
	s = anyLinkRe.ReplaceAllString(s, "")
	return s
}

func intPtr(n int) *int { return &n }

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
