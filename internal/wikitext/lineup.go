package wikitext

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	tableRowRe    = regexp.MustCompile(`(?m)^\s*\|-`)
	cellSplitRe   = regexp.MustCompile(`\|\|`)
	roleLabelRe   = regexp.MustCompile(`'''\s*[A-Za-z\s]+:\s*'''`)
	boldSpanRe    = regexp.MustCompile(`'''[^']+'''`)
	linkedClubRe  = regexp.MustCompile(`\s*\(\[\[[^\]]+\]\]\)`)
	plainClubRe   = regexp.MustCompile(`\s*\([^)]*\)`)
	smallRosterRe = regexp.MustCompile(`(?s)<small>'''([^:]+):\s*'''(.*?)</small>`)
	cardEventRes  = map[string]*regexp.Regexp{
		LineupYellowCard: regexp.MustCompile(`\{\{yel\|(\d+)\}\}`),
		LineupRedCard:    regexp.MustCompile(`\{\{red\|(\d+)\}\}`),
		LineupSubOff:     regexp.MustCompile(`\{\{suboff\|(\d+)\}\}`),
		LineupSubOn:      regexp.MustCompile(`\{\{subon\|(\d+)\}\}`),
	}
)

// ParseLineups reads the trailing text of a match block and returns the home
// and away rosters. Modern pages lay lineups out as a pair of wiki tables;
// pre-2000 pages carry them as comma lists inside <small> tags. Either list
// may come back nil when the page has no roster for that side.
func (p *Parser) ParseLineups(trailing string) (home, away []LineupEntry) {
	if tables := lineupTables(trailing); len(tables) >= 2 {
		home = parseLineupTable(tables[0])
		away = parseLineupTable(tables[1])
		if len(home) > 0 && len(away) > 0 {
			return home, away
		}
	}

	home, away = nil, nil
	for _, m := range smallRosterRe.FindAllStringSubmatch(trailing, -1) {
		roster := parseLineupText(joinLinkLines(m[2]))
		if len(roster) == 0 {
			continue
		}
		if home == nil {
			home = roster
		} else if away == nil {
			away = roster
		}
	}
	return home, away
}

// lineupTables collects the innermost tables from a block of wikitext and
// keeps the ones that look like rosters, skipping kit diagrams and the outer
// layout table that usually wraps the pair. Splitting on every table opener
// means a nested roster table is captured on its own, without the layout
// table around it.
func lineupTables(text string) []string {
	parts := strings.Split(text, "{|")
	if len(parts) < 2 {
		return nil
	}
	var tables []string
	for _, part := range parts[1:] {
		end := strings.Index(part, "|}")
		if end < 0 {
			continue
		}
		candidate := "{|" + part[:end] + "|}"
		if looksLikeRoster(candidate) {
			tables = append(tables, candidate)
		}
	}
	return tables
}

var positionCellRe = regexp.MustCompile(`\|\s*[A-Z]{1,3}\s*\|\|\s*'*\d+'*\s*\|\|`)

func looksLikeRoster(table string) bool {
	if strings.Contains(table, "Football kit") {
		return false
	}
	if positionCellRe.MatchString(table) {
		return true
	}
	hasLink := wikiLinkRe.MatchString(table)
	if strings.Contains(table, "FB") && hasLink {
		return true
	}
	return strings.Count(table, "||") >= 10 && hasLink
}

// parseLineupTable reads one roster table. Rows are position || number ||
// player-link, with optional card and substitution templates in the cells
// after. Header, Replacements and Coach rows carry no player and are
// skipped.
func parseLineupTable(table string) []LineupEntry {
	var out []LineupEntry
	rows := tableRowRe.Split(table, -1)
	if len(rows) < 2 {
		return nil
	}
	for _, row := range rows[1:] {
		if strings.HasPrefix(strings.TrimSpace(row), "!") {
			continue
		}
		firstLine, _, _ := strings.Cut(row, "\n")
		if strings.Contains(row, "colspan") || strings.Contains(firstLine, "'''") {
			if strings.Contains(row, "Replacements") || strings.Contains(row, "Coach") {
				continue
			}
		}

		cells := cellSplitRe.Split(row, -1)
		if len(cells) < 3 {
			continue
		}

		position := strings.TrimSpace(strings.ReplaceAll(cells[0], "|", ""))
		if position == "" || strings.HasPrefix(position, "!") {
			continue
		}
		number, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(cells[1], "'''", "")))
		if err != nil {
			continue
		}
		playerCell := strings.TrimSpace(cells[2])
		pm := wikiLinkRe.FindStringSubmatch(playerCell)
		if pm == nil {
			continue
		}

		entry := LineupEntry{
			Position: position,
			Number:   number,
			Player:   strings.TrimSpace(pm[1]),
			Captain:  strings.Contains(playerCell, "(c)") || strings.Contains(playerCell, "([[Captain"),
		}
		for _, cell := range cells[3:] {
			for typ, re := range cardEventRes {
				for _, em := range re.FindAllStringSubmatch(cell, -1) {
					entry.Events = append(entry.Events, LineupEvent{Type: typ, Minute: mustAtoi(em[1])})
				}
			}
		}
		out = append(out, entry)
	}
	return out
}

// parseLineupText reads a comma-separated roster from a historical page.
// These rosters name no position or jersey number; captaincy is marked with
// a trailing capt annotation.
func parseLineupText(text string) []LineupEntry {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	text = roleLabelRe.ReplaceAllString(text, "")

	var out []LineupEntry
	for _, part := range splitOutsideLinks(text, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		captain := strings.Contains(strings.ToLower(part), "capt")

		part = linkedClubRe.ReplaceAllString(part, "")
		part = plainClubRe.ReplaceAllString(part, "")

		var name string
		if m := wikiLinkRe.FindStringSubmatch(part); m != nil {
			name = strings.Join(strings.Fields(m[1]), " ")
		} else {
			name = strings.TrimSpace(boldSpanRe.ReplaceAllString(part, ""))
		}
		if len(name) < 2 {
			continue
		}
		out = append(out, LineupEntry{Player: name, Captain: captain})
	}
	return out
}

// splitOutsideLinks splits on sep, treating [[...]] spans as atomic so that
// piped links keep their commas.
func splitOutsideLinks(text string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(text); {
		if i+1 < len(text) && text[i] == '[' && text[i+1] == '[' {
			end := strings.Index(text[i:], "]]")
			if end < 0 {
				cur.WriteString(text[i:])
				break
			}
			cur.WriteString(text[i : i+end+2])
			i += end + 2
			continue
		}
		if text[i] == sep {
			parts = append(parts, cur.String())
			cur.Reset()
			i++
			continue
		}
		cur.WriteByte(text[i])
		i++
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// joinLinkLines replaces newlines that fall inside [[...]] spans with
// spaces, so link regexes match rosters that wrap mid-link.
func joinLinkLines(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if i+1 < len(text) && text[i] == '[' && text[i+1] == '[' {
			end := strings.Index(text[i:], "]]")
			if end < 0 {
				b.WriteString(text[i:])
				break
			}
			span := text[i : i+end+2]
			span = strings.ReplaceAll(span, "\n", " ")
			span = strings.ReplaceAll(span, "\r", " ")
			b.WriteString(span)
			i += end + 2
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}
