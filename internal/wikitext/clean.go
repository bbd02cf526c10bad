package wikitext

import (
	"regexp"
	"strings"
)

var (
	ruCodeRe      = regexp.MustCompile(`\{\{[Rr]u(?:-rt)?\|([A-Z]{3})\}\}`)
	pipedLinkRe   = regexp.MustCompile(`\[\[([^\]|]+)\|([^\]]+)\]\]`)
	plainLinkRe   = regexp.MustCompile(`\[\[([^\]|]+)\]\]`)
	rutTemplateRe = regexp.MustCompile(`\{\{Rut\|([^}]+)\}\}`)
	flagiconRe    = regexp.MustCompile(`\{\{flagicon\|[^}]+\}\}\s*`)
	anyTemplateRe = regexp.MustCompile(`\{\{[^}]+\}\}`)
	anyLinkRe     = regexp.MustCompile(`\[\[[^\]]+\]\]`)
)

// CleanTeamName strips the wiki markup wrapped around team names. Wrappers
// are resolved in priority order: country-code templates first (World Cup
// pages), then wiki links, then the Rut/flagicon wrappers used by Super
// Rugby pages, then anything left over. The raw string survives untouched
// when no pattern applies.
func (p *Parser) CleanTeamName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	if m := ruCodeRe.FindStringSubmatch(raw); m != nil {
		if name, ok := p.cfg.CountryCodes[m[1]]; ok {
			return name
		}
		return m[1]
	}

	s := raw
	if m := pipedLinkRe.FindStringSubmatch(s); m != nil {
		s = m[2]
	}
	s = plainLinkRe.ReplaceAllString(s, "$1")
	if m := rutTemplateRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = flagiconRe.ReplaceAllString(s, "")
	s = anyTemplateRe.ReplaceAllString(s, "")
	s = anyLinkRe.ReplaceAllString(s, "")

	return strings.TrimSpace(s)
}
