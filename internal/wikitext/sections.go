package wikitext

import (
	"fmt"
	"regexp"
	"strings"
)

// Section heading vocabularies, in the order eras introduced them.
var (
	matchesSectionNames = []string{"Matches", "The matches"}
	resultsSectionNames = []string{"Results", "Fixtures", "Matches", "Regular season", "International matches"}

	level3HeadingRe = regexp.MustCompile(`(?m)^[ \t]*===([^=\n][^\n]*?)===[ \t]*$`)
	level2HeadingRe = regexp.MustCompile(`(?m)^==([^=\n][^\n]*?)==[ \t]*$`)

	roundLabelRe       = regexp.MustCompile(`(?i)^(?:round|week)\s*\d+$|^(?i:rescheduled match)$`)
	finalsLabelRe      = regexp.MustCompile(`(?i)^(?:qualifiers?|semi-?finals?|grand final|final)$`)
	level2FinalsRe     = regexp.MustCompile(`(?i)^(?:qualifiers|semi-finals?|finals?|promotion/relegation)[\w\s]*$`)
	level2RoundLabelRe = regexp.MustCompile(`(?i)^(?:round|week)\s*\d+$`)
)

type extractionStrategy struct {
	name   string
	run    func(doc string) []RawTemplate
	accept func(found []RawTemplate) bool
}

func acceptNonEmpty(found []RawTemplate) bool { return len(found) > 0 }

func (p *Parser) strategies() []extractionStrategy {
	return []extractionStrategy{
		{name: "matches-subheadings", run: p.locateMatchesSubheadings, accept: acceptNonEmpty},
		{name: "results-round-subheadings", run: p.locateResultsRounds, accept: acceptNonEmpty},
		{name: "flat-results-section", run: p.locateFlatResults, accept: acceptNonEmpty},
		{name: "level2-round-headings", run: p.locateLevel2Rounds, accept: acceptNonEmpty},
		{name: "level2-finals-headings", run: p.locateLevel2Finals, accept: acceptNonEmpty},
		{name: "document-scan", run: p.locateAnywhere, accept: acceptNonEmpty},
	}
}

// Locate runs the section-location cascade and returns the match templates
// of the first strategy whose result passes its acceptance predicate.
func (p *Parser) Locate(doc string) []RawTemplate {
	for _, strat := range p.strategies() {
		found := strat.run(doc)
		if strat.accept(found) {
			p.log.Debug("section strategy accepted", "strategy", strat.name, "templates", len(found))
			return found
		}
	}
	return nil
}

// Strategy 1: modern pages keep one level-3 heading per match under a
// top-level "Matches" section.
func (p *Parser) locateMatchesSubheadings(doc string) []RawTemplate {
	for _, name := range matchesSectionNames {
		body, ok := sectionBody(doc, name)
		if !ok {
			continue
		}
		var out []RawTemplate
		for _, sub := range splitSubsections(body, level3HeadingRe) {
			out = append(out, sectionTemplates(sub.label, sub.body)...)
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// Strategy 2: mid-era pages group matches as "Round N"/"Week N" level-3
// headings under a "Results"-family section. A "Regular season" section may
// be followed by a sibling "Finals" bracket whose sub-sections are appended.
func (p *Parser) locateResultsRounds(doc string) []RawTemplate {
	for _, name := range resultsSectionNames {
		body, ok := sectionBody(doc, name)
		if !ok {
			continue
		}

		var out []RawTemplate
		for _, sub := range splitSubsections(body, level3HeadingRe) {
			if !roundLabelRe.MatchString(sub.label) {
				continue
			}
			out = append(out, sectionTemplates(sub.label, sub.body)...)
		}
		if len(out) == 0 {
			continue
		}

		if name == "Regular season" {
			if finalsBody, ok := sectionBody(doc, "Finals"); ok {
				for _, sub := range splitSubsections(finalsBody, level3HeadingRe) {
					if !finalsLabelRe.MatchString(sub.label) {
						continue
					}
					out = append(out, sectionTemplates(sub.label, sub.body)...)
				}
			}
		}
		return out
	}
	return nil
}

// Strategy 3: a qualifying section with no sub-headings and rugbyboxes
// directly inside. The yield threshold keeps a short "Results" summary blurb
// from shadowing the real results further down the page.
func (p *Parser) locateFlatResults(doc string) []RawTemplate {
	for _, name := range resultsSectionNames {
		body, ok := sectionBody(doc, name)
		if !ok {
			continue
		}
		out := sectionTemplates(name, body)
		if len(out) > p.cfg.FlatSectionMinMatches {
			return out
		}
		if len(out) > 0 && !strings.Contains(name, "Results") {
			return out
		}
	}
	return nil
}

// Strategy 4: some Super Rugby years put "Round N" directly at level 2 with
// no enclosing results section.
func (p *Parser) locateLevel2Rounds(doc string) []RawTemplate {
	var out []RawTemplate
	for _, sub := range splitSubsections(doc, level2HeadingRe) {
		if !level2RoundLabelRe.MatchString(sub.label) {
			continue
		}
		out = append(out, sectionTemplates(sub.label, sub.body)...)
	}
	return out
}

// Strategy 5: knockout-only pages with level-2 finals headings.
func (p *Parser) locateLevel2Finals(doc string) []RawTemplate {
	var out []RawTemplate
	for _, sub := range splitSubsections(doc, level2HeadingRe) {
		if !level2FinalsRe.MatchString(sub.label) {
			continue
		}
		out = append(out, sectionTemplates(sub.label, sub.body)...)
	}
	return out
}

// Strategy 6, last resort: scan the whole document for match-template
// openers, bounding each template's trailing text at the next opener or the
// next document-level heading.
func (p *Parser) locateAnywhere(doc string) []RawTemplate {
	starts := matchTemplateStarts(doc)
	var out []RawTemplate
	for i, start := range starts {
		end, ok := templateSpan(doc, start)
		if !ok {
			continue
		}
		trailingEnd := len(doc)
		if i+1 < len(starts) && starts[i+1] > end {
			trailingEnd = starts[i+1]
		}
		if next := strings.Index(doc[end:], "\n=="); next != -1 && end+next < trailingEnd {
			trailingEnd = end + next
		}
		out = append(out, RawTemplate{
			Section:  fmt.Sprintf("Match %d", len(out)+1),
			Template: doc[start:end],
			Trailing: doc[end:trailingEnd],
		})
	}
	return out
}

type subsection struct {
	label string
	body  string
}

// splitSubsections finds every heading matched by headingRe and pairs it with
// the content up to the next heading of the same or a higher level.
func splitSubsections(text string, headingRe *regexp.Regexp) []subsection {
	locs := headingRe.FindAllStringSubmatchIndex(text, -1)
	out := make([]subsection, 0, len(locs))
	for i, loc := range locs {
		label := strings.TrimSpace(text[loc[2]:loc[3]])
		bodyStart := loc[1]
		bodyEnd := len(text)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}
		if headingRe != level2HeadingRe {
			// A higher-level heading also terminates the subsection.
			if l2 := level2HeadingRe.FindStringIndex(text[bodyStart:bodyEnd]); l2 != nil {
				bodyEnd = bodyStart + l2[0]
			}
		}
		out = append(out, subsection{label: label, body: text[bodyStart:bodyEnd]})
	}
	return out
}

// sectionBody locates a level-2 section by name, tolerating the spacing
// variants encountered in the wild, and returns its content up to the next
// level-2 heading.
func sectionBody(doc, name string) (string, bool) {
	start := -1
	for _, pattern := range []string{"== " + name + " ==", "==" + name + "==", "== " + name + "=="} {
		if idx := strings.Index(doc, pattern); idx != -1 {
			start = idx
			break
		}
	}
	if start == -1 {
		return "", false
	}

	bodyStart := start
	if nl := strings.IndexByte(doc[start:], '\n'); nl != -1 {
		bodyStart = start + nl + 1
	} else {
		return "", false
	}

	bodyEnd := len(doc)
	if l2 := level2HeadingRe.FindStringIndex(doc[bodyStart:]); l2 != nil {
		bodyEnd = bodyStart + l2[0]
	}
	return doc[bodyStart:bodyEnd], true
}

// sectionTemplates extracts every balanced match template inside one section
// body. The text between a template and the next one (or the section end) is
// kept as trailing context, because lineup markup follows the template.
func sectionTemplates(label, body string) []RawTemplate {
	type span struct {
		start, end int
	}
	var boxes []span

	pos := 0
	for {
		open := strings.Index(body[pos:], "{{")
		if open == -1 {
			break
		}
		open += pos
		end, ok := templateSpan(body, open)
		if !ok {
			break
		}
		if isMatchTemplate(body[open:end]) {
			boxes = append(boxes, span{start: open, end: end})
		}
		pos = end
	}

	out := make([]RawTemplate, 0, len(boxes))
	for i, b := range boxes {
		trailingEnd := len(body)
		if i+1 < len(boxes) {
			trailingEnd = boxes[i+1].start
		}
		section := label
		if len(boxes) > 1 {
			section = fmt.Sprintf("%s - Match %d", label, i+1)
		}
		out = append(out, RawTemplate{
			Section:  section,
			Template: body[b.start:b.end],
			Trailing: body[b.end:trailingEnd],
		})
	}
	return out
}
