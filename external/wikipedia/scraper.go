package wikipedia

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"rugbydata/internal/domain/match"
	"rugbydata/internal/platform/logging"
	"rugbydata/internal/wikitext"
)

// Pool-match counts: a main World Cup page carrying fewer templates than
// this holds only the knockout bracket, with the pools on separate pages.
const poolPageThreshold = 30

var poolPageRefRe = regexp.MustCompile(`Rugby World Cup Pool [A-D]`)

// Scraper runs one championship page (plus any satellite pool pages) through
// the wikitext pipeline and returns canonical matches.
type Scraper struct {
	client *Client
	parser *wikitext.Parser
	logger *logging.Logger
}

func NewScraper(client *Client, parser *wikitext.Parser, logger *logging.Logger) *Scraper {
	if logger == nil {
		logger = logging.Default()
	}
	if parser == nil {
		parser = wikitext.NewParser(wikitext.DefaultConfig(), logger)
	}
	return &Scraper{client: client, parser: parser, logger: logger}
}

// Championship fetches and parses every match of one competition year.
// Individual templates that fail to parse are skipped and reported in the
// returned problem list; only a failure to fetch the main page is an error.
func (s *Scraper) Championship(ctx context.Context, year int, competition string) ([]match.Match, []string, error) {
	doc, err := s.client.FirstWikitext(ctx, PageTitles(year, competition))
	if err != nil {
		return nil, nil, crerr.Wrapf(err, "fetch %d %s", year, competition)
	}
	s.logger.Info("fetched championship page", "year", year, "competition", competition, "bytes", len(doc))

	sections := s.parser.Locate(doc)

	if strings.Contains(competition, "Rugby World Cup") && year >= 2003 {
		sections = append(sections, s.poolSections(ctx, year, doc, len(sections))...)
	}

	if len(sections) == 0 && strings.Contains(competition, "Rugby World Cup") && (year == 1987 || year == 1995) {
		return s.championshipFromHTML(ctx, year, competition)
	}

	var (
		out      []match.Match
		problems []string
	)
	for _, section := range sections {
		pm, err := s.parser.ParseMatch(section)
		if err != nil {
			problems = append(problems, fmt.Sprintf("section %q: %v", section.Section, err))
			continue
		}
		home, away := s.parser.ParseLineups(section.Trailing)
		out = append(out, s.parser.Assemble(pm, home, away))
	}
	return out, problems, nil
}

// poolSections fetches the four satellite pool pages of a World Cup when the
// main page references them and holds only the knockout bracket itself.
func (s *Scraper) poolSections(ctx context.Context, year int, mainDoc string, mainCount int) []wikitext.RawTemplate {
	if mainCount >= poolPageThreshold || !poolPageRefRe.MatchString(mainDoc) {
		return nil
	}

	var out []wikitext.RawTemplate
	for _, pool := range []string{"A", "B", "C", "D"} {
		poolDoc, err := s.client.FirstWikitext(ctx, PoolPageTitles(year, pool))
		if err != nil {
			s.logger.Warn("pool page unavailable", "year", year, "pool", pool, "error", err)
			continue
		}
		found := s.parser.Locate(poolDoc)
		s.logger.Info("fetched pool page", "year", year, "pool", pool, "matches", len(found))
		out = append(out, found...)
	}
	return out
}

func (s *Scraper) championshipFromHTML(ctx context.Context, year int, competition string) ([]match.Match, []string, error) {
	s.logger.Info("no match templates found, falling back to rendered html", "year", year, "competition", competition)
	titles := PageTitles(year, competition)
	html, err := s.client.PageHTML(ctx, titles[0])
	if err != nil {
		return nil, nil, crerr.Wrapf(err, "fetch html %d %s", year, competition)
	}
	matches, err := MatchesFromHTML(html, s.parser)
	if err != nil {
		return nil, nil, crerr.Wrapf(err, "parse html %d %s", year, competition)
	}
	return matches, nil, nil
}
