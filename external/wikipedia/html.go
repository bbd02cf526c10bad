package wikipedia

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"rugbydata/internal/domain/match"
	"rugbydata/internal/wikitext"
)

var (
	htmlScoreRe = regexp.MustCompile(`(\d+)\s*[–—-]\s*(\d+)`)
	htmlDateRe  = regexp.MustCompile(`\d{1,2}\s+[A-Za-z]+\s+\d{4}`)
)

// MatchesFromHTML extracts matches from a rendered article. The 1987 and
// 1995 World Cup pages carry no match templates at all; their rendered form
// marks each match with a vevent summary block holding two team spans, a
// scoreline and a date cell. Only scalars survive this path: no scoring
// events or lineups exist in the markup.
func MatchesFromHTML(html string, parser *wikitext.Parser) ([]match.Match, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var out []match.Match
	doc.Find("div.vevent.summary").Each(func(_ int, block *goquery.Selection) {
		teams := block.Find(`span.fn.org a`)
		if teams.Length() < 2 {
			return
		}
		home := strings.TrimSpace(teams.Eq(0).Text())
		away := strings.TrimSpace(teams.Eq(1).Text())
		if home == "" || away == "" {
			return
		}

		sm := htmlScoreRe.FindStringSubmatch(block.Text())
		if sm == nil {
			return
		}
		homeScore, _ := strconv.Atoi(sm[1])
		awayScore, _ := strconv.Atoi(sm[2])

		m := match.Match{
			Home: match.Side{Team: home, Score: &homeScore},
			Away: match.Side{Team: away, Score: &awayScore},
		}

		block.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			raw := strings.TrimSpace(cell.Text())
			if dm := htmlDateRe.FindString(raw); dm != "" {
				m.Date = parser.ParseDateText(dm)
				return false
			}
			return true
		})

		if venue := strings.TrimSpace(block.Find("span.location").First().Text()); venue != "" {
			m.Stadium = venue
		}
		out = append(out, m)
	})
	return out, nil
}
