package wikitext

import "strings"

// Templates legally nest other templates inside parameter values, so a regex
// cannot find their closers. templateSpan scans forward from an opening "{{"
// counting depth and returns the index just past the matching "}}".
func templateSpan(text string, start int) (int, bool) {
	if start < 0 || start+2 > len(text) || text[start:start+2] != "{{" {
		return 0, false
	}

	depth := 0
	i := start
	for i < len(text)-1 {
		switch text[i : i+2] {
		case "{{":
			depth++
			i += 2
		case "}}":
			depth--
			i += 2
			if depth == 0 {
				return i, true
			}
		default:
			i++
		}
	}
	return 0, false
}

// tableSpan is the table analogue: it finds the "|}" matching an opening
// "{|", counting nested tables.
func tableSpan(text string, start int) (int, bool) {
	if start < 0 || start+2 > len(text) || text[start:start+2] != "{|" {
		return 0, false
	}

	depth := 0
	i := start
	for i < len(text)-1 {
		switch text[i : i+2] {
		case "{|":
			depth++
			i += 2
		case "|}":
			depth--
			i += 2
			if depth == 0 {
				return i, true
			}
		default:
			i++
		}
	}
	return 0, false
}

// Template openers that mark a match summary. Pages since 2017 occasionally
// invoke the rugby box module directly instead of the template.
var matchTemplateOpeners = []string{
	"{{rugbybox",
	"{{#invoke:rugby box|main",
}

func isMatchTemplate(span string) bool {
	lower := strings.ToLower(span)
	for _, opener := range matchTemplateOpeners {
		if strings.HasPrefix(lower, opener) {
			return true
		}
	}
	return false
}

// matchTemplateStarts returns the byte offsets of every match-template opener
// in doc, in document order.
func matchTemplateStarts(doc string) []int {
	lower := strings.ToLower(doc)
	var starts []int
	for _, opener := range matchTemplateOpeners {
		from := 0
		for {
			idx := strings.Index(lower[from:], opener)
			if idx == -1 {
				break
			}
			starts = append(starts, from+idx)
			from += idx + len(opener)
		}
	}
	sortInts(starts)
	return starts
}

func sortInts(values []int) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && values[j] < values[j-1]; j-- {
			values[j], values[j-1] = values[j-1], values[j]
		}
	}
}
