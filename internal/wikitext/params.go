package wikitext

import "strings"

// parseParams tokenizes one balanced template span into a key -> raw value
// map. Values frequently span several lines (multi-entry try-scorer lists),
// so a line only starts a new parameter when it begins with "|" and carries
// "="; anything else continues the current value.
func parseParams(template string) map[string]string {
	content := template
	if strings.HasPrefix(content, "{{") {
		content = content[2:]
	}
	if strings.HasSuffix(content, "}}") {
		content = content[:len(content)-2]
	}
	content = strings.TrimSpace(content)

	params := make(map[string]string)
	var currentKey string
	var currentValue []string

	flush := func() {
		if currentKey != "" {
			params[currentKey] = strings.Join(currentValue, "\n")
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.Contains(trimmed, "=") {
			flush()
			key, value, _ := strings.Cut(trimmed[1:], "=")
			currentKey = strings.TrimSpace(key)
			currentValue = []string{strings.TrimSpace(value)}
			continue
		}
		if currentKey != "" {
			currentValue = append(currentValue, line)
		}
	}
	flush()

	return params
}
