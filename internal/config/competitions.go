package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Competition describes one supported competition: where its data comes
// from and how its season files are named.
type Competition struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`

	// Provider is "wikipedia" for scrape-only competitions, otherwise the
	// feed provider name passed to the sports API.
	Provider string `yaml:"provider"`
	CompID   int    `yaml:"comp_id"`

	FilenamePrefix string `yaml:"filename_prefix"`

	// WikipediaFallback routes seasons before APICutoffYear to Wikipedia
	// even when a feed provider exists.
	WikipediaFallback bool `yaml:"wikipedia_fallback"`
	APICutoffYear     int  `yaml:"api_cutoff_year"`

	// UseYearOnly names the season file by calendar year instead of the
	// cross-year season label (World Cup style).
	UseYearOnly bool `yaml:"use_year_only"`
}

const ProviderWikipedia = "wikipedia"

// StoreName returns the per-season store key, e.g. "six-nations-2024-2025"
// or "rugby-world-cup-2023".
func (c Competition) StoreName(season string) string {
	if c.UseYearOnly {
		return fmt.Sprintf("%s-%s", c.FilenamePrefix, seasonStartYear(season))
	}
	return fmt.Sprintf("%s-%s", c.FilenamePrefix, season)
}

func seasonStartYear(season string) string {
	for i := 0; i < len(season); i++ {
		if season[i] == '-' {
			return season[:i]
		}
	}
	return season
}

// Competitions returns the built-in registry, optionally extended or
// overridden (by key) from a YAML file.
func Competitions(overridePath string) (map[string]Competition, error) {
	registry := builtinCompetitions()
	if overridePath == "" {
		return registry, nil
	}

	raw, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, fmt.Errorf("read competitions file: %w", err)
	}
	var overrides []Competition
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parse competitions file: %w", err)
	}
	for _, c := range overrides {
		if c.Key == "" {
			return nil, fmt.Errorf("competitions file entry %q is missing a key", c.Name)
		}
		registry[c.Key] = c
	}
	return registry, nil
}

// CompetitionKeys lists the registry keys in stable order, for CLI help and
// error messages.
func CompetitionKeys(registry map[string]Competition) []string {
	keys := make([]string, 0, len(registry))
	for key := range registry {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func builtinCompetitions() map[string]Competition {
	list := []Competition{
		{
			Key: "urc", Name: "United Rugby Championship",
			Provider: "rugbyviz", CompID: 1068, FilenamePrefix: "celtic",
			WikipediaFallback: true, APICutoffYear: 2005,
		},
		{
			Key: "premiership", Name: "Gallagher Premiership",
			Provider: "rugbyviz", CompID: 1011, FilenamePrefix: "premiership",
		},
		{
			Key: "top14", Name: "Top 14",
			Provider: "rugbyviz", CompID: 1002, FilenamePrefix: "top14",
		},
		{
			Key: "pro-d2", Name: "Pro D2",
			Provider: "rugbyviz", CompID: 1013, FilenamePrefix: "pro-d2",
		},
		{
			Key: "euro-champions", Name: "European Rugby Champions Cup",
			Provider: "rugbyviz", CompID: 1008, FilenamePrefix: "euro-champions",
		},
		{
			Key: "euro-challenge", Name: "European Rugby Challenge Cup",
			Provider: "rugbyviz", CompID: 1026, FilenamePrefix: "euro-challenge",
		},
		{
			Key: "championship", Name: "RFU Championship",
			Provider: "rugbyviz", CompID: 1051, FilenamePrefix: "championship",
			WikipediaFallback: true, APICutoffYear: 2024,
		},
		{
			Key: "six-nations", Name: "Six Nations Championship",
			Provider: ProviderWikipedia, FilenamePrefix: "six-nations",
		},
		{
			Key: "mid-year-internationals", Name: "Mid-year Internationals",
			Provider: ProviderWikipedia, FilenamePrefix: "mid-year-internationals",
		},
		{
			Key: "end-of-year-internationals", Name: "End-of-year Internationals",
			Provider: ProviderWikipedia, FilenamePrefix: "end-of-year-internationals",
		},
		{
			Key: "world-cup", Name: "Rugby World Cup",
			Provider: ProviderWikipedia, FilenamePrefix: "rugby-world-cup",
			UseYearOnly: true,
		},
		{
			Key: "super-rugby", Name: "Super Rugby",
			Provider: ProviderWikipedia, FilenamePrefix: "super-rugby",
		},
		{
			Key: "japan-league-one", Name: "Japan Rugby League One",
			Provider: ProviderWikipedia, FilenamePrefix: "japan-league-one",
		},
		{
			Key: "currie-cup", Name: "Currie Cup",
			Provider: ProviderWikipedia, FilenamePrefix: "currie-cup",
		},
		{
			Key: "npc", Name: "National Provincial Championship",
			Provider: ProviderWikipedia, FilenamePrefix: "npc",
		},
	}

	registry := make(map[string]Competition, len(list))
	for _, c := range list {
		registry[c.Key] = c
	}
	return registry
}
