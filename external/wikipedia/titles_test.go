package wikipedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageTitles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year        int
		competition string
		want        []string
	}{
		{2025, "Six Nations Championship", []string{"2025 Six Nations Championship"}},
		{1904, "Home Nations Championship", []string{"1904 Home Nations Championship"}},
		{2024, "Super Rugby", []string{"List of 2024 Super Rugby Pacific matches"}},
		{2018, "Super Rugby", []string{"List of 2018 Super Rugby matches"}},
		{2012, "Super Rugby", []string{"2012 Super Rugby season"}},
		{2008, "Super Rugby", []string{"2008 Super 14 season"}},
		{1998, "Super Rugby", []string{"1998 Super 12 season"}},
		{2023, "mid-year rugby union tests", []string{"2023 Rugby World Cup warm-up matches"}},
		{2024, "mid-year rugby union tests", []string{"2024 mid-year rugby union tests"}},
		{2019, "mid-year rugby union tests", []string{
			"2019 June rugby union tests",
			"2019 mid-year rugby union internationals",
		}},
		{2016, "summer internationals", []string{
			"2016 June rugby union tests",
			"2016 July rugby union tests",
		}},
		{2023, "Rugby World Cup", []string{"2023 Rugby World Cup"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageTitles(tt.year, tt.competition), "%d %s", tt.year, tt.competition)
	}
}

func TestPoolPageTitles(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"2023 Rugby World Cup Pool A"}, PoolPageTitles(2023, "A"))
	assert.Equal(t, []string{
		"2007 Rugby World Cup Pool B",
		"2007 Rugby World Cup – Pool B",
	}, PoolPageTitles(2007, "B"))
}

func TestIsWorldCupYear(t *testing.T) {
	t.Parallel()

	for _, year := range []int{1987, 1995, 2003, 2023, 2031, 2039} {
		assert.True(t, IsWorldCupYear(year), "%d", year)
	}
	for _, year := range []int{1986, 2024, 2025} {
		assert.False(t, IsWorldCupYear(year), "%d", year)
	}
}
