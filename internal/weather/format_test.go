package weather_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/weather"
)

func TestSummaryLines(t *testing.T) {
	s := domain.WeatherSummary{
		DayTempRange:   &domain.TempRange{Min: 24.04, Max: 30.06},
		NightTempRange: &domain.TempRange{Min: 16, Max: 18.25},
		Descriptions:   []string{"clear sky", "light rain"},
		AvgWind:        fp(5.333333),
		MaxWind:        fp(7),
		AvgPrecip:      fp(4.0 / 3),
		TotalPrecip:    fp(4),
	}

	lines := weather.SummaryLines(s)

	assert.Equal(t, []string{
		"Daytime temperature: from 24.0°C to 30.1°C",
		"Night temperature: from 16.0°C to 18.2°C",
		"Conditions: clear sky, light rain",
		"Wind: 5.3 m/s on average, up to 7.0 m/s",
		"Precipitation: 1.3 mm/day on average, 4.0 mm over the period",
	}, lines)
}

func TestSummaryLines_OmitsAbsentFields(t *testing.T) {
	s := domain.WeatherSummary{
		DayTempRange: &domain.TempRange{Min: 5, Max: 8},
	}

	lines := weather.SummaryLines(s)

	assert.Equal(t, []string{"Daytime temperature: from 5.0°C to 8.0°C"}, lines)
}

func TestSummaryLines_Empty(t *testing.T) {
	assert.Empty(t, weather.SummaryLines(domain.WeatherSummary{}))
	assert.Empty(t, weather.FormatSummary(domain.WeatherSummary{}))
}

func TestFormatSummary_UsesChatLabels(t *testing.T) {
	s := domain.WeatherSummary{Descriptions: []string{"snow"}}

	assert.Equal(t, "☁️ Conditions: snow", weather.FormatSummary(s))
}
