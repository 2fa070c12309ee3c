package weather

import (
	"fmt"
	"strings"

	"github.com/pkordes/packlist/internal/domain"
)

type labels struct {
	day, night, conditions, wind, precip string
}

var (
	chatLabels  = labels{"🌡 Day", "🌙 Night", "☁️ Conditions", "💨 Wind", "🌧 Precipitation"}
	plainLabels = labels{"Daytime temperature", "Night temperature", "Conditions", "Wind", "Precipitation"}
)

// FormatSummary renders the summary for a chat message, one line per known field.
func FormatSummary(s domain.WeatherSummary) string {
	return strings.Join(lines(s, chatLabels), "\n")
}

// SummaryLines renders the summary as plain labelled lines, for prompts and
// the web viewer. A summary with no data yields no lines.
func SummaryLines(s domain.WeatherSummary) []string {
	return lines(s, plainLabels)
}

func lines(s domain.WeatherSummary, l labels) []string {
	var out []string
	if r := s.DayTempRange; r != nil {
		out = append(out, fmt.Sprintf("%s: from %s°C to %s°C", l.day, round1(r.Min), round1(r.Max)))
	}
	if r := s.NightTempRange; r != nil {
		out = append(out, fmt.Sprintf("%s: from %s°C to %s°C", l.night, round1(r.Min), round1(r.Max)))
	}
	if len(s.Descriptions) > 0 {
		out = append(out, fmt.Sprintf("%s: %s", l.conditions, strings.Join(s.Descriptions, ", ")))
	}
	if s.AvgWind != nil && s.MaxWind != nil {
		out = append(out, fmt.Sprintf("%s: %s m/s on average, up to %s m/s", l.wind, round1(*s.AvgWind), round1(*s.MaxWind)))
	}
	if s.AvgPrecip != nil && s.TotalPrecip != nil {
		out = append(out, fmt.Sprintf("%s: %s mm/day on average, %s mm over the period", l.precip, round1(*s.AvgPrecip), round1(*s.TotalPrecip)))
	}
	return out
}

// round1 formats v with one decimal place. Aggregates are never rounded
// before this point.
func round1(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
