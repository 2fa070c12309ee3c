package domain

import (
	"encoding/json"
	"fmt"
)

// TempRange is a closed temperature interval in °C.
// It is encoded as a two-element JSON array [min, max].
type TempRange struct {
	Min float64
	Max float64
}

// MarshalJSON encodes the range as [min, max].
func (r TempRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{r.Min, r.Max})
}

// UnmarshalJSON decodes a [min, max] array.
func (r *TempRange) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("temperature range: want 2 values, got %d", len(pair))
	}
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

// WeatherSummary is the packing-relevant digest of a multi-day forecast.
//
// A nil field means no sample contributed to it. Wind and precipitation are
// always set in pairs. Values are stored unrounded; rounding happens only
// when formatting for display.
type WeatherSummary struct {
	DayTempRange   *TempRange `json:"day_temp_range,omitempty"`
	NightTempRange *TempRange `json:"night_temp_range,omitempty"`
	Descriptions   []string   `json:"descriptions"`
	AvgWind        *float64   `json:"avg_wind,omitempty"`
	MaxWind        *float64   `json:"max_wind,omitempty"`
	AvgPrecip      *float64   `json:"avg_precip,omitempty"`
	TotalPrecip    *float64   `json:"total_precip,omitempty"`
}

// Coldest returns the lowest temperature known to the summary.
func (s WeatherSummary) Coldest() (float64, bool) {
	switch {
	case s.NightTempRange != nil && s.DayTempRange != nil:
		return min(s.NightTempRange.Min, s.DayTempRange.Min), true
	case s.NightTempRange != nil:
		return s.NightTempRange.Min, true
	case s.DayTempRange != nil:
		return s.DayTempRange.Min, true
	}
	return 0, false
}

// Warmest returns the highest temperature known to the summary.
func (s WeatherSummary) Warmest() (float64, bool) {
	switch {
	case s.DayTempRange != nil && s.NightTempRange != nil:
		return max(s.DayTempRange.Max, s.NightTempRange.Max), true
	case s.DayTempRange != nil:
		return s.DayTempRange.Max, true
	case s.NightTempRange != nil:
		return s.NightTempRange.Max, true
	}
	return 0, false
}

// DailyForecast is the per-calendar-day reduction of raw forecast samples.
// Precipitation is nil when no sample of the day reported it.
type DailyForecast struct {
	Date          string   `json:"date"` // "2006-01-02" in the destination's local time
	MinTemp       float64  `json:"min_temp"`
	MaxTemp       float64  `json:"max_temp"`
	AvgFeelsLike  float64  `json:"avg_feels_like"`
	AvgHumidity   float64  `json:"avg_humidity"`
	MaxWind       float64  `json:"max_wind"`
	Precipitation *float64 `json:"precipitation,omitempty"`
	Descriptions  []string `json:"descriptions"`
}

// Forecast is the full weather snapshot stored next to the summary.
type Forecast struct {
	City    string          `json:"city"`
	Country string          `json:"country"`
	Days    []DailyForecast `json:"forecast"`
}
