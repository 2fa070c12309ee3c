package weather

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/pkordes/packlist/internal/domain"
)

// Report is the result of Summarize: the per-day forecast and its digest.
type Report struct {
	Forecast domain.Forecast
	Summary  domain.WeatherSummary
}

// Aggregator turns a provider forecast into a WeatherSummary.
type Aggregator struct {
	provider Provider
}

// NewAggregator constructs an Aggregator backed by the given provider.
func NewAggregator(p Provider) *Aggregator {
	return &Aggregator{provider: p}
}

// Summarize geocodes destination, fetches its forecast, and condenses the
// first periodDays local calendar days (or fewer, if the forecast is shorter).
// Every failure is wrapped in domain.ErrWeatherUnavailable.
func (a *Aggregator) Summarize(ctx context.Context, destination string, periodDays int) (Report, error) {
	report, err := a.summarize(ctx, destination, periodDays)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", domain.ErrWeatherUnavailable, err)
	}
	return report, nil
}

func (a *Aggregator) summarize(ctx context.Context, destination string, periodDays int) (Report, error) {
	if periodDays <= 0 {
		return Report{}, fmt.Errorf("%w: period must be positive", domain.ErrValidation)
	}

	locs, err := a.provider.Geocode(ctx, destination)
	if err != nil {
		return Report{}, err
	}
	if len(locs) == 0 {
		return Report{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, destination)
	}

	raw, err := a.provider.Forecast(ctx, locs[0].Lat, locs[0].Lon)
	if err != nil {
		return Report{}, err
	}

	days := DailyForecasts(raw)
	if len(days) == 0 {
		return Report{}, errors.New("forecast has no samples")
	}
	if len(days) > periodDays {
		days = days[:periodDays]
	}

	city, country := raw.City, raw.Country
	if city == "" {
		city, country = locs[0].Name, locs[0].Country
	}
	return Report{
		Forecast: domain.Forecast{City: city, Country: country, Days: days},
		Summary:  Summarize(days),
	}, nil
}

// DailyForecasts groups samples by the destination's local calendar day and
// reduces each day. Days are returned in chronological order.
func DailyForecasts(raw RawForecast) []domain.DailyForecast {
	byDay := lo.GroupBy(raw.Samples, func(s Sample) string {
		return s.Time.UTC().Add(raw.UTCOffset).Format("2006-01-02")
	})

	keys := lo.Keys(byDay)
	sort.Strings(keys)

	days := make([]domain.DailyForecast, 0, len(keys))
	for _, k := range keys {
		days = append(days, reduceDay(k, byDay[k]))
	}
	return days
}

func reduceDay(date string, samples []Sample) domain.DailyForecast {
	temps := lo.Map(samples, func(s Sample, _ int) float64 { return s.Temp })
	precips := lo.FilterMap(samples, func(s Sample, _ int) (float64, bool) {
		if s.Precip == nil {
			return 0, false
		}
		return *s.Precip, true
	})

	day := domain.DailyForecast{
		Date:         date,
		MinTemp:      lo.Min(temps),
		MaxTemp:      lo.Max(temps),
		AvgFeelsLike: lo.Mean(lo.Map(samples, func(s Sample, _ int) float64 { return s.FeelsLike })),
		AvgHumidity:  lo.Mean(lo.Map(samples, func(s Sample, _ int) float64 { return s.Humidity })),
		MaxWind:      lo.Max(lo.Map(samples, func(s Sample, _ int) float64 { return s.WindSpeed })),
		Descriptions: distinct(lo.Map(samples, func(s Sample, _ int) string { return s.Description })),
	}
	if len(precips) > 0 {
		day.Precipitation = lo.ToPtr(lo.Sum(precips))
	}
	return day
}

// Summarize reduces per-day forecasts to a single digest. The day range spans
// the daily maxima and the night range spans the daily minima. Fields with no
// contributing day stay nil.
func Summarize(days []domain.DailyForecast) domain.WeatherSummary {
	s := domain.WeatherSummary{
		Descriptions: distinct(lo.FlatMap(days, func(d domain.DailyForecast, _ int) []string { return d.Descriptions })),
	}
	if len(days) == 0 {
		return s
	}

	highs := lo.Map(days, func(d domain.DailyForecast, _ int) float64 { return d.MaxTemp })
	lows := lo.Map(days, func(d domain.DailyForecast, _ int) float64 { return d.MinTemp })
	winds := lo.Map(days, func(d domain.DailyForecast, _ int) float64 { return d.MaxWind })

	s.DayTempRange = &domain.TempRange{Min: lo.Min(highs), Max: lo.Max(highs)}
	s.NightTempRange = &domain.TempRange{Min: lo.Min(lows), Max: lo.Max(lows)}
	s.AvgWind = lo.ToPtr(lo.Mean(winds))
	s.MaxWind = lo.ToPtr(lo.Max(winds))

	precips := lo.FilterMap(days, func(d domain.DailyForecast, _ int) (float64, bool) {
		if d.Precipitation == nil {
			return 0, false
		}
		return *d.Precipitation, true
	})
	if len(precips) > 0 {
		s.AvgPrecip = lo.ToPtr(lo.Mean(precips))
		s.TotalPrecip = lo.ToPtr(lo.Sum(precips))
	}
	return s
}

// distinct returns the sorted set of non-empty strings.
func distinct(in []string) []string {
	out := lo.Uniq(lo.Compact(in))
	sort.Strings(out)
	return out
}
