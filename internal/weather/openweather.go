// Package weather fetches a multi-day forecast for a destination and condenses
// it into packing-relevant statistics.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the OpenWeather API root.
const DefaultBaseURL = "https://api.openweathermap.org"

// Location is a geocoding match.
type Location struct {
	Name    string
	Country string
	Lat     float64
	Lon     float64
}

// Sample is one raw forecast point (OpenWeather returns one every 3 hours).
// Precip is nil when the provider did not report precipitation for the point.
type Sample struct {
	Time        time.Time
	Temp        float64
	FeelsLike   float64
	Humidity    float64
	WindSpeed   float64
	Description string
	Precip      *float64
}

// RawForecast is the provider's forecast before aggregation.
// UTCOffset is the destination's offset from UTC, used to find local days.
type RawForecast struct {
	City      string
	Country   string
	UTCOffset time.Duration
	Samples   []Sample
}

// Provider is the narrow contract the aggregator needs from a weather API.
type Provider interface {
	Geocode(ctx context.Context, city string) ([]Location, error)
	Forecast(ctx context.Context, lat, lon float64) (RawForecast, error)
}

// ProviderError is returned when the weather API answers with a non-2xx status.
type ProviderError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("weather provider %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// OpenWeatherClient talks to the OpenWeather geocoding and 5 day / 3 hour
// forecast endpoints.
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	geocodes   *cache.Cache
}

// NewOpenWeatherClient creates a client. An empty baseURL selects DefaultBaseURL.
// Calls are limited to one per second with a burst of 5 (the free tier allows
// 60 calls per minute); geocoding results are cached for a day.
func NewOpenWeatherClient(apiKey, baseURL string, timeout time.Duration) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenWeatherClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 5),
		geocodes:   cache.New(24*time.Hour, time.Hour),
	}
}

var _ Provider = (*OpenWeatherClient)(nil)

type owLocation struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Geocode resolves a city name. An empty slice means no match.
func (c *OpenWeatherClient) Geocode(ctx context.Context, city string) ([]Location, error) {
	key := strings.ToLower(strings.TrimSpace(city))
	if cached, ok := c.geocodes.Get(key); ok {
		return cached.([]Location), nil
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("limit", "1")
	q.Set("appid", c.apiKey)

	var raw []owLocation
	if err := c.getJSON(ctx, "geocode", "/geo/1.0/direct", q, &raw); err != nil {
		return nil, err
	}

	locs := make([]Location, 0, len(raw))
	for _, l := range raw {
		locs = append(locs, Location{Name: l.Name, Country: l.Country, Lat: l.Lat, Lon: l.Lon})
	}
	if len(locs) > 0 {
		c.geocodes.SetDefault(key, locs)
	}
	return locs, nil
}

type owVolume struct {
	ThreeHours *float64 `json:"3h"`
}

type owForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Rain *owVolume `json:"rain"`
		Snow *owVolume `json:"snow"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

// Forecast fetches the forecast in metric units.
// OpenWeather omits rain and snow volumes for dry periods, so every sample
// gets a precipitation value (0 when both are missing).
func (c *OpenWeatherClient) Forecast(ctx context.Context, lat, lon float64) (RawForecast, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	var raw owForecast
	if err := c.getJSON(ctx, "forecast", "/data/2.5/forecast", q, &raw); err != nil {
		return RawForecast{}, err
	}

	out := RawForecast{
		City:      raw.City.Name,
		Country:   raw.City.Country,
		UTCOffset: time.Duration(raw.City.Timezone) * time.Second,
		Samples:   make([]Sample, 0, len(raw.List)),
	}
	for _, p := range raw.List {
		s := Sample{
			Time:      time.Unix(p.Dt, 0).UTC(),
			Temp:      p.Main.Temp,
			FeelsLike: p.Main.FeelsLike,
			Humidity:  p.Main.Humidity,
			WindSpeed: p.Wind.Speed,
		}
		if len(p.Weather) > 0 {
			s.Description = p.Weather[0].Description
		}
		precip := volume(p.Rain) + volume(p.Snow)
		s.Precip = &precip
		out.Samples = append(out.Samples, s)
	}
	return out, nil
}

func volume(v *owVolume) float64 {
	if v == nil || v.ThreeHours == nil {
		return 0
	}
	return *v.ThreeHours
}

func (c *OpenWeatherClient) getJSON(ctx context.Context, op, path string, q url.Values, dst any) (err error) {
	defer func() { observeRequest(op, err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("weather.OpenWeatherClient.%s: rate limit: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("weather.OpenWeatherClient.%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather.OpenWeatherClient.%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &ProviderError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("weather.OpenWeatherClient.%s: decode: %w", op, err)
	}
	return nil
}
