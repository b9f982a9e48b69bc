package skill

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nadzzz/hearth/internal/config"
)

const openWeatherBase = "https://api.openweathermap.org/data/2.5"

var offlineWeatherReplies = []string{
	"I don't have access to live weather data right now, but it's always a good idea to bring a jacket.",
	"I can't reach the weather service at the moment. Try looking out the window!",
	"Live weather is unavailable without an API key, sorry about that.",
}

// Weather answers current-conditions and short forecast questions through
// OpenWeatherMap. Without an API key it degrades to canned offline replies.
type Weather struct {
	apiKey      string
	defaultCity string
	baseURL     string
	client      *http.Client
}

// NewWeather creates the weather skill from config.
func NewWeather(cfg config.WeatherConfig) *Weather {
	city := cfg.DefaultCity
	if city == "" {
		city = "London"
	}
	return &Weather{
		apiKey:      cfg.APIKey,
		defaultCity: city,
		baseURL:     openWeatherBase,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Weather) Name() string { return "weather" }

func (w *Weather) Labels() []string {
	return []string{"weather.current", "weather.forecast"}
}

func (w *Weather) Handle(ctx context.Context, req *Request) (*Response, error) {
	if w.apiKey == "" {
		return &Response{Text: offlineWeatherReplies[rand.IntN(len(offlineWeatherReplies))]}, nil
	}

	city := req.Slots.Get("city")
	if city == "" {
		city = w.defaultCity
	}

	if req.Label == "weather.forecast" || req.Slots.Get("forecast") == "true" {
		return w.forecast(ctx, city)
	}
	return w.current(ctx, city)
}

func (w *Weather) current(ctx context.Context, city string) (*Response, error) {
	var result struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Name string `json:"name"`
	}
	if err := w.get(ctx, "/weather", city, &result); err != nil {
		return nil, err
	}

	desc := "unsettled"
	if len(result.Weather) > 0 {
		desc = result.Weather[0].Description
	}
	place := result.Name
	if place == "" {
		place = city
	}
	return &Response{
		Text: fmt.Sprintf("It's %.0f degrees with %s in %s.", result.Main.Temp, desc, place),
	}, nil
}

// forecast summarizes the next three days from the 3-hourly forecast feed,
// taking the first entry of each new day.
func (w *Weather) forecast(ctx context.Context, city string) (*Response, error) {
	var result struct {
		List []struct {
			DtTxt string `json:"dt_txt"`
			Main  struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"list"`
		City struct {
			Name string `json:"name"`
		} `json:"city"`
	}
	if err := w.get(ctx, "/forecast", city, &result); err != nil {
		return nil, err
	}

	var parts []string
	lastDay := ""
	for _, entry := range result.List {
		day, _, ok := strings.Cut(entry.DtTxt, " ")
		if !ok || day == lastDay {
			continue
		}
		lastDay = day
		desc := "unsettled"
		if len(entry.Weather) > 0 {
			desc = entry.Weather[0].Description
		}
		parts = append(parts, fmt.Sprintf("%.0f degrees with %s", entry.Main.Temp, desc))
		if len(parts) == 3 {
			break
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("forecast for %s: empty response", city)
	}

	place := result.City.Name
	if place == "" {
		place = city
	}
	return &Response{
		Text: fmt.Sprintf("The forecast for %s: %s.", place, strings.Join(parts, ", then ")),
	}, nil
}

func (w *Weather) get(ctx context.Context, path, city string, out any) error {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", w.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating weather request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("weather request failed (status %d): %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding weather response: %w", err)
	}

	slog.Debug("weather lookup complete", "city", city, "path", path)
	return nil
}
