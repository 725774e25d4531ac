package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const DefaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// WeatherTool reports current conditions from OpenWeatherMap.
type WeatherTool struct {
	api     *apiClient
	apiKey  string
	baseURL string
}

func NewWeatherTool(u Upstream) *WeatherTool {
	return &WeatherTool{
		api:     newAPIClient("OpenWeatherMap", u),
		apiKey:  u.APIKey,
		baseURL: u.baseURL(DefaultWeatherURL),
	}
}

func (t *WeatherTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "get_weather",
		Description: "Get the current weather for a city.",
		Schema: objectSchema([]string{"city"}, map[string]interface{}{
			"city": stringProp("City name, optionally with country code (e.g. \"Paris,FR\")."),
		}),
	}
}

// owmCode is the API's "cod" field: a number on success, a string on errors.
type owmCode int

func (c *owmCode) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("cod %q is not numeric", b)
	}
	*c = owmCode(n)
	return nil
}

type owmResponse struct {
	Cod     owmCode `json:"cod"`
	Message string  `json:"message"`
	Name    string  `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// owmError is the minimal failure shape, tried when the full response does
// not decode.
type owmError struct {
	Message string `json:"message"`
}

func (t *WeatherTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	city, err := requiredString(args, "city", "A city name", 1)
	if err != nil {
		return "", err
	}
	if t.apiKey == "" {
		return "", &ConfigError{Setting: "OPENWEATHER_API_KEY"}
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", t.apiKey)
	q.Set("units", "metric")

	var raw json.RawMessage
	status, err := t.api.getJSON(ctx, t.baseURL+"?"+q.Encode(), nil, &raw)
	if err != nil {
		return "", err
	}

	var resp owmResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		var e owmError
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			return "", &UpstreamError{Service: "OpenWeatherMap", Status: status, Detail: e.Message}
		}
		return "", &PayloadError{Service: "OpenWeatherMap", Err: err}
	}
	if resp.Cod != 200 {
		return "", &UpstreamError{Service: "OpenWeatherMap", Status: int(resp.Cod), Detail: resp.Message}
	}
	if resp.Main == nil || len(resp.Weather) == 0 {
		return "", &PayloadError{Service: "OpenWeatherMap", Err: errors.New("missing main or weather block")}
	}

	name := resp.Name
	if name == "" {
		name = city
	}
	if resp.Sys.Country != "" {
		name += ", " + resp.Sys.Country
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🌤️ Weather in %s\n", name)
	fmt.Fprintf(&sb, "Condition: %s\n", capitalize(resp.Weather[0].Description))
	fmt.Fprintf(&sb, "Temperature: %s°C (feels like %s°C)\n", formatNumber(resp.Main.Temp), formatNumber(resp.Main.FeelsLike))
	fmt.Fprintf(&sb, "Humidity: %s%%", formatNumber(resp.Main.Humidity))
	if resp.Wind.Speed > 0 {
		fmt.Fprintf(&sb, "\nWind: %s m/s", formatNumber(resp.Wind.Speed))
	}
	return sb.String(), nil
}

// capitalize upper-cases the first letter and leaves the rest alone.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// formatNumber prints at most one decimal and drops a trailing ".0".
// Values that round to zero print as "0", never "-0".
func formatNumber(v float64) string {
	r := math.Round(v*10) / 10
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
