package plugins

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const defaultWeatherBaseURL = "https://wttr.in"

// Weather provides live weather data from the wttr.in API.
type Weather struct {
	rest    *restClient
	baseURL string
}

func NewWeather(rest *restClient) *Weather {
	return &Weather{rest: rest, baseURL: defaultWeatherBaseURL}
}

func (w *Weather) Plugins() []Plugin {
	return []Plugin{
		{
			Descriptor: Descriptor{
				Name:        "Weather-GetCurrentWeather",
				Description: "Get the current REAL weather for any city in the world.",
				Params: []Param{
					{Name: "city", Type: "string", Description: "The name of the city to get weather for", Required: true},
				},
			},
			Invoke: w.current,
		},
		{
			Descriptor: Descriptor{
				Name:        "Weather-GetWeatherForecast",
				Description: "Get a 3-day weather forecast for any city.",
				Params: []Param{
					{Name: "city", Type: "string", Description: "The name of the city to get forecast for", Required: true},
				},
			},
			Invoke: w.forecast,
		},
	}
}

// wttrResponse is the subset of the wttr.in ?format=j1 payload we read.
type wttrResponse struct {
	CurrentCondition []struct {
		TempF          string      `json:"temp_F"`
		TempC          string      `json:"temp_C"`
		FeelsLikeF     string      `json:"FeelsLikeF"`
		Humidity       string      `json:"humidity"`
		WindspeedMiles string      `json:"windspeedMiles"`
		Winddir16Point string      `json:"winddir16Point"`
		WeatherDesc    []wttrValue `json:"weatherDesc"`
	} `json:"current_condition"`
	NearestArea []struct {
		AreaName []wttrValue `json:"areaName"`
		Country  []wttrValue `json:"country"`
	} `json:"nearest_area"`
	Weather []struct {
		Date     string `json:"date"`
		MaxTempF string `json:"maxtempF"`
		MinTempF string `json:"mintempF"`
		Hourly   []struct {
			WeatherDesc  []wttrValue `json:"weatherDesc"`
			ChanceOfRain string      `json:"chanceofrain"`
		} `json:"hourly"`
	} `json:"weather"`
}

type wttrValue struct {
	Value string `json:"value"`
}

func (w *Weather) fetch(ctx context.Context, city string) (*wttrResponse, error) {
	u := fmt.Sprintf("%s/%s?format=j1", w.baseURL, url.PathEscape(city))
	var data wttrResponse
	if err := w.rest.getJSON(ctx, u, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (w *Weather) current(ctx context.Context, args Args) Result {
	city, ok := args.Text("city")
	if !ok || city == "" {
		return Failf("Could not fetch weather: missing city")
	}

	data, err := w.fetch(ctx, city)
	if err != nil {
		return Failf("Could not fetch weather for %s: %v", city, err)
	}
	if len(data.CurrentCondition) == 0 || len(data.NearestArea) == 0 {
		return Failf("Could not fetch weather for %s: incomplete data", city)
	}

	current := data.CurrentCondition[0]
	location := data.NearestArea[0]

	condition := ""
	if len(current.WeatherDesc) > 0 {
		condition = current.WeatherDesc[0].Value
	}
	cityName, country := city, ""
	if len(location.AreaName) > 0 {
		cityName = location.AreaName[0].Value
	}
	if len(location.Country) > 0 {
		country = location.Country[0].Value
	}

	return Okf(
		"📍 %s, %s\n"+
			"🌡️ Temperature: %s°F (%s°C) | Feels like: %s°F\n"+
			"☁️ Condition: %s\n"+
			"💧 Humidity: %s%%\n"+
			"💨 Wind: %s mph %s",
		cityName, country,
		current.TempF, current.TempC, current.FeelsLikeF,
		condition,
		current.Humidity,
		current.WindspeedMiles, current.Winddir16Point,
	)
}

func (w *Weather) forecast(ctx context.Context, args Args) Result {
	city, ok := args.Text("city")
	if !ok || city == "" {
		return Failf("Could not fetch forecast: missing city")
	}

	data, err := w.fetch(ctx, city)
	if err != nil {
		return Failf("Could not fetch forecast for %s: %v", city, err)
	}
	if len(data.Weather) == 0 {
		return Failf("Could not fetch forecast for %s: incomplete data", city)
	}

	cityName := city
	if len(data.NearestArea) > 0 && len(data.NearestArea[0].AreaName) > 0 {
		cityName = data.NearestArea[0].AreaName[0].Value
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 3-Day Forecast for %s:\n", cityName)

	days := data.Weather
	if len(days) > 3 {
		days = days[:3]
	}
	for _, day := range days {
		condition, rainChance := "", ""
		if len(day.Hourly) > 0 {
			// Midday slot when available, otherwise the first one
			midday := day.Hourly[0]
			if len(day.Hourly) > 4 {
				midday = day.Hourly[4]
			}
			if len(midday.WeatherDesc) > 0 {
				condition = midday.WeatherDesc[0].Value
			}
			rainChance = midday.ChanceOfRain
		}
		fmt.Fprintf(&b, "\n📆 %s: %s°F - %s°F | %s | 🌧️ %s%% rain",
			day.Date, day.MinTempF, day.MaxTempF, condition, rainChance)
	}

	return Ok(b.String())
}
