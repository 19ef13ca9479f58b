package plugins

import (
	"context"
	"strings"
	"time"
)

const defaultWorldTimeBaseURL = "http://worldtimeapi.org/api/timezone"

// timezoneMap covers the major cities the assistant advertises. Lookups
// are case-insensitive on the city name.
var timezoneMap = map[string]string{
	"new york":    "America/New_York",
	"los angeles": "America/Los_Angeles",
	"chicago":     "America/Chicago",
	"seattle":     "America/Los_Angeles",
	"denver":      "America/Denver",
	"london":      "Europe/London",
	"paris":       "Europe/Paris",
	"berlin":      "Europe/Berlin",
	"tokyo":       "Asia/Tokyo",
	"sydney":      "Australia/Sydney",
	"dubai":       "Asia/Dubai",
	"mumbai":      "Asia/Kolkata",
	"singapore":   "Asia/Singapore",
	"hong kong":   "Asia/Hong_Kong",
}

// WorldTime provides current time data from the worldtimeapi.org API.
type WorldTime struct {
	rest    *restClient
	baseURL string
}

func NewWorldTime(rest *restClient) *WorldTime {
	return &WorldTime{rest: rest, baseURL: defaultWorldTimeBaseURL}
}

func (w *WorldTime) Plugins() []Plugin {
	return []Plugin{
		{
			Descriptor: Descriptor{
				Name:        "WorldTime-GetWorldTime",
				Description: "Get the current REAL time in any major city.",
				Params: []Param{
					{Name: "city", Type: "string", Description: "City name (e.g., 'Tokyo', 'New York', 'London')", Required: true},
				},
			},
			Invoke: w.worldTime,
		},
	}
}

func (w *WorldTime) worldTime(ctx context.Context, args Args) Result {
	city, ok := args.Text("city")
	if !ok || city == "" {
		return Failf("Could not fetch time: missing city")
	}

	timezone, ok := timezoneMap[strings.ToLower(city)]
	if !ok {
		// Not an error: the model is told which cities are available.
		return Okf("Timezone not found for %s. Try: New York, London, Tokyo, Paris, Sydney, Dubai, Mumbai", city)
	}

	var data struct {
		Datetime  string `json:"datetime"`
		UTCOffset string `json:"utc_offset"`
	}
	if err := w.rest.getJSON(ctx, w.baseURL+"/"+timezone, &data); err != nil {
		return Failf("Could not fetch time for %s: %v", city, err)
	}

	dt, err := time.Parse(time.RFC3339Nano, data.Datetime)
	if err != nil {
		return Failf("Could not fetch time for %s: %v", city, err)
	}

	return Okf("🕐 %s: %s\n📅 %s\n🌐 UTC Offset: %s",
		titleCase(city),
		dt.Format("03:04:05 PM"),
		dt.Format("Monday, January 02, 2006"),
		data.UTCOffset,
	)
}

// titleCase upper-cases the first letter of every word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
