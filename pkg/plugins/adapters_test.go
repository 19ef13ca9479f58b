package plugins

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"concierge/pkg/tasks"
)

func jsonHandler(t *testing.T, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}
}

func TestWeatherCurrent(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(jsonHandler(t, `{
		"current_condition": [{
			"temp_F": "72", "temp_C": "22", "FeelsLikeF": "70",
			"humidity": "55", "windspeedMiles": "8", "winddir16Point": "NW",
			"weatherDesc": [{"value": "Partly cloudy"}]
		}],
		"nearest_area": [{
			"areaName": [{"value": "Seattle"}],
			"country": [{"value": "United States of America"}]
		}]
	}`))
	defer srv.Close()

	w := NewWeather(newRestClient(time.Second))
	w.baseURL = srv.URL

	res := w.current(context.Background(), Args{"city": "Seattle"})
	require.False(t, res.Failed())
	require.Contains(t, res.Text, "📍 Seattle, United States of America")
	require.Contains(t, res.Text, "72°F (22°C)")
	require.Contains(t, res.Text, "Partly cloudy")
	require.Contains(t, res.Text, "8 mph NW")
}

func TestWeatherUpstreamFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	w := NewWeather(newRestClient(time.Second))
	w.baseURL = srv.URL

	res := w.current(context.Background(), Args{"city": "Seattle"})
	require.True(t, res.Failed())
	require.Contains(t, res.Observation(), "Could not fetch weather for Seattle")
}

func TestWeatherForecast(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(jsonHandler(t, `{
		"nearest_area": [{"areaName": [{"value": "Tokyo"}]}],
		"weather": [
			{"date": "2026-08-30", "maxtempF": "88", "mintempF": "75",
			 "hourly": [{"weatherDesc": [{"value": "Sunny"}], "chanceofrain": "5"}]},
			{"date": "2026-08-31", "maxtempF": "85", "mintempF": "73",
			 "hourly": [{"weatherDesc": [{"value": "Rain"}], "chanceofrain": "80"}]}
		]
	}`))
	defer srv.Close()

	w := NewWeather(newRestClient(time.Second))
	w.baseURL = srv.URL

	res := w.forecast(context.Background(), Args{"city": "Tokyo"})
	require.False(t, res.Failed())
	require.Contains(t, res.Text, "📅 3-Day Forecast for Tokyo:")
	require.Contains(t, res.Text, "📆 2026-08-30: 75°F - 88°F | Sunny | 🌧️ 5% rain")
	require.Contains(t, res.Text, "📆 2026-08-31: 73°F - 85°F | Rain | 🌧️ 80% rain")
}

func TestCurrencyConvert(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(jsonHandler(t, `{"date": "2026-08-28", "rates": {"EUR": 92.50}}`))
	defer srv.Close()

	c := NewCurrency(newRestClient(time.Second))
	c.baseURL = srv.URL

	res := c.convert(context.Background(), Args{
		"amount":        float64(100),
		"from_currency": "usd",
		"to_currency":   "eur",
	})
	require.False(t, res.Failed())
	require.Contains(t, res.Text, "💱 100.00 USD = 92.50 EUR")
	require.Contains(t, res.Text, "1 USD = 0.9250 EUR")
	require.Contains(t, res.Text, "as of 2026-08-28")
}

func TestCurrencyRatesStableOrder(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(jsonHandler(t, `{"date": "2026-08-28",
		"rates": {"EUR": 0.92, "GBP": 0.79, "JPY": 147.1}}`))
	defer srv.Close()

	c := NewCurrency(newRestClient(time.Second))
	c.baseURL = srv.URL

	res := c.rates(context.Background(), Args{
		"base_currency":     "USD",
		"target_currencies": "JPY,EUR,GBP",
	})
	require.False(t, res.Failed())

	jpy := strings.Index(res.Text, "JPY")
	eur := strings.Index(res.Text, "EUR")
	gbp := strings.Index(res.Text, "GBP")
	require.True(t, jpy < eur && eur < gbp, "rates must follow the requested order: %q", res.Text)
}

func TestWorldTimeUnknownCity(t *testing.T) {
	t.Parallel()
	w := NewWorldTime(newRestClient(time.Second))

	res := w.worldTime(context.Background(), Args{"city": "Atlantis"})
	require.False(t, res.Failed())
	require.Contains(t, res.Text, "Timezone not found for Atlantis")
	require.Contains(t, res.Text, "Try: New York, London, Tokyo")
}

func TestWorldTimeKnownCity(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Asia/Tokyo", r.URL.Path)
		jsonHandler(t, `{"datetime": "2026-08-30T15:04:05.123456+09:00", "utc_offset": "+09:00"}`)(w, r)
	}))
	defer srv.Close()

	w := NewWorldTime(newRestClient(time.Second))
	w.baseURL = srv.URL

	res := w.worldTime(context.Background(), Args{"city": "tokyo"})
	require.False(t, res.Failed())
	require.Contains(t, res.Text, "🕐 Tokyo: 03:04:05 PM")
	require.Contains(t, res.Text, "Sunday, August 30, 2026")
	require.Contains(t, res.Text, "UTC Offset: +09:00")
}

func TestQuotesRandom(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(jsonHandler(t, `[{"q": "Stay hungry.", "a": "Steve Jobs"}]`))
	defer srv.Close()

	q := NewQuotes(newRestClient(time.Second))
	q.baseURL = srv.URL

	res := q.random(context.Background(), Args{})
	require.False(t, res.Failed())
	require.Equal(t, "💭 \"Stay hungry.\"\n   — Steve Jobs", res.Text)
}

func TestQuotesByTagIgnoresTag(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/random", r.URL.Path)
		jsonHandler(t, `[{"q": "Dream big.", "a": "Unknown"}]`)(w, r)
	}))
	defer srv.Close()

	q := NewQuotes(newRestClient(time.Second))
	q.baseURL = srv.URL

	res := q.byTag(context.Background(), Args{"tag": "success"})
	require.False(t, res.Failed())
	require.Contains(t, res.Text, "Dream big.")
}

func TestJokes(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/random_joke":
			jsonHandler(t, `{"setup": "Why?", "punchline": "Because."}`)(w, r)
		case "/jokes/programming/random":
			jsonHandler(t, `[{"setup": "A SQL query walks into a bar.", "punchline": "It joins two tables."}]`)(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	j := NewJokes(newRestClient(time.Second))
	j.baseURL = srv.URL

	res := j.random(context.Background(), Args{})
	require.False(t, res.Failed())
	require.Equal(t, "😄 Why?\n\n🎯 Because.", res.Text)

	res = j.programming(context.Background(), Args{})
	require.False(t, res.Failed())
	require.Equal(t, "💻 A SQL query walks into a bar.\n\n🎯 It joins two tables.", res.Text)
}

func TestWikipediaSummaryTruncation(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("a", 600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Go_%28programming_language%29", r.URL.EscapedPath())
		jsonHandler(t, `{"title": "Go (programming language)", "extract": "`+long+`"}`)(w, r)
	}))
	defer srv.Close()

	wp := NewWikipedia(newRestClient(time.Second))
	wp.baseURL = srv.URL

	res := wp.summary(context.Background(), Args{"topic": "Go (programming language)"})
	require.False(t, res.Failed())
	require.True(t, strings.HasPrefix(res.Text, "📚 Go (programming language)\n\n"))
	require.True(t, strings.HasSuffix(res.Text, "..."))
	require.Contains(t, res.Text, strings.Repeat("a", 500))
	require.NotContains(t, res.Text, strings.Repeat("a", 501))
}

func TestWikipediaSummaryTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()
	// A multibyte character straddling the cut point must survive whole.
	extract := strings.Repeat("a", 499) + strings.Repeat("é", 3)
	srv := httptest.NewServer(jsonHandler(t, `{"title": "Accents", "extract": "`+extract+`"}`))
	defer srv.Close()

	wp := NewWikipedia(newRestClient(time.Second))
	wp.baseURL = srv.URL

	res := wp.summary(context.Background(), Args{"topic": "Accents"})
	require.False(t, res.Failed())
	require.True(t, utf8.ValidString(res.Text))
	require.True(t, strings.HasSuffix(res.Text, "é..."))
	require.Equal(t, 500, utf8.RuneCountInString(strings.TrimSuffix(strings.SplitN(res.Text, "\n\n", 2)[1], "...")))
}

func TestCurrencyConvertZeroAmount(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(jsonHandler(t, `{"date": "2026-08-28", "rates": {"EUR": 0}}`))
	defer srv.Close()

	c := NewCurrency(newRestClient(time.Second))
	c.baseURL = srv.URL

	res := c.convert(context.Background(), Args{
		"amount":        float64(0),
		"from_currency": "USD",
		"to_currency":   "EUR",
	})
	require.False(t, res.Failed())
	require.Equal(t, "💱 0.00 USD = 0.00 EUR (as of 2026-08-28)", res.Text)
	require.NotContains(t, res.Text, "NaN")
}

func TestTaskManagerPlugins(t *testing.T) {
	t.Parallel()
	store := tasks.NewStore()
	list := NewTaskManager(store).Plugins()

	res := invokeByName(t, list, "Tasks-GetTasks", Args{})
	require.False(t, res.Failed())
	require.Contains(t, res.Text, "📋 Tasks (all):")
	require.Contains(t, res.Text, "⬜ [1] 🔴 Review quarterly report (Due: today)")
	require.Contains(t, res.Text, "⬜ [3] 🟢 Update project documentation (Due: tomorrow)")

	res = invokeByName(t, list, "Tasks-AddTask", Args{"task": "Write release notes", "priority": "urgent"})
	require.False(t, res.Failed())
	require.Equal(t, "✅ Task added: [4] Write release notes (Priority: medium, Due: today)", res.Text)

	res = invokeByName(t, list, "Tasks-CompleteTask", Args{"task_id": float64(4)})
	require.False(t, res.Failed())
	require.Equal(t, "✅ Completed: Write release notes", res.Text)

	res = invokeByName(t, list, "Tasks-CompleteTask", Args{"task_id": float64(99)})
	require.False(t, res.Failed())
	require.Equal(t, "❌ Task with ID 99 not found", res.Text)

	res = invokeByName(t, list, "Tasks-GetTasks", Args{"filter_by": "done"})
	require.False(t, res.Failed())
	require.Contains(t, res.Text, "✅ [4] 🟡 Write release notes (Due: today)")

	res = invokeByName(t, list, "Tasks-GetTasks", Args{"filter_by": "nothing-matches-this"})
	require.False(t, res.Failed())
	require.Contains(t, res.Text, "[1]")
}

func TestCatalogRegistersCleanly(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	for _, p := range Defaults(tasks.NewStore(), time.Second) {
		require.NoError(t, r.Register(p))
	}
	r.Freeze()

	// Two each for weather, currency, quotes and jokes; one each for world
	// time and wikipedia; four finance; three task functions.
	require.Equal(t, 17, r.Len())

	descs := r.Descriptors()
	require.Equal(t, "Weather-GetCurrentWeather", descs[0].Name)
	require.Equal(t, "Tasks-CompleteTask", descs[len(descs)-1].Name)
}
