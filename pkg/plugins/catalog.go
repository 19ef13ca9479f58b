package plugins

import (
	"time"

	"concierge/pkg/tasks"
)

// Defaults builds the full capability catalog in its canonical order.
// All outbound HTTP capabilities share one client with the given timeout.
func Defaults(store *tasks.Store, timeout time.Duration) []Plugin {
	rest := newRestClient(timeout)

	groups := [][]Plugin{
		NewWeather(rest).Plugins(),
		NewCurrency(rest).Plugins(),
		NewWorldTime(rest).Plugins(),
		NewQuotes(rest).Plugins(),
		NewJokes(rest).Plugins(),
		NewWikipedia(rest).Plugins(),
		NewFinance().Plugins(),
		NewTaskManager(store).Plugins(),
	}

	var all []Plugin
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}
