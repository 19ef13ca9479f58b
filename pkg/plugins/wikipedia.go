package plugins

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"
)

const defaultWikipediaBaseURL = "https://en.wikipedia.org/api/rest_v1/page/summary"

// Wikipedia provides quick topic summaries from the Wikipedia REST API.
type Wikipedia struct {
	rest    *restClient
	baseURL string
}

func NewWikipedia(rest *restClient) *Wikipedia {
	return &Wikipedia{rest: rest, baseURL: defaultWikipediaBaseURL}
}

func (w *Wikipedia) Plugins() []Plugin {
	return []Plugin{
		{
			Descriptor: Descriptor{
				Name:        "Wikipedia-GetWikipediaSummary",
				Description: "Get a quick summary about any topic from Wikipedia.",
				Params: []Param{
					{Name: "topic", Type: "string", Description: "The topic to look up", Required: true},
				},
			},
			Invoke: w.summary,
		},
	}
}

func (w *Wikipedia) summary(ctx context.Context, args Args) Result {
	topic, ok := args.Text("topic")
	if !ok || topic == "" {
		return Failf("Could not fetch Wikipedia summary: missing topic")
	}

	var data struct {
		Title   string `json:"title"`
		Extract string `json:"extract"`
	}
	u := w.baseURL + "/" + url.PathEscape(strings.ReplaceAll(topic, " ", "_"))
	if err := w.rest.getJSON(ctx, u, &data); err != nil {
		return Failf("Could not fetch Wikipedia summary for '%s': %v", topic, err)
	}

	title := data.Title
	if title == "" {
		title = topic
	}
	extract := data.Extract
	if extract == "" {
		extract = "No summary available."
	}
	extract = truncateRunes(extract, 500)

	return Okf("📚 %s\n\n%s", title, extract)
}

// truncateRunes caps s at limit characters, never splitting a multibyte
// character, and marks the cut with an ellipsis.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
