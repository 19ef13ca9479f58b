package plugins

import (
	"context"
)

const defaultQuotesBaseURL = "https://zenquotes.io/api"

// Quotes provides inspirational quotes from the zenquotes.io API.
type Quotes struct {
	rest    *restClient
	baseURL string
}

func NewQuotes(rest *restClient) *Quotes {
	return &Quotes{rest: rest, baseURL: defaultQuotesBaseURL}
}

func (q *Quotes) Plugins() []Plugin {
	return []Plugin{
		{
			Descriptor: Descriptor{
				Name:        "Quotes-GetRandomQuote",
				Description: "Get a random inspirational quote.",
			},
			Invoke: q.random,
		},
		{
			Descriptor: Descriptor{
				Name:        "Quotes-GetQuoteByTag",
				Description: "Get a motivational or inspirational quote. Note: specific categories are not available, returns a random inspirational quote.",
				Params: []Param{
					{Name: "tag", Type: "string", Description: "Quote category (returns random inspirational quote)", Required: true},
				},
			},
			Invoke: q.byTag,
		},
	}
}

func (q *Quotes) random(ctx context.Context, args Args) Result {
	var data []struct {
		Quote  string `json:"q"`
		Author string `json:"a"`
	}
	if err := q.rest.getJSON(ctx, q.baseURL+"/random", &data); err != nil {
		return Failf("Could not fetch quote: %v", err)
	}
	if len(data) == 0 {
		return Failf("Could not fetch quote: empty response")
	}

	quote, author := data[0].Quote, data[0].Author
	if quote == "" {
		quote = "No quote available"
	}
	if author == "" {
		author = "Unknown"
	}

	return Okf("💭 \"%s\"\n   — %s", quote, author)
}

// byTag ignores the tag: the upstream API has no category endpoint, so a
// random quote is returned regardless of what was asked for.
func (q *Quotes) byTag(ctx context.Context, args Args) Result {
	return q.random(ctx, args)
}
