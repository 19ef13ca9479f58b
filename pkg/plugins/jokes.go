package plugins

import (
	"context"
)

const defaultJokesBaseURL = "https://official-joke-api.appspot.com"

// Jokes provides random jokes from the Official Joke API.
type Jokes struct {
	rest    *restClient
	baseURL string
}

func NewJokes(rest *restClient) *Jokes {
	return &Jokes{rest: rest, baseURL: defaultJokesBaseURL}
}

func (j *Jokes) Plugins() []Plugin {
	return []Plugin{
		{
			Descriptor: Descriptor{
				Name:        "Jokes-GetRandomJoke",
				Description: "Get a random joke.",
			},
			Invoke: j.random,
		},
		{
			Descriptor: Descriptor{
				Name:        "Jokes-GetProgrammingJoke",
				Description: "Get a programming/tech joke.",
			},
			Invoke: j.programming,
		},
	}
}

type joke struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

func (j *Jokes) random(ctx context.Context, args Args) Result {
	var data joke
	if err := j.rest.getJSON(ctx, j.baseURL+"/random_joke", &data); err != nil {
		return Failf("Could not fetch joke: %v", err)
	}
	return Okf("😄 %s\n\n🎯 %s", data.Setup, data.Punchline)
}

func (j *Jokes) programming(ctx context.Context, args Args) Result {
	var data []joke
	if err := j.rest.getJSON(ctx, j.baseURL+"/jokes/programming/random", &data); err != nil {
		return Failf("Could not fetch programming joke: %v", err)
	}
	if len(data) == 0 {
		return Failf("Could not fetch programming joke: empty response")
	}
	return Okf("💻 %s\n\n🎯 %s", data[0].Setup, data[0].Punchline)
}
