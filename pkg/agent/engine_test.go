package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"concierge/pkg/config"
	"concierge/pkg/llm"
	"concierge/pkg/plugins"
	"concierge/pkg/tasks"
)

// scriptedClient replays a fixed sequence of turns and records every
// conversation it was handed.
type scriptedClient struct {
	turns []*llm.Turn
	err   error
	calls [][]llm.Message
}

func (s *scriptedClient) Chat(ctx context.Context, messages []llm.Message, tools []llm.ToolSpec) (*llm.Turn, error) {
	snapshot := make([]llm.Message, len(messages))
	copy(snapshot, messages)
	s.calls = append(s.calls, snapshot)

	if s.err != nil {
		return nil, s.err
	}
	if len(s.turns) == 0 {
		return &llm.Turn{Text: "done", StopReason: llm.StopReasonStop}, nil
	}
	turn := s.turns[0]
	if len(s.turns) > 1 {
		s.turns = s.turns[1:]
	}
	return turn, nil
}

func (s *scriptedClient) IsTransientError(err error) bool { return false }

func testRegistry(t *testing.T, extra ...plugins.Plugin) *plugins.Registry {
	t.Helper()
	r := plugins.NewRegistry()
	for _, p := range plugins.Defaults(tasks.NewStore(), time.Second) {
		require.NoError(t, r.Register(p))
	}
	for _, p := range extra {
		require.NoError(t, r.Register(p))
	}
	r.Freeze()
	return r
}

func newTestEngine(t *testing.T, client llm.Client, extra ...plugins.Plugin) *Engine {
	t.Helper()
	return NewEngine(client, testRegistry(t, extra...), config.DefaultSystemConfig(), "You are a helpful assistant.", nil)
}

func TestRespondPlainAnswer(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{turns: []*llm.Turn{
		{Text: "Hello there!", StopReason: llm.StopReasonStop},
	}}
	e := newTestEngine(t, client)

	out, err := e.Respond(context.Background(), "web", "alice", "hi")
	require.NoError(t, err)
	require.Equal(t, "Hello there!", out)

	require.Len(t, client.calls, 1)
	require.Equal(t, llm.RoleSystem, client.calls[0][0].Role)
	require.Equal(t, llm.RoleUser, client.calls[0][1].Role)
	require.Equal(t, "hi", client.calls[0][1].Content)
}

func TestRespondExecutesToolCall(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{turns: []*llm.Turn{
		{ToolCalls: []llm.ToolCall{{
			ID:        "call_1",
			Name:      "Finance-CalculateTip",
			Arguments: `{"bill_amount": 80, "tip_percentage": 15}`,
		}}},
		{Text: "The tip is $12.00 and the total is $92.00.", StopReason: llm.StopReasonStop},
	}}
	e := newTestEngine(t, client)

	out, err := e.Respond(context.Background(), "web", "bob", "tip for an $80 bill at 15%?")
	require.NoError(t, err)
	require.Equal(t, "The tip is $12.00 and the total is $92.00.", out)

	require.Len(t, client.calls, 2)
	second := client.calls[1]
	assistant := second[2]
	require.Equal(t, llm.RoleAssistant, assistant.Role)
	require.Len(t, assistant.ToolCalls, 1)

	observation := second[3]
	require.Equal(t, llm.RoleTool, observation.Role)
	require.Equal(t, "call_1", observation.ToolCallID)
	require.Equal(t, "🧾 Bill: $80.00\n💵 Tip (15%): $12.00\n💰 Total: $92.00", observation.Content)
}

func TestRespondSurvivesFailingCapability(t *testing.T) {
	t.Parallel()
	failing := plugins.Plugin{
		Descriptor: plugins.Descriptor{Name: "Broken-AlwaysFails", Description: "always fails"},
		Invoke: func(ctx context.Context, args plugins.Args) plugins.Result {
			return plugins.Failf("Could not fetch data: upstream unavailable")
		},
	}
	client := &scriptedClient{turns: []*llm.Turn{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "Broken-AlwaysFails", Arguments: `{}`}}},
		{Text: "Sorry, the upstream service is unavailable right now.", StopReason: llm.StopReasonStop},
	}}
	e := newTestEngine(t, client, failing)

	out, err := e.Respond(context.Background(), "web", "carol", "fetch data")
	require.NoError(t, err)
	require.Contains(t, out, "unavailable")

	observation := client.calls[1][3]
	require.Equal(t, llm.RoleTool, observation.Role)
	require.Equal(t, "Could not fetch data: upstream unavailable", observation.Content)
}

func TestRespondHandlesUnknownFunction(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{turns: []*llm.Turn{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "No-SuchThing", Arguments: `{}`}}},
		{Text: "I couldn't do that.", StopReason: llm.StopReasonStop},
	}}
	e := newTestEngine(t, client)

	_, err := e.Respond(context.Background(), "web", "dave", "do the thing")
	require.NoError(t, err)

	observation := client.calls[1][3]
	require.Contains(t, observation.Content, "Error: unknown function 'No-SuchThing'")
}

func TestRespondHandlesMalformedArguments(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{turns: []*llm.Turn{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "Finance-CalculateTip", Arguments: `{not json`}}},
		{Text: "Something went wrong with that request.", StopReason: llm.StopReasonStop},
	}}
	e := newTestEngine(t, client)

	_, err := e.Respond(context.Background(), "web", "erin", "tip please")
	require.NoError(t, err)

	observation := client.calls[1][3]
	require.Contains(t, observation.Content, "Error: could not parse arguments")
}

func TestRespondCatchesPanickingCapability(t *testing.T) {
	t.Parallel()
	panicking := plugins.Plugin{
		Descriptor: plugins.Descriptor{Name: "Broken-Panics", Description: "panics"},
		Invoke: func(ctx context.Context, args plugins.Args) plugins.Result {
			panic("boom")
		},
	}
	client := &scriptedClient{turns: []*llm.Turn{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "Broken-Panics", Arguments: `{}`}}},
		{Text: "That tool misbehaved.", StopReason: llm.StopReasonStop},
	}}
	e := newTestEngine(t, client, panicking)

	out, err := e.Respond(context.Background(), "web", "frank", "run it")
	require.NoError(t, err)
	require.Equal(t, "That tool misbehaved.", out)

	observation := client.calls[1][3]
	require.Equal(t, llm.RoleTool, observation.Role)
	require.Contains(t, observation.Content, "internal processing fault")
}

func TestRespondStopsAtRoundCap(t *testing.T) {
	t.Parallel()
	// A single looping turn replays forever: the model keeps asking for
	// another quote and never produces a final answer.
	client := &scriptedClient{turns: []*llm.Turn{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "Tasks-GetTasks", Arguments: `{}`}}},
	}}
	e := newTestEngine(t, client)

	out, err := e.Respond(context.Background(), "web", "grace", "list tasks forever")
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.Len(t, client.calls, config.DefaultSystemConfig().MaxToolRounds)
}

func TestRespondPropagatesCompletionFailure(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{err: errors.New("provider unreachable")}
	e := newTestEngine(t, client)

	_, err := e.Respond(context.Background(), "web", "heidi", "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "provider unreachable")
}

func TestRespondEmptyAnswerFallback(t *testing.T) {
	t.Parallel()
	client := &scriptedClient{turns: []*llm.Turn{
		{Text: "", StopReason: llm.StopReasonStop},
	}}
	e := newTestEngine(t, client)

	out, err := e.Respond(context.Background(), "web", "ivan", "say nothing")
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestToolSpecsDisabled(t *testing.T) {
	t.Parallel()
	sysCfg := config.DefaultSystemConfig()
	sysCfg.EnableTools = false

	e := NewEngine(&scriptedClient{}, testRegistry(t), sysCfg, "prompt", nil)
	require.Empty(t, e.toolSpecs())
}
