package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"

	"concierge/pkg/config"
	"concierge/pkg/llm"
	"concierge/pkg/monitor"
	"concierge/pkg/plugins"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Engine runs the dispatch loop: it carries a conversation to the completion
// provider, executes whatever functions the model requests, feeds the
// observations back, and repeats until the model answers in plain text or
// the round cap is reached. The engine holds no per-request state; one
// Engine serves all channels concurrently.
type Engine struct {
	client       llm.Client
	registry     *plugins.Registry
	sysCfg       *config.SystemConfig
	systemPrompt string
	monitor      monitor.Monitor
}

// NewEngine wires the engine from its injected collaborators. The registry
// must already be frozen; mon may be nil.
func NewEngine(client llm.Client, registry *plugins.Registry, sysCfg *config.SystemConfig, systemPrompt string, mon monitor.Monitor) *Engine {
	return &Engine{
		client:       client,
		registry:     registry,
		sysCfg:       sysCfg,
		systemPrompt: systemPrompt,
		monitor:      mon,
	}
}

// toolSpecs renders the frozen registry as provider-neutral tool specs.
// Empty when function calling is disabled.
func (e *Engine) toolSpecs() []llm.ToolSpec {
	if !e.sysCfg.EnableTools {
		return nil
	}
	descs := e.registry.Descriptors()
	specs := make([]llm.ToolSpec, len(descs))
	for i, d := range descs {
		specs[i] = llm.ToolSpec{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Schema(),
		}
	}
	return specs
}

// Respond handles one user message end to end and returns the assistant's
// final text. The conversation is built fresh per call; nothing is shared
// between requests except the registry and the task store behind it.
//
// A non-nil error means the completion provider itself failed and no answer
// exists. Capability failures never surface here; they are folded into the
// conversation as observations and the model explains them in its answer.
func (e *Engine) Respond(ctx context.Context, channelID, username, message string) (string, error) {
	e.observe(channelID, username, "USER", message)

	messages := []llm.Message{
		llm.NewSystemMessage(e.systemPrompt),
		llm.NewUserMessage(message),
	}
	tools := e.toolSpecs()

	maxRounds := e.sysCfg.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = 1
	}

	var lastText string
	for round := 1; round <= maxRounds; round++ {
		turn, err := e.completeOnce(ctx, messages, tools)
		if err != nil {
			slog.ErrorContext(ctx, "Completion round failed", "round", round, "error", err)
			return "", fmt.Errorf("completion failed: %w", err)
		}

		if len(turn.ToolCalls) == 0 {
			text := turn.Text
			if text == "" {
				text = "I wasn't able to produce a response. Please try rephrasing your request."
			}
			e.observe(channelID, username, "ASSISTANT", text)
			return text, nil
		}

		if turn.Text != "" {
			lastText = turn.Text
		}
		messages = append(messages, llm.NewAssistantMessage(turn.Text, turn.ToolCalls))

		for _, tc := range turn.ToolCalls {
			messages = append(messages, e.resolveCall(ctx, tc))
		}
	}

	slog.WarnContext(ctx, "Dispatch round cap reached, answering with partial result", "max_rounds", maxRounds)
	text := lastText
	if text == "" {
		text = "I gathered some information but couldn't finish reasoning about it. Please try a more specific question."
	} else {
		text += "\n\n⚠️ I stopped before completing every lookup; the answer above may be partial."
	}
	e.observe(channelID, username, "ASSISTANT", text)
	return text, nil
}

// completeOnce runs a single completion round under the configured timeout.
func (e *Engine) completeOnce(ctx context.Context, messages []llm.Message, tools []llm.ToolSpec) (*llm.Turn, error) {
	timeout := time.Duration(e.sysCfg.LLMTimeoutMs) * time.Millisecond
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return e.client.Chat(runCtx, messages, tools)
}

// resolveCall executes one requested function call and always produces a
// tool observation, even when the adapter panics. Unknown names, malformed
// arguments, and adapter failures all become readable observations the
// model can work around.
func (e *Engine) resolveCall(ctx context.Context, tc llm.ToolCall) (msg llm.Message) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Capability panicked", "name", tc.Name, "error", r)
			msg = llm.NewToolMessage(tc.ID, tc.Name, "Error: internal processing fault while running "+tc.Name)
		}
	}()

	plugin, err := e.registry.Resolve(tc.Name)
	if err != nil {
		slog.ErrorContext(ctx, "Unknown capability requested", "name", tc.Name)
		return llm.NewToolMessage(tc.ID, tc.Name, fmt.Sprintf("Error: unknown function '%s'", tc.Name))
	}

	args := plugins.Args{}
	if tc.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
			slog.ErrorContext(ctx, "Failed to parse capability arguments", "name", tc.Name, "error", err)
			return llm.NewToolMessage(tc.ID, tc.Name, fmt.Sprintf("Error: could not parse arguments: %v", err))
		}
	}

	slog.InfoContext(ctx, "Executing capability", "name", tc.Name, "args", args)
	res := plugin.Invoke(ctx, args)
	if res.Failed() {
		slog.WarnContext(ctx, "Capability failed", "name", tc.Name, "error", res.Err)
	}
	return llm.NewToolMessage(tc.ID, tc.Name, res.Observation())
}

func (e *Engine) observe(channelID, username, msgType, content string) {
	if e.monitor == nil {
		return
	}
	e.monitor.OnMessage(monitor.MonitorMessage{
		Timestamp:   time.Now(),
		MessageType: msgType,
		ChannelID:   channelID,
		Username:    username,
		Content:     content,
	})
}
