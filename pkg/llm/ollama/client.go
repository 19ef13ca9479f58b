package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"concierge/pkg/llm"
	"concierge/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/ollama/ollama/api"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OllamaClient wraps the official Ollama API client.
type OllamaClient struct {
	client  *api.Client
	model   string
	options map[string]any
}

// NewOllamaClient creates an Ollama client
func NewOllamaClient(model string, baseURL string, options map[string]any) (*OllamaClient, error) {
	var client *api.Client
	var err error

	// Custom transport: local models can take minutes to answer, so no
	// response timeout is imposed by the client itself.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 0,
	}

	customClient := &http.Client{
		Transport: transport,
		Timeout:   0,
	}

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		client = api.NewClient(u, customClient)
	} else {
		client, err = api.ClientFromEnvironment()
	}

	if err != nil {
		return nil, err
	}

	slog.Info("Ollama client initialized", "model", model, "base_url", baseURL)

	return &OllamaClient{
		client:  client,
		model:   model,
		options: options,
	}, nil
}

func (o *OllamaClient) Provider() string {
	return "ollama"
}

func (o *OllamaClient) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "server busy") ||
		strings.Contains(msg, "loading model")
}

// Chat implements llm.Client with a single non-streamed request.
func (o *OllamaClient) Chat(ctx context.Context, messages []llm.Message, tools []llm.ToolSpec) (*llm.Turn, error) {
	ollamaTools, err := o.convertTools(tools)
	if err != nil {
		return nil, err
	}

	streamVal := false
	req := &api.ChatRequest{
		Model:    o.model,
		Messages: o.convertMessages(messages),
		Options:  o.options,
		Tools:    ollamaTools,
		Stream:   &streamVal,
	}

	var turn *llm.Turn
	err = o.client.Chat(ctx, req, func(r api.ChatResponse) error {
		t := &llm.Turn{
			Text:       r.Message.Content,
			StopReason: normalizeStopReason(r.DoneReason),
		}
		for _, tc := range r.Message.ToolCalls {
			argsJSON, err := json.Marshal(tc.Function.Arguments)
			if err != nil {
				return fmt.Errorf("failed to encode tool arguments: %w", err)
			}
			t.ToolCalls = append(t.ToolCalls, llm.ToolCall{
				// Ollama does not assign call IDs; mint one so tool
				// observations can be correlated in the conversation.
				ID:        utils.GenerateID(),
				Name:      tc.Function.Name,
				Arguments: string(argsJSON),
			})
		}
		if len(t.ToolCalls) > 0 {
			t.StopReason = llm.StopReasonToolCalls
		}
		if r.PromptEvalCount > 0 || r.EvalCount > 0 {
			t.Usage = &llm.Usage{
				PromptTokens:     r.PromptEvalCount,
				CompletionTokens: r.EvalCount,
				TotalTokens:      r.PromptEvalCount + r.EvalCount,
			}
		}
		turn = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat failed: %w", err)
	}
	if turn == nil {
		return nil, fmt.Errorf("ollama returned no response")
	}

	return turn, nil
}

func (o *OllamaClient) convertMessages(messages []llm.Message) []api.Message {
	apiMessages := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		apiMsg := api.Message{
			Role:    m.Role,
			Content: m.Content,
		}
		for _, tc := range m.ToolCalls {
			var args api.ToolCallFunctionArguments
			if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
				slog.Warn("Skipping unparseable tool call in history", "provider", "ollama", "error", err)
				continue
			}
			apiMsg.ToolCalls = append(apiMsg.ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      tc.Name,
					Arguments: args,
				},
			})
		}
		apiMessages = append(apiMessages, apiMsg)
	}
	return apiMessages
}

// convertTools goes through JSON to bridge the SDK's concrete schema structs,
// same trick the docs suggest for dynamic schemas.
func (o *OllamaClient) convertTools(tools []llm.ToolSpec) ([]api.Tool, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	raw := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		raw = append(raw, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.Parameters,
			},
		})
	}

	rawB, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tools: %w", err)
	}
	var ollamaTools []api.Tool
	if err := json.Unmarshal(rawB, &ollamaTools); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to api.Tool: %w", err)
	}
	return ollamaTools, nil
}

// normalizeStopReason converts Ollama's done_reason to the standard values.
func normalizeStopReason(reason string) string {
	switch strings.ToLower(reason) {
	case "stop", "":
		return llm.StopReasonStop
	case "length":
		return llm.StopReasonLength
	default:
		return reason
	}
}
