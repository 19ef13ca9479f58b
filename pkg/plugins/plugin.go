package plugins

import (
	"context"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Param describes one parameter of a capability, in declaration order.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "string", "number", "integer"
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
}

// Descriptor is the immutable identity of one capability: its qualified
// name (Group-Function, e.g. "Weather-GetCurrentWeather"), the description
// shown to the model, and its parameters.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params,omitempty"`
}

// Schema renders the parameters as a JSON Schema object suitable for
// function-calling APIs.
func (d Descriptor) Schema() map[string]any {
	properties := make(map[string]any, len(d.Params))
	required := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// InvokeFunc executes one capability. It must never panic across this
// boundary; any fault is reported through the Result.
type InvokeFunc func(ctx context.Context, args Args) Result

// Plugin pairs a descriptor with its adapter, as registered at startup.
type Plugin struct {
	Descriptor Descriptor
	Invoke     InvokeFunc
}

//----------------------------------------------------------------
// Result - typed adapter outcome
//----------------------------------------------------------------

// Result is the outcome of one capability invocation: either a textual
// observation for the model, or a failure reason. Failures are still
// rendered as text at the loop boundary; the type only keeps the two
// cases distinguishable inside the process.
type Result struct {
	Text string
	Err  error
}

// Ok wraps a successful textual observation.
func Ok(text string) Result {
	return Result{Text: text}
}

// Okf formats a successful textual observation.
func Okf(format string, a ...any) Result {
	return Result{Text: fmt.Sprintf(format, a...)}
}

// Fail wraps a failure reason.
func Fail(err error) Result {
	return Result{Err: err}
}

// Failf formats a failure reason.
func Failf(format string, a ...any) Result {
	return Result{Err: fmt.Errorf(format, a...)}
}

// Failed reports whether the invocation failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Observation renders the result as the text fed back to the model.
// Failure reasons are already written for humans ("Could not fetch ..."),
// so they pass through as-is.
func (r Result) Observation() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Text
}

//----------------------------------------------------------------
// Args - loosely typed model-provided arguments
//----------------------------------------------------------------

// Args is the argument map decoded from a model function call. Models are
// sloppy about JSON types (numbers arrive as float64 or quoted strings),
// so the getters coerce.
type Args map[string]any

// Text returns the string value for key.
func (a Args) Text(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return "", false
	}
}

// TextOr returns the string value for key, or def when absent.
func (a Args) TextOr(key, def string) string {
	if s, ok := a.Text(key); ok && s != "" {
		return s
	}
	return def
}

// Number returns the numeric value for key, coercing strings.
func (a Args) Number(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case jsoniter.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// NumberOr returns the numeric value for key, or def when absent.
func (a Args) NumberOr(key string, def float64) float64 {
	if f, ok := a.Number(key); ok {
		return f
	}
	return def
}

// Integer returns the integer value for key, coercing floats and strings.
func (a Args) Integer(key string) (int, bool) {
	f, ok := a.Number(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// IntegerOr returns the integer value for key, or def when absent.
func (a Args) IntegerOr(key string, def int) int {
	if n, ok := a.Integer(key); ok {
		return n
	}
	return def
}
