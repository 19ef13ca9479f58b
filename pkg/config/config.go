package config

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// Config defines the global application configuration structure.
// This structure maps directly to the config.json file and holds
// business-level settings like the LLM provider groups, optional
// chat channels, and the assistant persona.
type Config struct {
	// LLM holds the configuration for the completion providers in raw JSON.
	// It is decoded by the llm package into provider groups.
	LLM jsoniter.RawMessage `json:"llm"`
	// Channels contains a map of channel identifiers (e.g. "telegram")
	// to their specific configuration payloads in raw JSON format.
	// The web channel is always on; others start only when configured.
	Channels map[string]jsoniter.RawMessage `json:"channels"`
	// SystemPrompt is the assistant persona sent as the initial system
	// message of every conversation. Empty means DefaultSystemPrompt.
	SystemPrompt string `json:"system_prompt"`
}

// DefaultSystemPrompt is used when config.json does not override the persona.
const DefaultSystemPrompt = "You are a helpful personal assistant. " +
	"Use the available functions to answer with real, live data whenever possible. " +
	"Keep answers concise and include the data returned by the functions."

// Validate ensures the configuration structure contains all mandatory fields.
// It acts as a primary guard before the system proceeds to initialization.
func (c *Config) Validate() error {
	if len(c.LLM) == 0 {
		return fmt.Errorf("mandatory 'llm' configuration is missing or empty")
	}
	return nil
}

// SystemConfig defines engine-level technical parameters.
// These settings are stored in system.json and control the reliability
// and technical behavior of the dispatch loop and the HTTP shell.
type SystemConfig struct {
	// MaxToolRounds is the hard cap on model<->function round trips within a
	// single chat request. Reaching it ends the request with a truncated,
	// best-effort answer instead of looping forever.
	MaxToolRounds int `json:"max_tool_rounds"`
	// LLMTimeoutMs is the hard cutoff time (in milliseconds) for a single
	// completion request. The context is cancelled when exceeded.
	LLMTimeoutMs int `json:"llm_timeout_ms"`
	// PluginTimeoutMs is the request timeout (in milliseconds) applied to
	// every outbound capability call (weather, currency, ...). No retries.
	PluginTimeoutMs int `json:"plugin_timeout_ms"`
	// MaxRetries is the number of attempts per provider before the fallback
	// chain moves on. 1 means a single attempt, no retry.
	MaxRetries int `json:"max_retries"`
	// RetryDelayMs is the duration to wait (in milliseconds) between
	// consecutive provider attempts.
	RetryDelayMs int `json:"retry_delay_ms"`
	// HTTPPort is the listen port of the web API.
	HTTPPort int `json:"http_port"`
	// EnableTools globally toggles function calling. If false, the model is
	// offered no capabilities and answers from its own knowledge.
	EnableTools bool `json:"enable_tools"`
	// LogLevel sets the minimum severity for log output.
	// Accepted values: "debug", "info", "warn", "error". Default: "info".
	LogLevel string `json:"log_level"`
}

// DefaultSystemConfig returns a SystemConfig pointer initialized with hardcoded
// safe default values. This is used as a fallback when the system.json file
// is missing or corrupt, ensuring the gateway can always start.
func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		MaxToolRounds:   10,
		LLMTimeoutMs:    120000,
		PluginTimeoutMs: 10000,
		MaxRetries:      1,
		RetryDelayMs:    500,
		HTTPPort:        8000,
		EnableTools:     true,
		LogLevel:        "info",
	}
}

// Load reads and parses the JSON configuration files from the current working directory.
// It first attempts to load 'config.json' (app config). If this file is missing, it returns an error.
// Then it calls LoadSystemConfig to load 'system.json'.
// Returns pointers to the loaded Config and SystemConfig, or an error if the mandatory app config fails.
func Load() (*Config, *SystemConfig, error) {
	appPath := "config.json"
	if _, err := os.Stat(appPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("config file '%s' not found. please create one", appPath)
	}

	appFile, err := os.ReadFile(appPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(appFile, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}

	sysCfg := LoadSystemConfig("system.json")

	return &cfg, sysCfg, nil
}

// LoadSystemConfig attempts to load system settings, returns defaults if it fails
func LoadSystemConfig(path string) *SystemConfig {
	cfg := DefaultSystemConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		return cfg // File not found, use defaults
	}

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(file, cfg); err != nil {
		return cfg // Parse failed, use defaults
	}

	return cfg
}
