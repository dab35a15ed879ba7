// Package config resolves typed configuration views from the process
// environment.
//
// Two views exist: LLMConfig for everything needed to reach an
// OpenAI-compatible endpoint, and ProjectConfig for runtime behaviour.
// Each field is resolved through a fixed chain of environment variables
// (most specific name first), parsed, validated, and otherwise filled with
// a compiled-in default. Both views are built together, cached by the
// Manager, and immutable afterwards.
package config

import (
	"log/slog"
	"time"
)

// LLMConfig is the model-facing view: connection, sampling, and limits for
// an OpenAI-compatible chat endpoint. Treat instances as read-only.
type LLMConfig struct {
	APIKey      string        `yaml:"api_key"`
	ModelName   string        `yaml:"model_name"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// DefaultLLMConfig returns the compiled-in LLM settings. The API key has no
// default; it must come from the environment (or a local endpoint).
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		ModelName:   "kimi-k2-0905-preview",
		BaseURL:     "https://api.moonshot.cn/v1",
		Temperature: 0.7,
		MaxTokens:   1000,
		Timeout:     30 * time.Second,
	}
}

// Redacted returns a copy with the API key masked. Every output path that
// renders an LLMConfig must go through this; raw keys never reach logs,
// dumps, or terminals.
func (c LLMConfig) Redacted() LLMConfig {
	out := c
	out.APIKey = redactSecret(c.APIKey)
	return out
}

// MarshalYAML renders the timeout as a duration string instead of an
// integer nanosecond count.
func (c LLMConfig) MarshalYAML() (any, error) {
	type display struct {
		APIKey      string  `yaml:"api_key"`
		ModelName   string  `yaml:"model_name"`
		BaseURL     string  `yaml:"base_url"`
		Temperature float64 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
		Timeout     string  `yaml:"timeout"`
	}
	return display{
		APIKey:      c.APIKey,
		ModelName:   c.ModelName,
		BaseURL:     c.BaseURL,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Timeout:     c.Timeout.String(),
	}, nil
}

// ProjectConfig is the project-facing view: identity, workflow limits,
// logging, and working directories. Treat instances as read-only.
type ProjectConfig struct {
	ProjectName         string `yaml:"project_name"`
	Version             string `yaml:"version"`
	MaxIterations       int    `yaml:"max_iterations"`
	DebugMode           bool   `yaml:"debug_mode"`
	LogLevel            string `yaml:"log_level"` // DEBUG, INFO, WARN or ERROR
	DataDir             string `yaml:"data_dir"`
	CacheDir            string `yaml:"cache_dir"`
	LogsDir             string `yaml:"logs_dir"`
	WorkRoot            string `yaml:"agent_work_root"`
	DefaultUserMessage  string `yaml:"default_user_message"`
	CompletionThreshold int    `yaml:"completion_threshold"`
}

// DefaultProjectConfig returns the compiled-in project settings.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		ProjectName:         "planloop",
		Version:             "1.0.0",
		MaxIterations:       10,
		LogLevel:            "INFO",
		DataDir:             "./data",
		CacheDir:            "./cache",
		LogsDir:             "./logs",
		WorkRoot:            "./agent_work",
		DefaultUserMessage:  "Please help me complete a task.",
		CompletionThreshold: 3,
	}
}

// SlogLevel maps LogLevel onto the slog scale. LogLevel is validated at
// build time, so unknown values cannot occur here; INFO is the fallthrough.
func (c ProjectConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
