package config

import (
	"strings"
	"testing"
	"time"

	"github.com/planloop/planloop/internal/env"
)

// buildLLM builds the LLM view from vars and fails the test on error.
func buildLLM(t *testing.T, vars env.Static) *LLMConfig {
	t.Helper()
	cfg, err := buildLLMConfig(vars)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	return cfg
}

// buildProject builds the project view from vars and fails the test on error.
func buildProject(t *testing.T, vars env.Static) *ProjectConfig {
	t.Helper()
	cfg, err := buildProjectConfig(vars)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	return cfg
}

// ─── Precedence ────────────────────────────────────────────────────────────

func TestAPIKey_ProviderSpecificWins(t *testing.T) {
	cfg := buildLLM(t, env.Static{
		"MOONSHOT_API_KEY": "from-moonshot",
		"LLM_API_KEY":      "from-llm",
		"OPENAI_API_KEY":   "from-openai",
	})
	if cfg.APIKey != "from-moonshot" {
		t.Errorf("expected provider-specific key to win, got %q", cfg.APIKey)
	}
}

func TestAPIKey_VendorNeutralBeatsGeneric(t *testing.T) {
	cfg := buildLLM(t, env.Static{
		"LLM_API_KEY":    "from-llm",
		"OPENAI_API_KEY": "from-openai",
	})
	if cfg.APIKey != "from-llm" {
		t.Errorf("expected vendor-neutral key to win, got %q", cfg.APIKey)
	}
}

func TestAPIKey_GenericFallback(t *testing.T) {
	cfg := buildLLM(t, env.Static{"OPENAI_API_KEY": "from-openai"})
	if cfg.APIKey != "from-openai" {
		t.Errorf("expected generic key, got %q", cfg.APIKey)
	}
}

func TestChain_SkipsEmptyValues(t *testing.T) {
	// A set-but-empty high-precedence variable must not shadow a lower one.
	cfg := buildLLM(t, env.Static{
		"MOONSHOT_API_KEY": "",
		"LLM_API_KEY":      "real-key",
		"MOONSHOT_MODEL":   "",
		"LLM_MODEL_NAME":   "my-model",
	})
	if cfg.APIKey != "real-key" {
		t.Errorf("expected empty MOONSHOT_API_KEY to be skipped, got %q", cfg.APIKey)
	}
	if cfg.ModelName != "my-model" {
		t.Errorf("expected empty MOONSHOT_MODEL to be skipped, got %q", cfg.ModelName)
	}
}

func TestModel_ProviderSpecificWins(t *testing.T) {
	cfg := buildLLM(t, env.Static{
		"LLM_API_KEY":    "k",
		"MOONSHOT_MODEL": "moonshot-v1-8k",
		"LLM_MODEL_NAME": "other-model",
	})
	if cfg.ModelName != "moonshot-v1-8k" {
		t.Errorf("expected moonshot-v1-8k, got %q", cfg.ModelName)
	}
}

// ─── Defaults ──────────────────────────────────────────────────────────────

func TestLLM_Defaults(t *testing.T) {
	cfg := buildLLM(t, env.Static{"LLM_API_KEY": "k"})
	def := DefaultLLMConfig()

	if cfg.ModelName != def.ModelName {
		t.Errorf("expected default model %q, got %q", def.ModelName, cfg.ModelName)
	}
	if cfg.BaseURL != def.BaseURL {
		t.Errorf("expected default base URL %q, got %q", def.BaseURL, cfg.BaseURL)
	}
	if cfg.Temperature != def.Temperature {
		t.Errorf("expected default temperature %v, got %v", def.Temperature, cfg.Temperature)
	}
	if cfg.MaxTokens != def.MaxTokens {
		t.Errorf("expected default max tokens %d, got %d", def.MaxTokens, cfg.MaxTokens)
	}
	if cfg.Timeout != def.Timeout {
		t.Errorf("expected default timeout %v, got %v", def.Timeout, cfg.Timeout)
	}
}

func TestProject_Defaults(t *testing.T) {
	cfg := buildProject(t, env.Static{})
	def := DefaultProjectConfig()

	if cfg.ProjectName != def.ProjectName {
		t.Errorf("expected default project name %q, got %q", def.ProjectName, cfg.ProjectName)
	}
	if cfg.MaxIterations != def.MaxIterations {
		t.Errorf("expected default max iterations %d, got %d", def.MaxIterations, cfg.MaxIterations)
	}
	if cfg.DebugMode {
		t.Error("expected debug mode off by default")
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("expected default log level INFO, got %q", cfg.LogLevel)
	}
	if cfg.CompletionThreshold != def.CompletionThreshold {
		t.Errorf("expected default completion threshold %d, got %d", def.CompletionThreshold, cfg.CompletionThreshold)
	}
}

func TestProject_Overrides(t *testing.T) {
	cfg := buildProject(t, env.Static{
		"DEBUG_MODE":     "yes",
		"MAX_ITERATIONS": "20",
		"AGENT_WORK_DIR": "/tmp/work",
	})
	if !cfg.DebugMode {
		t.Error("expected debug mode on")
	}
	if cfg.MaxIterations != 20 {
		t.Errorf("expected max iterations 20, got %d", cfg.MaxIterations)
	}
	if cfg.WorkRoot != "/tmp/work" {
		t.Errorf("expected work root /tmp/work, got %q", cfg.WorkRoot)
	}
}

// ─── Credential requirement ────────────────────────────────────────────────

func TestMissingCredential(t *testing.T) {
	_, err := buildLLMConfig(env.Static{})
	if err == nil {
		t.Fatal("expected missing-credential error with no variables set")
	}
	if !IsMissingCredential(err) {
		t.Fatalf("expected MissingCredentialError, got %T: %v", err, err)
	}
	for _, name := range []string{"MOONSHOT_API_KEY", "LLM_API_KEY", "OPENAI_API_KEY"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected error to name %s, got: %v", name, err)
		}
	}
}

func TestLocalEndpoint_KeylessAllowed(t *testing.T) {
	for _, base := range []string{
		"http://localhost:11434/v1",
		"http://127.0.0.1:8000/v1",
	} {
		cfg, err := buildLLMConfig(env.Static{"LLM_BASE_URL": base})
		if err != nil {
			t.Errorf("expected keyless build against %s to succeed, got: %v", base, err)
			continue
		}
		if cfg.APIKey != "" {
			t.Errorf("expected empty API key, got %q", cfg.APIKey)
		}
	}
}

func TestHostedEndpoint_RequiresKey(t *testing.T) {
	_, err := buildLLMConfig(env.Static{"LLM_BASE_URL": "https://api.example.com/v1"})
	if !IsMissingCredential(err) {
		t.Fatalf("expected MissingCredentialError for hosted endpoint, got: %v", err)
	}
}

// ─── Validation ────────────────────────────────────────────────────────────

func TestTemperature_OutOfRange(t *testing.T) {
	_, err := buildLLMConfig(env.Static{
		"LLM_API_KEY":     "k",
		"LLM_TEMPERATURE": "3.5",
	})
	if err == nil {
		t.Fatal("expected error for temperature 3.5")
	}
	if !IsInvalidValue(err) {
		t.Fatalf("expected InvalidValueError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "temperature") || !strings.Contains(err.Error(), "3.5") {
		t.Errorf("expected error to name field and value, got: %v", err)
	}
}

func TestTemperature_NotANumber(t *testing.T) {
	_, err := buildLLMConfig(env.Static{
		"LLM_API_KEY":     "k",
		"LLM_TEMPERATURE": "warm",
	})
	if !IsInvalidValue(err) {
		t.Fatalf("expected InvalidValueError, got: %v", err)
	}
}

func TestTemperature_Boundaries(t *testing.T) {
	for _, raw := range []string{"0", "2", "0.0", "2.0"} {
		if _, err := buildLLMConfig(env.Static{"LLM_API_KEY": "k", "LLM_TEMPERATURE": raw}); err != nil {
			t.Errorf("expected temperature %s to be accepted, got: %v", raw, err)
		}
	}
}

func TestTemperature_NonFinite(t *testing.T) {
	// NaN compares false against both range bounds and must not slip into a
	// built view.
	for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf"} {
		_, err := buildLLMConfig(env.Static{"LLM_API_KEY": "k", "LLM_TEMPERATURE": raw})
		if !IsInvalidValue(err) {
			t.Errorf("expected InvalidValueError for temperature %q, got: %v", raw, err)
		}
	}
}

func TestMaxTokens_Invalid(t *testing.T) {
	for _, raw := range []string{"0", "-5", "abc", "10.5"} {
		_, err := buildLLMConfig(env.Static{"LLM_API_KEY": "k", "LLM_MAX_TOKENS": raw})
		if !IsInvalidValue(err) {
			t.Errorf("expected InvalidValueError for max tokens %q, got: %v", raw, err)
		}
	}
}

func TestTimeout_FractionalSeconds(t *testing.T) {
	cfg := buildLLM(t, env.Static{"LLM_API_KEY": "k", "LLM_TIMEOUT": "0.5"})
	if cfg.Timeout != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", cfg.Timeout)
	}
}

func TestTimeout_Invalid(t *testing.T) {
	for _, raw := range []string{"0", "-1", "soon", "30s"} {
		_, err := buildLLMConfig(env.Static{"LLM_API_KEY": "k", "LLM_TIMEOUT": raw})
		if !IsInvalidValue(err) {
			t.Errorf("expected InvalidValueError for timeout %q, got: %v", raw, err)
		}
	}
}

func TestTimeout_NonFinite(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "-Inf"} {
		_, err := buildLLMConfig(env.Static{"LLM_API_KEY": "k", "LLM_TIMEOUT": raw})
		if !IsInvalidValue(err) {
			t.Errorf("expected InvalidValueError for timeout %q, got: %v", raw, err)
		}
	}
}

func TestTimeout_OverflowRejected(t *testing.T) {
	// Second counts past the int64 nanosecond range cannot be represented;
	// converting them would wrap the duration negative.
	for _, raw := range []string{"9223372037", "1e15", "1e300"} {
		_, err := buildLLMConfig(env.Static{"LLM_API_KEY": "k", "LLM_TIMEOUT": raw})
		if !IsInvalidValue(err) {
			t.Errorf("expected InvalidValueError for timeout %q, got: %v", raw, err)
		}
	}

	// The largest representable whole-second count still builds, positive.
	cfg := buildLLM(t, env.Static{"LLM_API_KEY": "k", "LLM_TIMEOUT": "9223372036"})
	if cfg.Timeout <= 0 {
		t.Errorf("expected positive timeout at the upper bound, got %v", cfg.Timeout)
	}
}

func TestTimeout_SubNanosecond(t *testing.T) {
	_, err := buildLLMConfig(env.Static{"LLM_API_KEY": "k", "LLM_TIMEOUT": "1e-10"})
	if !IsInvalidValue(err) {
		t.Fatalf("expected InvalidValueError for timeout 1e-10, got: %v", err)
	}
}

func TestBaseURL_Invalid(t *testing.T) {
	_, err := buildLLMConfig(env.Static{
		"LLM_API_KEY":  "k",
		"LLM_BASE_URL": "not-a-url",
	})
	if !IsInvalidValue(err) {
		t.Fatalf("expected InvalidValueError for relative URL, got: %v", err)
	}
	if !strings.Contains(err.Error(), "base_url") {
		t.Errorf("expected error to name base_url, got: %v", err)
	}
}

func TestBooleanLiterals(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"true", true}, {"TRUE", true}, {"True", true},
		{"1", true}, {"yes", true}, {"YES", true},
		{"false", false}, {"FALSE", false}, {"0", false},
		{"no", false}, {"No", false},
	}
	for _, c := range cases {
		cfg, err := buildProjectConfig(env.Static{"DEBUG_MODE": c.raw})
		if err != nil {
			t.Errorf("expected %q to parse, got: %v", c.raw, err)
			continue
		}
		if cfg.DebugMode != c.want {
			t.Errorf("expected %q to mean %v, got %v", c.raw, c.want, cfg.DebugMode)
		}
	}
}

func TestBoolean_Unrecognised(t *testing.T) {
	_, err := buildProjectConfig(env.Static{"DEBUG_MODE": "maybe"})
	if !IsInvalidValue(err) {
		t.Fatalf("expected InvalidValueError for DEBUG_MODE=maybe, got: %v", err)
	}
	if !strings.Contains(err.Error(), "debug_mode") || !strings.Contains(err.Error(), "maybe") {
		t.Errorf("expected error to name field and value, got: %v", err)
	}
}

func TestLogLevel_Invalid(t *testing.T) {
	_, err := buildProjectConfig(env.Static{"LOG_LEVEL": "VERBOSE"})
	if !IsInvalidValue(err) {
		t.Fatalf("expected InvalidValueError for LOG_LEVEL=VERBOSE, got: %v", err)
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("expected error to name log_level, got: %v", err)
	}
}

func TestLogLevel_Normalised(t *testing.T) {
	cfg := buildProject(t, env.Static{"LOG_LEVEL": "warn"})
	if cfg.LogLevel != "WARN" {
		t.Errorf("expected WARN, got %q", cfg.LogLevel)
	}
}

func TestMaxIterations_Invalid(t *testing.T) {
	for _, raw := range []string{"0", "-3", "ten"} {
		_, err := buildProjectConfig(env.Static{"MAX_ITERATIONS": raw})
		if !IsInvalidValue(err) {
			t.Errorf("expected InvalidValueError for MAX_ITERATIONS=%q, got: %v", raw, err)
		}
	}
}
