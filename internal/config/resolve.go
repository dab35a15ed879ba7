package config

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/planloop/planloop/internal/env"
)

// Environment variable chains, most specific name first. A provider-specific
// variable beats the vendor-neutral LLM_* name, which beats the generic
// OPENAI_* compatibility name.
var (
	apiKeyChain  = []string{"MOONSHOT_API_KEY", "LLM_API_KEY", "OPENAI_API_KEY"}
	modelChain   = []string{"MOONSHOT_MODEL", "LLM_MODEL_NAME", "OPENAI_MODEL"}
	baseURLChain = []string{"MOONSHOT_BASE_URL", "LLM_BASE_URL", "OPENAI_BASE_URL"}
)

var logLevels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

// resolver walks per-field variable chains against a Source. Within a chain,
// set-but-empty variables are skipped, so an operator can blank out a
// higher-precedence variable without unsetting it.
type resolver struct {
	src env.Source
}

// lookup returns the first non-empty value in the chain and the variable
// that supplied it.
func (r resolver) lookup(keys ...string) (value, key string, ok bool) {
	for _, k := range keys {
		if v, set := r.src.Lookup(k); set && v != "" {
			return v, k, true
		}
	}
	return "", "", false
}

// text resolves a free-form string field.
func (r resolver) text(def string, keys ...string) string {
	if v, _, ok := r.lookup(keys...); ok {
		return v
	}
	return def
}

// boundedFloat resolves a float field validated against [lo, hi].
func (r resolver) boundedFloat(field string, def, lo, hi float64, keys ...string) (float64, error) {
	raw, key, ok := r.lookup(keys...)
	if !ok {
		return def, nil
	}
	// NaN compares false against both bounds, so non-finite input must be
	// rejected with the parse failures.
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InvalidValueError{Field: field, Key: key, Value: raw, Reason: "must be a number"}
	}
	if v < lo || v > hi {
		return 0, &InvalidValueError{Field: field, Key: key, Value: raw,
			Reason: fmt.Sprintf("must be between %g and %g", lo, hi)}
	}
	return v, nil
}

// positiveInt resolves an integer field that must be strictly positive.
func (r resolver) positiveInt(field string, def int, keys ...string) (int, error) {
	raw, key, ok := r.lookup(keys...)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidValueError{Field: field, Key: key, Value: raw, Reason: "must be an integer"}
	}
	if v <= 0 {
		return 0, &InvalidValueError{Field: field, Key: key, Value: raw, Reason: "must be greater than zero"}
	}
	return v, nil
}

// maxSeconds is the largest whole-second count that fits in a
// time.Duration's int64 nanosecond representation.
const maxSeconds = float64(math.MaxInt64 / int64(time.Second))

// seconds resolves a duration given as a positive number of seconds that
// fits in a time.Duration. Fractions are allowed ("0.5" is 500ms).
func (r resolver) seconds(field string, def time.Duration, keys ...string) (time.Duration, error) {
	raw, key, ok := r.lookup(keys...)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InvalidValueError{Field: field, Key: key, Value: raw, Reason: "must be a number of seconds"}
	}
	if v <= 0 {
		return 0, &InvalidValueError{Field: field, Key: key, Value: raw, Reason: "must be greater than zero"}
	}
	// The float-to-int64 conversion is only defined inside the int64 range;
	// bound the second count before converting.
	if v > maxSeconds {
		return 0, &InvalidValueError{Field: field, Key: key, Value: raw, Reason: "too large for a duration"}
	}
	d := time.Duration(v * float64(time.Second))
	if d == 0 {
		return 0, &InvalidValueError{Field: field, Key: key, Value: raw, Reason: "rounds down to zero"}
	}
	return d, nil
}

// flag resolves a boolean field. Accepted literals, case-insensitive:
// true/1/yes and false/0/no. Anything else fails; the default is never
// substituted for a bad value.
func (r resolver) flag(field string, def bool, keys ...string) (bool, error) {
	raw, key, ok := r.lookup(keys...)
	if !ok {
		return def, nil
	}
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, &InvalidValueError{Field: field, Key: key, Value: raw,
		Reason: "must be one of true/1/yes or false/0/no"}
}

// oneOf resolves an enumerated field, normalising to upper case.
func (r resolver) oneOf(field, def string, allowed []string, keys ...string) (string, error) {
	raw, key, ok := r.lookup(keys...)
	if !ok {
		return def, nil
	}
	v := strings.ToUpper(strings.TrimSpace(raw))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", &InvalidValueError{Field: field, Key: key, Value: raw,
		Reason: "must be one of " + strings.Join(allowed, ", ")}
}

// buildLLMConfig resolves the LLM view from src. Pure apart from source
// lookups: no caching, no filesystem access, fail-fast on the first invalid
// value.
func buildLLMConfig(src env.Source) (*LLMConfig, error) {
	r := resolver{src: src}
	cfg := DefaultLLMConfig()
	var err error

	cfg.ModelName = r.text(cfg.ModelName, modelChain...)

	if raw, key, ok := r.lookup(baseURLChain...); ok {
		u, parseErr := url.Parse(raw)
		if parseErr != nil || u.Scheme == "" || u.Host == "" {
			return nil, &InvalidValueError{Field: "base_url", Key: key, Value: raw,
				Reason: "must be an absolute URL"}
		}
		cfg.BaseURL = raw
	}

	// The credential is required for hosted endpoints. Loopback endpoints
	// (ollama, vLLM, LM Studio) run keyless.
	if secret, _, ok := r.lookup(apiKeyChain...); ok {
		cfg.APIKey = secret
	} else if !localEndpoint(cfg.BaseURL) {
		return nil, &MissingCredentialError{Field: "api_key", Keys: apiKeyChain}
	}

	if cfg.Temperature, err = r.boundedFloat("temperature", cfg.Temperature, 0, 2,
		"LLM_TEMPERATURE", "OPENAI_TEMPERATURE"); err != nil {
		return nil, err
	}
	if cfg.MaxTokens, err = r.positiveInt("max_tokens", cfg.MaxTokens,
		"LLM_MAX_TOKENS", "OPENAI_MAX_TOKENS"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = r.seconds("timeout", cfg.Timeout,
		"LLM_TIMEOUT", "OPENAI_TIMEOUT"); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// buildProjectConfig resolves the project view from src.
func buildProjectConfig(src env.Source) (*ProjectConfig, error) {
	r := resolver{src: src}
	cfg := DefaultProjectConfig()
	var err error

	cfg.ProjectName = r.text(cfg.ProjectName, "PROJECT_NAME")
	cfg.Version = r.text(cfg.Version, "PROJECT_VERSION")

	if cfg.MaxIterations, err = r.positiveInt("max_iterations", cfg.MaxIterations,
		"MAX_ITERATIONS"); err != nil {
		return nil, err
	}
	if cfg.DebugMode, err = r.flag("debug_mode", cfg.DebugMode, "DEBUG_MODE"); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = r.oneOf("log_level", cfg.LogLevel, logLevels, "LOG_LEVEL"); err != nil {
		return nil, err
	}

	cfg.DataDir = r.text(cfg.DataDir, "DATA_DIR")
	cfg.CacheDir = r.text(cfg.CacheDir, "CACHE_DIR")
	cfg.LogsDir = r.text(cfg.LogsDir, "LOGS_DIR")
	cfg.WorkRoot = r.text(cfg.WorkRoot, "AGENT_WORK_DIR")
	cfg.DefaultUserMessage = r.text(cfg.DefaultUserMessage, "DEFAULT_USER_MESSAGE")

	if cfg.CompletionThreshold, err = r.positiveInt("completion_threshold", cfg.CompletionThreshold,
		"COMPLETION_THRESHOLD"); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// localEndpoint reports whether base points at a loopback host.
func localEndpoint(base string) bool {
	u, err := url.Parse(base)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
