package config

import (
	"fmt"
	"io"
	"strings"
)

type dumpView string

const (
	viewLLM     dumpView = "llm"
	viewProject dumpView = "project"
)

// redactSecret masks a credential for display. The last four characters are
// kept when the value is long enough that they identify nothing.
func redactSecret(v string) string {
	switch {
	case v == "":
		return "(not set)"
	case len(v) <= 8:
		return "****"
	default:
		return "****" + v[len(v)-4:]
	}
}

// dumpLLM writes one human-readable block describing the LLM view. The API
// key is always redacted. The block goes out in a single Write so that
// concurrent dumps do not interleave line by line.
func dumpLLM(w io.Writer, c *LLMConfig) error {
	var b strings.Builder
	b.WriteString("[config] llm\n")
	fmt.Fprintf(&b, "  api_key:     %s\n", redactSecret(c.APIKey))
	fmt.Fprintf(&b, "  model_name:  %s\n", c.ModelName)
	fmt.Fprintf(&b, "  base_url:    %s\n", c.BaseURL)
	fmt.Fprintf(&b, "  temperature: %g\n", c.Temperature)
	fmt.Fprintf(&b, "  max_tokens:  %d\n", c.MaxTokens)
	fmt.Fprintf(&b, "  timeout:     %s\n", c.Timeout)
	return sinkWrite(w, b.String())
}

// dumpProject writes one human-readable block describing the project view.
func dumpProject(w io.Writer, c *ProjectConfig) error {
	var b strings.Builder
	b.WriteString("[config] project\n")
	fmt.Fprintf(&b, "  project_name:         %s\n", c.ProjectName)
	fmt.Fprintf(&b, "  version:              %s\n", c.Version)
	fmt.Fprintf(&b, "  max_iterations:       %d\n", c.MaxIterations)
	fmt.Fprintf(&b, "  debug_mode:           %t\n", c.DebugMode)
	fmt.Fprintf(&b, "  log_level:            %s\n", c.LogLevel)
	fmt.Fprintf(&b, "  data_dir:             %s\n", c.DataDir)
	fmt.Fprintf(&b, "  cache_dir:            %s\n", c.CacheDir)
	fmt.Fprintf(&b, "  logs_dir:             %s\n", c.LogsDir)
	fmt.Fprintf(&b, "  agent_work_root:      %s\n", c.WorkRoot)
	fmt.Fprintf(&b, "  default_user_message: %s\n", c.DefaultUserMessage)
	fmt.Fprintf(&b, "  completion_threshold: %d\n", c.CompletionThreshold)
	return sinkWrite(w, b.String())
}

func sinkWrite(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("%w: %v", ErrDiagnosticSink, err)
	}
	return nil
}
