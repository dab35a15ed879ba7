package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/planloop/planloop/internal/config"
	"github.com/planloop/planloop/internal/dependency"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the resolved configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration as YAML (secrets redacted)",
	RunE:  runConfigShow,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the environment and report the first problem",
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	container, err := dependency.New()
	if err != nil {
		return err
	}
	cfgs := container.Config()

	llm, err := cfgs.LLMConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	proj, err := cfgs.ProjectConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	doc := struct {
		LLM     config.LLMConfig     `yaml:"llm"`
		Project config.ProjectConfig `yaml:"project"`
	}{
		LLM:     llm.Redacted(),
		Project: *proj,
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigCheck(_ *cobra.Command, _ []string) error {
	container, err := dependency.New()
	if err != nil {
		return err
	}
	cfgs := container.Config()

	if err := cfgs.Load(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	llm, err := cfgs.LLMConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	proj, err := cfgs.ProjectConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	keyMark := "✓"
	if llm.APIKey == "" {
		keyMark = "(not set; local endpoint)"
	}

	fmt.Printf("%s Configuration OK\n\n", logo)
	fmt.Printf("Project:  %s v%s\n", proj.ProjectName, proj.Version)
	fmt.Printf("Model:    %s @ %s\n", llm.ModelName, llm.BaseURL)
	fmt.Printf("API key:  %s\n", keyMark)
	fmt.Printf("Logging:  %s (debug mode %t)\n", proj.LogLevel, proj.DebugMode)
	return nil
}
