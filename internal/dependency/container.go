// Package dependency wires the planloop services using go.uber.org/dig.
package dependency

import (
	"os"

	"go.uber.org/dig"

	"github.com/planloop/planloop/internal/config"
	"github.com/planloop/planloop/internal/env"
	"github.com/planloop/planloop/internal/workflow"
)

// Container holds the resolved service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	cfgs   *config.Manager
	runner *workflow.Runner
}

func (c *Container) Config() *config.Manager    { return c.cfgs }
func (c *Container) Workflow() *workflow.Runner { return c.runner }

// New builds and wires the services.
func New() (*Container, error) {
	d := dig.New()

	if err := d.Provide(newEnvSource); err != nil {
		return nil, err
	}
	if err := d.Provide(newConfigManager); err != nil {
		return nil, err
	}
	if err := d.Provide(workflow.NewRunner); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(cfgs *config.Manager, runner *workflow.Runner) {
		result = &Container{cfgs: cfgs, runner: runner}
	})
	return result, err
}

func newEnvSource() env.Source { return env.OS() }

// newConfigManager wires the process environment and stderr diagnostics in.
// Tests construct their managers directly with static sources instead.
func newConfigManager(src env.Source) *config.Manager {
	return config.NewManager(src, os.Stderr)
}
