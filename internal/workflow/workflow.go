// Package workflow ships the plan-execute-observe skeleton of the agent.
//
// The three node hooks are deliberately stubs that shuttle placeholder text
// through the state. Replace them with real planning, tool execution, and
// observation logic; the loop, iteration budget, and completion handling
// stay as they are.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/planloop/planloop/internal/config"
)

// Message is one entry in the conversation history.
type Message struct {
	Role    string
	Content string
}

// State accumulates everything a run produces across iterations.
type State struct {
	Messages    []Message
	Plan        string
	Result      string
	Observation string
	Iterations  int
	Done        bool
}

// Node hooks. Each receives the run state to mutate and the project view
// resolved for this run.
type (
	PlanFunc    func(ctx context.Context, cfg *config.ProjectConfig, s *State) error
	ExecuteFunc func(ctx context.Context, cfg *config.ProjectConfig, s *State) error
	ObserveFunc func(ctx context.Context, cfg *config.ProjectConfig, s *State) error
)

// Runner drives the loop. Configuration is pulled fresh from the manager at
// the start of every run, so a Reload between runs takes effect on the next
// one.
type Runner struct {
	cfgs *config.Manager

	// Replaceable node hooks, pre-wired to the template stubs.
	Plan    PlanFunc
	Execute ExecuteFunc
	Observe ObserveFunc
}

// NewRunner creates a Runner with the stub hooks installed.
func NewRunner(cfgs *config.Manager) *Runner {
	return &Runner{
		cfgs:    cfgs,
		Plan:    stubPlan,
		Execute: stubExecute,
		Observe: stubObserve,
	}
}

// Run executes plan, execute, observe rounds until the observe hook reports
// completion or the iteration budget is spent. An empty userMessage means
// the configured default. The returned state is valid even when the budget
// ran out; check State.Done.
func (r *Runner) Run(ctx context.Context, userMessage string) (*State, error) {
	cfg, err := r.cfgs.ProjectConfig()
	if err != nil {
		return nil, fmt.Errorf("load project config: %w", err)
	}

	if userMessage == "" {
		userMessage = cfg.DefaultUserMessage
	}
	s := &State{Messages: []Message{{Role: "user", Content: userMessage}}}

	slog.Info("workflow: run started", "max_iterations", cfg.MaxIterations)

	for s.Iterations < cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		s.Iterations++

		if err := r.Plan(ctx, cfg, s); err != nil {
			return s, fmt.Errorf("plan (iteration %d): %w", s.Iterations, err)
		}
		if err := r.Execute(ctx, cfg, s); err != nil {
			return s, fmt.Errorf("execute (iteration %d): %w", s.Iterations, err)
		}
		if err := r.Observe(ctx, cfg, s); err != nil {
			return s, fmt.Errorf("observe (iteration %d): %w", s.Iterations, err)
		}

		slog.Debug("workflow: iteration finished", "iteration", s.Iterations, "done", s.Done)
		if s.Done {
			slog.Info("workflow: run complete", "iterations", s.Iterations)
			return s, nil
		}
	}

	slog.Warn("workflow: iteration budget spent without completion", "iterations", s.Iterations)
	return s, nil
}

// stubPlan derives a placeholder plan from the latest message.
func stubPlan(_ context.Context, _ *config.ProjectConfig, s *State) error {
	last := s.Messages[len(s.Messages)-1]
	s.Plan = "plan for: " + last.Content
	return nil
}

// stubExecute pretends to carry out the current plan.
func stubExecute(_ context.Context, _ *config.ProjectConfig, s *State) error {
	s.Result = "executed: " + s.Plan
	return nil
}

// stubObserve records an observation and finishes once the conversation has
// grown past the completion threshold.
func stubObserve(_ context.Context, cfg *config.ProjectConfig, s *State) error {
	s.Observation = "observed: " + s.Result
	s.Messages = append(s.Messages, Message{Role: "assistant", Content: s.Observation})
	s.Done = len(s.Messages) > cfg.CompletionThreshold
	return nil
}
