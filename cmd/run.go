package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/planloop/planloop/internal/config"
	"github.com/planloop/planloop/internal/dependency"
	"github.com/planloop/planloop/internal/heartbeat"
	"github.com/planloop/planloop/internal/workflow"
)

var (
	runMessage  string
	runWatch    bool
	runSchedule string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent workflow",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runMessage, "message", "m", "", "Task message (default: DEFAULT_USER_MESSAGE)")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Keep running on a schedule, reloading configuration before each pass")
	runCmd.Flags().StringVar(&runSchedule, "schedule", "@every 30m", "Cron schedule for --watch")
}

func runRun(_ *cobra.Command, _ []string) error {
	container, err := dependency.New()
	if err != nil {
		return err
	}

	cfgs := container.Config()
	proj, err := cfgs.ProjectConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configureLogging(proj)

	llm, err := cfgs.LLMConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	printBanner(proj, llm)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := container.Workflow()

	if !runWatch {
		state, err := runner.Run(ctx, runMessage)
		if err != nil {
			return err
		}
		printOutcome(state)
		return nil
	}

	reload := func() {
		// Re-read .env so operator edits reach the live process, then let
		// the manager rebuild from the refreshed environment.
		_ = godotenv.Overload()
		cfgs.Reload()
	}
	hb, err := heartbeat.NewService(runSchedule, reload, func(ctx context.Context) error {
		state, err := runner.Run(ctx, runMessage)
		if err != nil {
			return err
		}
		printOutcome(state)
		return nil
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hb.Start(gctx) })
	g.Go(func() error {
		// One immediate pass; the rest come from the schedule.
		state, err := runner.Run(gctx, runMessage)
		if err != nil {
			slog.Error("run: initial pass failed", "err", err)
			return nil
		}
		printOutcome(state)
		return nil
	})

	fmt.Printf("%s Watching on %q. Press Ctrl+C to stop.\n", logo, runSchedule)

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}

// printBanner shows the project identity and the resolved model, with extra
// detail in debug mode.
func printBanner(proj *config.ProjectConfig, llm *config.LLMConfig) {
	fmt.Printf("%s %s v%s\n", logo, proj.ProjectName, proj.Version)
	fmt.Printf("Model: %s @ %s\n", llm.ModelName, llm.BaseURL)
	if proj.DebugMode {
		fmt.Printf("Debug mode on, log level %s\n", proj.LogLevel)
		fmt.Printf("Work root: %s\n", proj.WorkRoot)
	}
	fmt.Println()
}

func printOutcome(state *workflow.State) {
	if state.Done {
		fmt.Printf("%s Completed in %d iteration(s).\n", logo, state.Iterations)
	} else {
		fmt.Printf("%s Stopped after %d iteration(s) without completion.\n", logo, state.Iterations)
	}
	if state.Observation != "" {
		fmt.Println(state.Observation)
	}
}
