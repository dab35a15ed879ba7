package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/planloop/planloop/internal/config"
)

// envTemplate is written to .env on first onboard. It enumerates every
// variable the loader recognises; .env.example and the README carry the
// same list.
const envTemplate = `# planloop environment
# Uncomment and fill in what you need. A running "planloop run --watch"
# re-reads this file before every scheduled pass.

# Credential. First set variable wins; all optional for loopback endpoints.
MOONSHOT_API_KEY=sk-your-key-here
#LLM_API_KEY=
#OPENAI_API_KEY=

# Model and endpoint.
#MOONSHOT_MODEL=kimi-k2-0905-preview
#LLM_MODEL_NAME=
#OPENAI_MODEL=
#MOONSHOT_BASE_URL=https://api.moonshot.cn/v1
#LLM_BASE_URL=
#OPENAI_BASE_URL=

# Sampling and limits.
#LLM_TEMPERATURE=0.7
#LLM_MAX_TOKENS=1000
#LLM_TIMEOUT=30

# Project behaviour.
#PROJECT_NAME=planloop
#PROJECT_VERSION=1.0.0
#MAX_ITERATIONS=10
#DEBUG_MODE=false
#LOG_LEVEL=INFO
#COMPLETION_THRESHOLD=3
#DEFAULT_USER_MESSAGE=Please help me complete a task.

# Directories.
#DATA_DIR=./data
#CACHE_DIR=./cache
#LOGS_DIR=./logs
#AGENT_WORK_DIR=./agent_work
`

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create .env and the working directories",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(".env"); err == nil {
		fmt.Println(".env already exists, leaving it untouched")
	} else {
		if err := os.WriteFile(".env", []byte(envTemplate), 0o600); err != nil {
			return fmt.Errorf("write .env: %w", err)
		}
		fmt.Println("✓ Created .env")
	}

	// Directories come from the compiled-in defaults: onboarding happens
	// before credentials exist, so the full view cannot be built yet.
	def := config.DefaultProjectConfig()
	for _, dir := range []string{def.DataDir, def.CacheDir, def.LogsDir, def.WorkRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		fmt.Printf("✓ Directory %s\n", dir)
	}

	fmt.Printf("\n%s planloop is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Println("  1. Put your API key in .env (MOONSHOT_API_KEY or LLM_API_KEY)")
	fmt.Println("  2. Check: planloop config check")
	fmt.Printf("  3. Run:   planloop run -m \"Hello!\"\n")
	return nil
}
