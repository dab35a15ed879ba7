package config

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/planloop/planloop/internal/env"
)

// snapshot is one coherent build of both views. It is swapped as a whole
// under the Manager mutex and never mutated afterwards, so readers can hold
// on to the views without locking.
type snapshot struct {
	llm     *LLMConfig
	project *ProjectConfig
}

// Manager owns the configuration lifecycle for one process: lazy build of
// both views on first access, cached reuse until Reload, and the debug-mode
// dump side channel. Construct one and pass it to whatever needs settings;
// there is no package-level instance.
type Manager struct {
	src  env.Source
	sink io.Writer

	mu   sync.Mutex
	snap *snapshot
}

// NewManager creates a Manager reading from src and writing debug dumps to
// sink. A nil src means the live process environment; a nil sink means
// os.Stderr.
func NewManager(src env.Source, sink io.Writer) *Manager {
	if src == nil {
		src = env.OS()
	}
	if sink == nil {
		sink = os.Stderr
	}
	return &Manager{src: src, sink: sink}
}

// LLMConfig returns the cached LLM view, building both views on first use.
// The same pointer comes back on every call until Reload. In debug mode the
// view is also dumped, redacted, to the diagnostic sink.
func (m *Manager) LLMConfig() (*LLMConfig, error) {
	snap, err := m.ensure()
	if err != nil {
		return nil, err
	}
	m.debugDump(viewLLM, snap)
	return snap.llm, nil
}

// ProjectConfig returns the cached project view, building both views on
// first use.
func (m *Manager) ProjectConfig() (*ProjectConfig, error) {
	snap, err := m.ensure()
	if err != nil {
		return nil, err
	}
	m.debugDump(viewProject, snap)
	return snap.project, nil
}

// Load builds both views now instead of on first access. Useful to fail
// fast at startup.
func (m *Manager) Load() error {
	_, err := m.ensure()
	return err
}

// Reload discards the cached snapshot; the next access re-reads the
// environment and rebuilds both views. Safe at any time, including before
// the first build. Readers keep whatever snapshot they already hold.
func (m *Manager) Reload() {
	m.mu.Lock()
	m.snap = nil
	m.mu.Unlock()
	slog.Debug("config: cache cleared, next access rebuilds")
}

// ensure returns the current snapshot, building one if absent. A failed
// build caches nothing, so a later access against a fixed environment
// succeeds without an explicit Reload.
func (m *Manager) ensure() (*snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap != nil {
		return m.snap, nil
	}

	llm, err := buildLLMConfig(m.src)
	if err != nil {
		return nil, err
	}
	project, err := buildProjectConfig(m.src)
	if err != nil {
		return nil, err
	}

	m.snap = &snapshot{llm: llm, project: project}
	slog.Debug("config: views built", "model", llm.ModelName, "log_level", project.LogLevel)
	return m.snap, nil
}

// debugDump writes the requested view to the diagnostic sink when debug
// mode is on. Sink failures are logged and swallowed; diagnostics must
// never break configuration access.
func (m *Manager) debugDump(view dumpView, snap *snapshot) {
	if !snap.project.DebugMode {
		return
	}

	var err error
	switch view {
	case viewLLM:
		err = dumpLLM(m.sink, snap.llm)
	case viewProject:
		err = dumpProject(m.sink, snap.project)
	}
	if err != nil {
		slog.Warn("config: debug dump failed", "view", string(view), "err", err)
	}
}
