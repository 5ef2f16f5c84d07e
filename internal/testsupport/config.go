package testsupport

import (
	"path/filepath"
	"testing"

	"lotoqueue/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test,
// store identifiers filled in, and pauses disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Sheet.SheetID = "sheet-test"
	cfgVal.Vault.SheetID = "vault-test"
	cfgVal.Google.ServiceJSON = `{"type":"service_account"}`
	cfgVal.Queue.ItemPauseSeconds = 0
	cfgVal.Queue.ChannelGapSeconds = 0
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Render.OutputDir = filepath.Join(base, "output")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMaxPerRun caps the number of rows processed per run.
func WithMaxPerRun(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Queue.MaxPerRun = n
	}
}

// WithDryRun toggles dry-run mode.
func WithDryRun(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Queue.DryRun = enabled
	}
}

// WithColumns overrides the queued and published column names.
func WithColumns(queued, published string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sheet.QueuedColumn = queued
		b.cfg.Sheet.PublishedColumn = published
	}
}

// WithNtfyTopic points notifications at topic.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// BaseDir returns the temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
