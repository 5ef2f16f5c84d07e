package preflight

import (
	"context"

	"lotoqueue/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every check that applies to cfg. Rendering checks are
// skipped in dry-run mode because no ffmpeg process is started.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Output directory", cfg.Render.OutputDir),
		CheckStores(cfg),
	}
	if !cfg.Queue.DryRun {
		results = append(results, CheckFFmpeg(cfg.Render.FFmpegBinary))
		results = append(results, CheckFontFile(cfg.Render.FontFile))
		results = append(results, CheckEndpoint(ctx, "YouTube token endpoint", cfg.YouTube.TokenURL))
	}
	return results
}

// Failed reports whether any required check did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
