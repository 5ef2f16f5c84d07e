package render

import (
	"context"
	"os/exec"
)

// runCommand executes an external tool and returns its combined output.
// It is a package-level variable so tests can override it.
var runCommand = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).CombinedOutput()
}

// SetCommandRunnerForTests overrides the ffmpeg runner during tests.
func SetCommandRunnerForTests(fn func(context.Context, string, ...string) ([]byte, error)) func() {
	previous := runCommand
	runCommand = fn
	return func() {
		runCommand = previous
	}
}
