package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"lotoqueue/internal/config"
	"lotoqueue/internal/deps"
	"lotoqueue/internal/render"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStores reports whether the spreadsheet settings are present.
func CheckStores(cfg *config.Config) Result {
	const name = "Spreadsheets"
	if err := cfg.RequireStores(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("queue %s/%s, vault %s/%s",
		cfg.Sheet.SheetID, cfg.Sheet.Tab, cfg.Vault.SheetID, cfg.Vault.Tab)}
}

// CheckFFmpeg verifies the renderer binary resolves.
func CheckFFmpeg(configured string) Result {
	status := deps.CheckBinaries([]deps.Requirement{{
		Name:        "FFmpeg",
		Command:     deps.FFmpegCommand(configured),
		Description: "Required to render images and videos",
	}})[0]
	if !status.Available {
		return Result{Name: status.Name, Detail: status.Detail}
	}
	return Result{Name: status.Name, Passed: true, Detail: status.Command}
}

// CheckFontFile verifies the drawtext font exists. A missing font is not
// fatal because ffmpeg falls back to its own default.
func CheckFontFile(path string) Result {
	const name = "Font file"
	path = strings.TrimSpace(path)
	if path == "" {
		path = render.DefaultFontFile
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (not found; ffmpeg default font is used)", path)}
	}
	return Result{Name: name, Optional: true, Passed: true, Detail: path}
}

// CheckEndpoint verifies that url answers HTTP at all. Any response below
// 500 counts as reachable since the token endpoint rejects bare GETs.
func CheckEndpoint(ctx context.Context, name, url string) Result {
	url = strings.TrimSpace(url)
	if url == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid url: %v", err)}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Result{Name: name, Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable (HTTP %d)", resp.StatusCode)}
}

func summarizeNetError(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Sprintf("unreachable: %v", opErr.Err)
	}
	return err.Error()
}
