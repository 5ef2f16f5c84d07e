package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"lotoqueue/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Sheet identifies the main queue tab and its control columns.
type Sheet struct {
	SheetID         string `toml:"sheet_id"`
	Tab             string `toml:"tab"`
	QueuedColumn    string `toml:"queued_column"`
	PublishedColumn string `toml:"published_column"`
}

// Vault identifies the credentials tab (Rede | Conta | Chave | Valor).
type Vault struct {
	SheetID string `toml:"sheet_id"`
	Tab     string `toml:"tab"`
}

// Google holds the service account used for both spreadsheets.
type Google struct {
	ServiceJSON     string `toml:"service_json"`
	ServiceJSONFile string `toml:"service_json_file"`
}

// Queue contains runner pacing and scope settings.
type Queue struct {
	MaxPerRun         int     `toml:"max_per_run"`
	ItemPauseSeconds  float64 `toml:"item_pause_seconds"`
	ChannelGapSeconds float64 `toml:"channel_gap_seconds"`
	DryRun            bool    `toml:"dry_run"`
	Timezone          string  `toml:"timezone"`
}

// YouTube contains endpoints and timeouts for the upload collaborator.
type YouTube struct {
	TokenURL             string `toml:"token_url"`
	APIEndpoint          string `toml:"api_endpoint"`
	TokenTimeoutSeconds  int    `toml:"token_timeout_seconds"`
	UploadTimeoutSeconds int    `toml:"upload_timeout_seconds"`
}

// Render contains settings for the ffmpeg-based media renderer.
type Render struct {
	OutputDir    string `toml:"output_dir"`
	FFmpegBinary string `toml:"ffmpeg_binary"`
	FontFile     string `toml:"font_file"`
	VideoSeconds int    `toml:"video_seconds"`
	Logos        bool   `toml:"logos"`
}

// Paths contains local state directories.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Config encapsulates all configuration values for lotoqueue.
//
// Configuration sections by subsystem:
//   - Sheet: main queue spreadsheet, tab, and control column names
//   - Vault: credentials spreadsheet and tab
//   - Google: service account JSON shared by both spreadsheets
//   - Queue: per-run limits, pauses, dry-run, and timestamp timezone
//   - YouTube: token/upload endpoints and their timeouts
//   - Render: ffmpeg renderer output directory and layout knobs
//   - Paths: ledger and log directories
//   - Logging: log format, level, and retention
//   - Notifications: ntfy push notification settings
type Config struct {
	Sheet         Sheet         `toml:"sheet"`
	Vault         Vault         `toml:"vault"`
	Google        Google        `toml:"google"`
	Queue         Queue         `toml:"queue"`
	YouTube       YouTube       `toml:"youtube"`
	Render        Render        `toml:"render"`
	Paths         Paths         `toml:"paths"`
	Logging       Logging       `toml:"logging"`
	Notifications Notifications `toml:"notifications"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lotoqueue/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error: defaults plus environment variables are enough to run.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "parse", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "normalize", "", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lotoqueue.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state, log, and render output directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir, c.Render.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequireStores reports a configuration error when the settings needed to
// reach the queue tab and the vault are missing. Commands that never touch
// the spreadsheets (render, cleanup, history) skip this check.
func (c *Config) RequireStores() error {
	if strings.TrimSpace(c.Google.ServiceJSON) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "google", "GOOGLE_SERVICE_JSON is required", nil)
	}
	if strings.TrimSpace(c.Vault.SheetID) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "vault", "COFRE_SHEET_ID is required", nil)
	}
	if strings.TrimSpace(c.Sheet.SheetID) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "sheet", "GOOGLE_SHEET_ID is required", nil)
	}
	return nil
}

// LedgerPath returns the SQLite audit ledger location.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "ledger.db")
}

// LockPath returns the single-runner lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "lotoqueue.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
