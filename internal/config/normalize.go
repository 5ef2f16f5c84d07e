package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnvironment()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeGoogle(); err != nil {
		return err
	}
	c.normalizeSheet()
	c.normalizeQueue()
	c.normalizeYouTube()
	c.normalizeLogging()
	return nil
}

// applyEnvironment overlays the documented environment variables. Empty
// values leave the file or default value in place.
func (c *Config) applyEnvironment() {
	envString("GOOGLE_SERVICE_JSON", &c.Google.ServiceJSON)
	envString("GOOGLE_SHEET_ID", &c.Sheet.SheetID)
	envString("SHEET_TAB", &c.Sheet.Tab)
	envString("COFRE_SHEET_ID", &c.Vault.SheetID)
	envString("COFRE_ABA_CRED", &c.Vault.Tab)
	envString("ENFILEIRADO_VIDEOS_COL", &c.Sheet.QueuedColumn)
	envString("PUBLICADO_YT_COL", &c.Sheet.PublishedColumn)
	envString("IMAGES_OUT_DIR", &c.Render.OutputDir)
	envString("NTFY_TOPIC", &c.Notifications.NtfyTopic)

	if value, ok := lookupEnv("MAX_VIDEOS_RODADA"); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			c.Queue.MaxPerRun = parsed
		}
	}
	if value, ok := lookupEnv("PAUSA_ENTRE_VIDEOS"); ok {
		if parsed, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64); err == nil {
			c.Queue.ItemPauseSeconds = parsed
		}
	}
	if value, ok := lookupEnv("DRY_RUN_VIDEOS"); ok {
		c.Queue.DryRun = IsTruthy(value)
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func envString(key string, target *string) {
	if value, ok := lookupEnv(key); ok {
		*target = value
	}
}

// IsTruthy reports whether a flag-like string is switched on.
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "sim", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Render.OutputDir) == "" {
		c.Render.OutputDir = defaultOutputDir
	}
	if c.Render.OutputDir, err = expandPath(c.Render.OutputDir); err != nil {
		return fmt.Errorf("render.output_dir: %w", err)
	}
	if c.Render.FontFile != "" {
		if c.Render.FontFile, err = expandPath(c.Render.FontFile); err != nil {
			return fmt.Errorf("render.font_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeGoogle() error {
	c.Google.ServiceJSON = strings.TrimSpace(c.Google.ServiceJSON)
	c.Google.ServiceJSONFile = strings.TrimSpace(c.Google.ServiceJSONFile)
	if c.Google.ServiceJSON == "" && c.Google.ServiceJSONFile != "" {
		path, err := expandPath(c.Google.ServiceJSONFile)
		if err != nil {
			return fmt.Errorf("google.service_json_file: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("google.service_json_file: %w", err)
		}
		c.Google.ServiceJSONFile = path
		c.Google.ServiceJSON = strings.TrimSpace(string(data))
	}
	if c.Google.ServiceJSON != "" && !json.Valid([]byte(c.Google.ServiceJSON)) {
		return fmt.Errorf("google.service_json: GOOGLE_SERVICE_JSON is not valid JSON")
	}
	return nil
}

func (c *Config) normalizeSheet() {
	c.Sheet.SheetID = strings.TrimSpace(c.Sheet.SheetID)
	c.Sheet.Tab = strings.TrimSpace(c.Sheet.Tab)
	if c.Sheet.Tab == "" {
		c.Sheet.Tab = defaultSheetTab
	}
	c.Sheet.QueuedColumn = strings.TrimSpace(c.Sheet.QueuedColumn)
	if c.Sheet.QueuedColumn == "" {
		c.Sheet.QueuedColumn = defaultQueuedColumn
	}
	c.Sheet.PublishedColumn = strings.TrimSpace(c.Sheet.PublishedColumn)
	if c.Sheet.PublishedColumn == "" {
		c.Sheet.PublishedColumn = defaultPublishedColumn
	}
	c.Vault.SheetID = strings.TrimSpace(c.Vault.SheetID)
	c.Vault.Tab = strings.TrimSpace(c.Vault.Tab)
	if c.Vault.Tab == "" {
		c.Vault.Tab = defaultVaultTab
	}
}

func (c *Config) normalizeQueue() {
	c.Queue.Timezone = strings.TrimSpace(c.Queue.Timezone)
	if c.Queue.Timezone == "" {
		c.Queue.Timezone = defaultTimezone
	}
	if c.Queue.ItemPauseSeconds < 0 {
		c.Queue.ItemPauseSeconds = 0
	}
	if c.Queue.ChannelGapSeconds < 0 {
		c.Queue.ChannelGapSeconds = 0
	}
}

func (c *Config) normalizeYouTube() {
	c.YouTube.TokenURL = strings.TrimSpace(c.YouTube.TokenURL)
	if c.YouTube.TokenURL == "" {
		c.YouTube.TokenURL = defaultTokenURL
	}
	c.YouTube.APIEndpoint = strings.TrimSpace(c.YouTube.APIEndpoint)
	if c.YouTube.APIEndpoint == "" {
		c.YouTube.APIEndpoint = defaultAPIEndpoint
	}
	if c.YouTube.TokenTimeoutSeconds <= 0 {
		c.YouTube.TokenTimeoutSeconds = defaultTokenTimeoutSeconds
	}
	if c.YouTube.UploadTimeoutSeconds <= 0 {
		c.YouTube.UploadTimeoutSeconds = defaultUploadTimeoutSeconds
	}
	if strings.TrimSpace(c.Render.FFmpegBinary) == "" {
		c.Render.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Render.VideoSeconds <= 0 {
		c.Render.VideoSeconds = defaultVideoSeconds
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
