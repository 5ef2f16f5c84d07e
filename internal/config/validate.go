package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateQueue(); err != nil {
		return err
	}
	if err := c.validateColumns(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateQueue() error {
	if c.Queue.MaxPerRun < 1 {
		return errors.New("queue.max_per_run must be >= 1")
	}
	if _, err := time.LoadLocation(c.Queue.Timezone); err != nil {
		return fmt.Errorf("queue.timezone: unknown zone %q", c.Queue.Timezone)
	}
	return nil
}

func (c *Config) validateColumns() error {
	if strings.EqualFold(c.Sheet.QueuedColumn, c.Sheet.PublishedColumn) {
		return fmt.Errorf("sheet.queued_column and sheet.published_column must differ (both %q)", c.Sheet.QueuedColumn)
	}
	return nil
}

func (c *Config) validateYouTube() error {
	for name, raw := range map[string]string{
		"youtube.token_url":    c.YouTube.TokenURL,
		"youtube.api_endpoint": c.YouTube.APIEndpoint,
	} {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

// Location returns the configured timestamp timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Queue.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ItemPause returns the pause between processed rows.
func (c *Config) ItemPause() time.Duration {
	return time.Duration(c.Queue.ItemPauseSeconds * float64(time.Second))
}

// ChannelGap returns the pause between uploads to different accounts.
func (c *Config) ChannelGap() time.Duration {
	return time.Duration(c.Queue.ChannelGapSeconds * float64(time.Second))
}
