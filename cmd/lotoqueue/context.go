package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lotoqueue/internal/config"
	"lotoqueue/internal/logging"
	"lotoqueue/internal/publisher"
	"lotoqueue/internal/render"
	"lotoqueue/internal/sheets"
	"lotoqueue/internal/vault"
	"lotoqueue/internal/youtube"
)

const defaultEnvFile = ".env"

// dependencies are the external collaborators a command reaches. Tests swap
// them for in-memory fakes.
type dependencies struct {
	openTab  func(ctx context.Context, cfg *config.Config, sheetID, title string) (sheets.Tab, error)
	uploader func(cfg *config.Config) publisher.Uploader
	renderer func(cfg *config.Config, logger *slog.Logger) render.Renderer
}

func defaultDependencies() *dependencies {
	var (
		once    sync.Once
		service *sheets.Service
		svcErr  error
	)
	return &dependencies{
		openTab: func(ctx context.Context, cfg *config.Config, sheetID, title string) (sheets.Tab, error) {
			once.Do(func() {
				service, svcErr = sheets.NewService(ctx, cfg.Google.ServiceJSON)
			})
			if svcErr != nil {
				return nil, svcErr
			}
			return service.OpenTab(ctx, sheetID, title)
		},
		uploader: func(cfg *config.Config) publisher.Uploader {
			return youtube.NewClient(cfg.YouTube)
		},
		renderer: func(cfg *config.Config, logger *slog.Logger) render.Renderer {
			if cfg.Queue.DryRun {
				return render.DryRun{OutputDir: cfg.Render.OutputDir}
			}
			return render.NewFFmpeg(cfg.Render, nil, logger)
		},
	}
}

type commandContext struct {
	configFlag  *string
	envFileFlag *string
	deps        *dependencies

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, envFileFlag *string, deps *dependencies) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		envFileFlag: envFileFlag,
		deps:        deps,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := c.loadEnvFile(); err != nil {
			c.configErr = err
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loadEnvFile applies KEY=VALUE pairs from the env file without overriding
// variables already present in the environment.
func (c *commandContext) loadEnvFile() error {
	path := ""
	if c.envFileFlag != nil {
		path = strings.TrimSpace(*c.envFileFlag)
	}
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// commandLogger builds a console logger for commands that do not own a run.
func (c *commandContext) commandLogger(cmd *cobra.Command) *slog.Logger {
	cfg := c.configValue()
	opts := logging.Options{Level: "info", Format: "console", Writer: cmd.ErrOrStderr()}
	if cfg != nil {
		opts.Level = cfg.Logging.Level
	}
	logger, err := logging.New(opts)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// openStores opens the queue tab and loads the vault.
func (c *commandContext) openStores(ctx context.Context, cfg *config.Config) (sheets.Tab, *vault.Vault, error) {
	if err := cfg.RequireStores(); err != nil {
		return nil, nil, err
	}
	queueTab, err := c.deps.openTab(ctx, cfg, cfg.Sheet.SheetID, cfg.Sheet.Tab)
	if err != nil {
		return nil, nil, fmt.Errorf("open queue tab %q: %w", cfg.Sheet.Tab, err)
	}
	creds, err := c.openVault(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return queueTab, creds, nil
}

func (c *commandContext) openVault(ctx context.Context, cfg *config.Config) (*vault.Vault, error) {
	if err := cfg.RequireStores(); err != nil {
		return nil, err
	}
	vaultTab, err := c.deps.openTab(ctx, cfg, cfg.Vault.SheetID, cfg.Vault.Tab)
	if err != nil {
		return nil, fmt.Errorf("open vault tab %q: %w", cfg.Vault.Tab, err)
	}
	creds, err := vault.Load(ctx, vaultTab)
	if err != nil {
		return nil, fmt.Errorf("load vault: %w", err)
	}
	return creds, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func isTerminal(file *os.File) bool {
	return file != nil && isTTY(file.Fd())
}
