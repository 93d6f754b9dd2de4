package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"media-board/internal/app"
	"media-board/internal/startup"
)

type commandContext struct {
	dataDir     string
	databaseDir string

	configOnce sync.Once
	config     *startup.Config
	configErr  error
}

func (c *commandContext) ensureConfig() (*startup.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := startup.ReadConfig()
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyDirs(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// applyDirs applies the directory flags and creates the directories the
// app writes to.
func (c *commandContext) applyDirs(cfg *startup.Config) error {
	if dir := strings.TrimSpace(c.dataDir); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		if os.Getenv("TMP_DIR") == "" {
			cfg.Thumbs.TempDir = filepath.Join(abs, "tmp")
		}
		cfg.DataDir, cfg.WarehouseDir = abs, abs
	}
	if dir := strings.TrimSpace(c.databaseDir); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve database dir: %w", err)
		}
		cfg.DatabaseDir = abs
		cfg.DatabasePath = filepath.Join(abs, "board.db")
	}

	for _, dir := range []string{cfg.DatabaseDir, cfg.WarehouseDir, cfg.Thumbs.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// withApp opens the app for the duration of fn.
func (c *commandContext) withApp(ctx context.Context, fn func(*app.App) error) (err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()
	return fn(a)
}
