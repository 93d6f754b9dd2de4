package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"

	"media-board/internal/logging"
	"media-board/internal/notify"
	"media-board/internal/page"
	"media-board/internal/thumbnail"
)

// DefaultMaxUploadSize caps a single upload body.
const DefaultMaxUploadSize = 64 << 20

// Config holds all application configuration
type Config struct {
	DataDir         string
	DatabaseDir     string
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	LogHealthChecks bool
	MaxUploadSize   int64
	ConfigFile      string

	Thumbs thumbnail.Config
	NATS   notify.Config
	// Themes replaces the display theme of the extension with the same id.
	Themes map[string]page.ThemeSpec

	// Derived paths
	DatabasePath string
	WarehouseDir string
}

// NATSEnabled reports whether a NATS URL is configured.
func (c *Config) NATSEnabled() bool { return c.NATS.URL != "" }

// FileConfig is the optional TOML overlay named by CONFIG_FILE.
// Environment variables win over values from the file.
type FileConfig struct {
	Thumbnails ThumbnailSection        `toml:"thumbnails"`
	NATS       NATSSection             `toml:"nats"`
	Themes     map[string]ThemeSection `toml:"themes"`
}

// ThumbnailSection is the [thumbnails] table.
type ThumbnailSection struct {
	Engine         string `toml:"engine"`
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
	Quality        int    `toml:"quality"`
	Upscale        bool   `toml:"upscale"`
	Optimize       bool   `toml:"optimize"`
	ConvertPath    string `toml:"convert_path"`
	EpegPath       string `toml:"epeg_path"`
	JpegoptimPath  string `toml:"jpegoptim_path"`
	PdftoppmPath   string `toml:"pdftoppm_path"`
	MemoryLimit    int64  `toml:"memory_limit"`
	CommandTimeout int    `toml:"command_timeout"`
	TempDir        string `toml:"temp_dir"`
}

// NATSSection is the [nats] table.
type NATSSection struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
}

// ThemeSection is one [themes.<extension id>] table.
type ThemeSection struct {
	Header       string `toml:"header"`
	Section      string `toml:"section"`
	Position     int    `toml:"position"`
	Template     string `toml:"template"`
	TemplateFile string `toml:"template_file"`
}

func defaultFileConfig() FileConfig {
	t := thumbnail.DefaultConfig()
	n := notify.DefaultConfig()
	return FileConfig{
		Thumbnails: ThumbnailSection{
			Engine:         t.Engine,
			Width:          t.Width,
			Height:         t.Height,
			Quality:        t.Quality,
			Upscale:        t.Upscale,
			Optimize:       t.Optimize,
			ConvertPath:    t.ConvertPath,
			EpegPath:       t.EpegPath,
			JpegoptimPath:  t.JpegoptimPath,
			PdftoppmPath:   t.PdftoppmPath,
			MemoryLimit:    t.MemoryLimit,
			CommandTimeout: int(t.CommandTimeout / time.Second),
		},
		NATS: NATSSection{Subject: n.Subject},
	}
}

// ReadFileConfig reads path over the defaults. Keys missing from the file
// keep their default values.
func ReadFileConfig(path string) (FileConfig, error) {
	fc := defaultFileConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &fc); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fc, fmt.Errorf("parse config file %s at %d:%d: %w", path, row, col, err)
		}
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

// LoadConfig loads configuration from the environment and the optional
// CONFIG_FILE, creating the data and database directories.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	cfg, err := ReadConfig()
	if err != nil {
		return nil, err
	}
	logConfig(cfg)

	section("DIRECTORY SETUP")

	for _, dir := range []struct{ path, name string }{
		{cfg.DatabaseDir, "database"},
		{cfg.WarehouseDir, "warehouse"},
		{cfg.Thumbs.TempDir, "temp"},
	} {
		if err := prepareDir(dir.path); err != nil {
			return nil, fmt.Errorf("%s directory %s: %w", dir.name, dir.path, err)
		}
		logging.Info("  [OK] %-9s %s", dir.name, dir.path)
	}

	return cfg, nil
}

// ReadConfig resolves the configuration without touching the filesystem
// beyond reading CONFIG_FILE.
func ReadConfig() (*Config, error) {
	fc := defaultFileConfig()
	configFile := getEnv("CONFIG_FILE", "")
	if configFile != "" {
		var err error
		if fc, err = ReadFileConfig(configFile); err != nil {
			return nil, err
		}
	}

	dataDir, err := filepath.Abs(getEnv("DATA_DIR", "/data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	databaseDir, err := filepath.Abs(getEnv("DATABASE_DIR", "/database"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}

	ts := fc.Thumbnails
	tempDir := ts.TempDir
	if tempDir == "" {
		tempDir = filepath.Join(dataDir, "tmp")
	}

	thumbs := thumbnail.Config{
		Engine:         strings.ToLower(getEnv("THUMB_ENGINE", ts.Engine)),
		Width:          getEnvInt("THUMB_WIDTH", ts.Width),
		Height:         getEnvInt("THUMB_HEIGHT", ts.Height),
		Quality:        getEnvInt("THUMB_QUALITY", ts.Quality),
		Upscale:        getEnvBool("THUMB_UPSCALE", ts.Upscale),
		Optimize:       getEnvBool("THUMB_OPTIMIZE", ts.Optimize),
		ConvertPath:    getEnv("CONVERT_PATH", ts.ConvertPath),
		EpegPath:       getEnv("EPEG_PATH", ts.EpegPath),
		JpegoptimPath:  getEnv("JPEGOPTIM_PATH", ts.JpegoptimPath),
		PdftoppmPath:   getEnv("PDFTOPPM_PATH", ts.PdftoppmPath),
		MemoryLimit:    getEnvInt64("THUMB_MEMORY_LIMIT", ts.MemoryLimit),
		CommandTimeout: getEnvDuration("THUMB_COMMAND_TIMEOUT", time.Duration(ts.CommandTimeout)*time.Second),
		TempDir:        getEnv("TMP_DIR", tempDir),
	}

	nats := notify.DefaultConfig()
	nats.URL = getEnv("NATS_URL", fc.NATS.URL)
	nats.Subject = getEnv("NATS_SUBJECT", fc.NATS.Subject)

	themes := make(map[string]page.ThemeSpec, len(fc.Themes))
	for id, ts := range fc.Themes {
		themes[id] = page.ThemeSpec{
			Header:   ts.Header,
			Section:  ts.Section,
			Position: ts.Position,
			Body:     ts.Template,
			BodyFile: ts.TemplateFile,
		}
	}

	return &Config{
		DataDir:         dataDir,
		DatabaseDir:     databaseDir,
		Port:            getEnv("PORT", "8080"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		LogHealthChecks: getEnvBool("LOG_HEALTH_CHECKS", true),
		MaxUploadSize:   getEnvInt64("UPLOAD_MAX_SIZE", DefaultMaxUploadSize),
		ConfigFile:      configFile,
		Thumbs:          thumbs,
		NATS:            nats,
		Themes:          themes,
		DatabasePath:    filepath.Join(databaseDir, "board.db"),
		WarehouseDir:    dataDir,
	}, nil
}

func logConfig(cfg *Config) {
	section("CONFIGURATION")
	if cfg.ConfigFile != "" {
		logging.Info("  CONFIG_FILE:         %s", cfg.ConfigFile)
	}
	logging.Info("  DATA_DIR:            %s", cfg.DataDir)
	logging.Info("  DATABASE_DIR:        %s", cfg.DatabaseDir)
	logging.Info("  PORT:                %s", cfg.Port)
	logging.Info("  METRICS_PORT:        %s", cfg.MetricsPort)
	logging.Info("  METRICS_ENABLED:     %v", cfg.MetricsEnabled)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", cfg.LogHealthChecks)
	logging.Info("  UPLOAD_MAX_SIZE:     %d", cfg.MaxUploadSize)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())
	logging.Info("")
	logging.Info("  Thumbnails:")
	logging.Info("    Engine:            %s", cfg.Thumbs.Engine)
	logging.Info("    Size:              %dx%d (quality %d, upscale %v)", cfg.Thumbs.Width, cfg.Thumbs.Height, cfg.Thumbs.Quality, cfg.Thumbs.Upscale)
	logging.Info("    Command timeout:   %v", cfg.Thumbs.CommandTimeout)
	logging.Info("    Temp dir:          %s", cfg.Thumbs.TempDir)
	if cfg.NATSEnabled() {
		logging.Info("  NATS:                %s (subject %s.*)", cfg.NATS.URL, cfg.NATS.Subject)
	} else {
		logging.Info("  NATS:                DISABLED (set NATS_URL to enable)")
	}
	if len(cfg.Themes) > 0 {
		ids := lo.Keys(cfg.Themes)
		sort.Strings(ids)
		logging.Info("  Custom themes:       %s", strings.Join(ids, ", "))
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
