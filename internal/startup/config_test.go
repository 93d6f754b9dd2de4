package startup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"media-board/internal/thumbnail"
)

// clearEnv unsets every variable ReadConfig looks at.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "DATA_DIR", "DATABASE_DIR", "PORT", "METRICS_PORT", "METRICS_ENABLED",
		"LOG_HEALTH_CHECKS", "UPLOAD_MAX_SIZE", "THUMB_ENGINE", "THUMB_WIDTH", "THUMB_HEIGHT",
		"THUMB_QUALITY", "THUMB_UPSCALE", "THUMB_OPTIMIZE", "CONVERT_PATH", "EPEG_PATH",
		"JPEGOPTIM_PATH", "PDFTOPPM_PATH", "THUMB_MEMORY_LIMIT", "THUMB_COMMAND_TIMEOUT",
		"TMP_DIR", "NATS_URL", "NATS_SUBJECT",
	} {
		t.Setenv(key, "")
	}
}

func TestReadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("DATABASE_DIR", filepath.Join(dir, "db"))

	cfg, err := ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	def := thumbnail.DefaultConfig()
	if cfg.Thumbs.Engine != def.Engine || cfg.Thumbs.Width != def.Width || cfg.Thumbs.Quality != def.Quality {
		t.Errorf("Thumbs = %+v", cfg.Thumbs)
	}
	if cfg.Thumbs.CommandTimeout != 60*time.Second {
		t.Errorf("CommandTimeout = %v", cfg.Thumbs.CommandTimeout)
	}
	if cfg.Thumbs.TempDir != filepath.Join(dir, "tmp") {
		t.Errorf("TempDir = %q", cfg.Thumbs.TempDir)
	}
	if cfg.DatabasePath != filepath.Join(dir, "db", "board.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.WarehouseDir != dir || cfg.Port != "8080" || cfg.MaxUploadSize != DefaultMaxUploadSize {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.NATSEnabled() {
		t.Error("NATS enabled without NATS_URL")
	}
	if cfg.NATS.Subject != "media-board" {
		t.Errorf("NATS.Subject = %q", cfg.NATS.Subject)
	}
}

func TestReadConfig_FileOverlay(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "board.toml")
	content := `
[thumbnails]
engine = "convert"
width = 250
optimize = true
command_timeout = 15
convert_path = "/opt/im/convert"

[nats]
url = "nats://queue:4222"

[themes.pdf]
header = "Document"
position = 5
template = "<a href='{{.ImageLink}}'>open</a>"
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", file)
	t.Setenv("DATA_DIR", dir)
	t.Setenv("DATABASE_DIR", dir)
	// The environment wins over the file.
	t.Setenv("THUMB_WIDTH", "300")

	cfg, err := ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	th := cfg.Thumbs
	if th.Engine != thumbnail.EngineConvert || !th.Optimize || th.ConvertPath != "/opt/im/convert" {
		t.Errorf("Thumbs = %+v", th)
	}
	if th.Width != 300 {
		t.Errorf("Width = %d, want env value 300", th.Width)
	}
	if th.Height != 192 {
		t.Errorf("Height = %d, want default 192", th.Height)
	}
	if th.CommandTimeout != 15*time.Second {
		t.Errorf("CommandTimeout = %v", th.CommandTimeout)
	}
	if !cfg.NATSEnabled() || cfg.NATS.URL != "nats://queue:4222" || cfg.NATS.Subject != "media-board" {
		t.Errorf("NATS = %+v", cfg.NATS)
	}
	pdf, ok := cfg.Themes["pdf"]
	if !ok || pdf.Header != "Document" || pdf.Position != 5 || !strings.Contains(pdf.Body, "{{.ImageLink}}") {
		t.Errorf("Themes = %+v", cfg.Themes)
	}
}

func TestReadFileConfig_Errors(t *testing.T) {
	if _, err := ReadFileConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[thumbnails]\nwidth = \"wide\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadFileConfig(bad)
	if err == nil || !strings.Contains(err.Error(), "bad.toml") {
		t.Errorf("ReadFileConfig(bad) error = %v", err)
	}
}

func TestLoadConfig_CreatesDirectories(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(root, "data"))
	t.Setenv("DATABASE_DIR", filepath.Join(root, "db"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	for _, dir := range []string{cfg.WarehouseDir, cfg.DatabaseDir, cfg.Thumbs.TempDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}

func TestLoadConfig_DataDirIsFile(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATA_DIR", file)
	t.Setenv("DATABASE_DIR", filepath.Join(root, "db"))

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() should fail when DATA_DIR is a file")
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_BOOL", "yes")
	t.Setenv("TEST_DURATION", "90s")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"int", getEnvInt("TEST_INT", 1), 42},
		{"bad int", getEnvInt("TEST_BAD_INT", 1), 1},
		{"unset int", getEnvInt("TEST_UNSET_INT", 7), 7},
		{"int64", getEnvInt64("TEST_INT", 1), int64(42)},
		{"bad bool", getEnvBool("TEST_BOOL", true), true},
		{"duration", getEnvDuration("TEST_DURATION", time.Second), 90 * time.Second},
		{"bad duration", getEnvDuration("TEST_INT", time.Second), time.Second},
		{"string", getEnv("TEST_UNSET_STRING", "fallback"), "fallback"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}
