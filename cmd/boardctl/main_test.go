package main

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"media-board/internal/app"
)

type cliEnv struct {
	dataDir     string
	databaseDir string
}

func setupCLITestEnv(t *testing.T) cliEnv {
	t.Helper()
	env := cliEnv{dataDir: t.TempDir(), databaseDir: t.TempDir()}
	t.Setenv("DATA_DIR", env.dataDir)
	t.Setenv("DATABASE_DIR", env.databaseDir)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("NATS_URL", "")
	t.Setenv("TMP_DIR", "")
	return env
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("output missing %q:\n%s", want, out)
	}
}

func writeSourceTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "cats"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := imaging.Save(imaging.New(64, 32, color.NRGBA{R: 90, A: 255}), filepath.Join(dir, "cats", "tabby.png")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("notes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestIngestAndShow(t *testing.T) {
	setupCLITestEnv(t)
	src := writeSourceTree(t)

	out, _, err := runCLI(t, "ingest", src, "--tags", "imported")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	requireContains(t, out, "Added")

	out, _, err = runCLI(t, "show", "1")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "tabby.png")
	requireContains(t, out, "64x32")
	requireContains(t, out, "cats")
	requireContains(t, out, "imported")

	// A second run finds nothing new.
	if _, _, err := runCLI(t, "ingest", src); err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if _, _, err := runCLI(t, "show", "2"); !errors.Is(err, app.ErrImageNotFound) {
		t.Errorf("show 2 error = %v, want ErrImageNotFound", err)
	}
}

func TestDirectoryFlags(t *testing.T) {
	setupCLITestEnv(t)
	dataDir := filepath.Join(t.TempDir(), "data")
	dbDir := filepath.Join(t.TempDir(), "db")

	if _, _, err := runCLI(t, "--data-dir", dataDir, "--database-dir", dbDir, "ingest", writeSourceTree(t)); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dbDir, "board.db")); err != nil {
		t.Errorf("database not created under --database-dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "images")); err != nil {
		t.Errorf("warehouse not created under --data-dir: %v", err)
	}
}

func TestRegenThumbs(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, "ingest", writeSourceTree(t)); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	thumbs := thumbnailFiles(t, filepath.Join(env.dataDir, "thumbs"))
	if len(thumbs) != 1 {
		t.Fatalf("thumbnails after ingest = %v", thumbs)
	}
	if err := os.Remove(thumbs[0]); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "regen-thumbs")
	if err != nil {
		t.Fatalf("regen-thumbs: %v", err)
	}
	requireContains(t, out, "Generated")

	if got := thumbnailFiles(t, filepath.Join(env.dataDir, "thumbs")); len(got) != 1 {
		t.Fatalf("thumbnails after regen = %v", got)
	}

	if _, _, err := runCLI(t, "regen-thumbs", "--force"); err != nil {
		t.Fatalf("regen-thumbs --force: %v", err)
	}
}

func thumbnailFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return files
}

func TestShowErrors(t *testing.T) {
	setupCLITestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"non-numeric id", []string{"show", "abc"}},
		{"zero id", []string{"show", "0"}},
		{"missing id", []string{"show"}},
		{"unknown image", []string{"show", "99"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestEngines(t *testing.T) {
	setupCLITestEnv(t)

	out, _, err := runCLI(t, "engines")
	if err != nil {
		t.Fatalf("engines: %v", err)
	}
	for _, want := range []string{"gd", "vips", "convert", "epeg", "pdftoppm", "jpegoptim"} {
		requireContains(t, out, want)
	}
}

func TestUnknownLogLevel(t *testing.T) {
	setupCLITestEnv(t)
	if _, _, err := runCLI(t, "--log-level", "loud", "engines"); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestRenderTable(t *testing.T) {
	if got := renderTable(nil, nil, nil); got != "" {
		t.Errorf("renderTable(nil) = %q", got)
	}

	out := renderTable([]string{"Name", "Count"}, [][]string{{"a", "1"}, {"b"}}, []columnAlignment{alignLeft, alignRight})
	for _, want := range []string{"Name", "Count", "a", "1", "b"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "NAME") {
		t.Errorf("headers should keep their case:\n%s", out)
	}
}
