package thumbnail

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// writeHeaderOnlyPNG writes a PNG signature and IHDR chunk with no pixel
// data. DecodeConfig accepts it; a full decode fails.
func writeHeaderOnlyPNG(t *testing.T, path string, w, h uint32) {
	t.Helper()
	var ihdr bytes.Buffer
	ihdr.WriteString("IHDR")
	_ = binary.Write(&ihdr, binary.BigEndian, w)
	_ = binary.Write(&ihdr, binary.BigEndian, h)
	ihdr.Write([]byte{8, 6, 0, 0, 0})

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(13))
	buf.Write(ihdr.Bytes())
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(ihdr.Bytes()))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func readConfig(t *testing.T, path string) image.Config {
	t.Helper()
	conf, _, err := decodeConfig(path)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return conf
}

func TestNew_SelectsEngine(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"gd", EngineGD},
		{"imaging", EngineGD},
		{"GD", EngineGD},
		{"", EngineGD},
		{"vips", EngineVips},
		{"convert", EngineConvert},
		{"epeg", EngineEpeg},
		{"not-an-engine", EngineGD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.name, DefaultConfig()).Name(); got != tt.want {
				t.Errorf("New(%q).Name() = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestImagingEngine_Generate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "thumbs", "ab", "abcd")
	writePNG(t, src, 800, 400)

	cfg := DefaultConfig()
	if err := New(EngineGD, cfg).Generate(context.Background(), src, dst); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	conf, format, err := decodeConfig(dst)
	if err != nil {
		t.Fatal(err)
	}
	if format != "jpeg" {
		t.Errorf("format = %s, want jpeg", format)
	}
	if conf.Width != 192 || conf.Height != 96 {
		t.Errorf("thumbnail = %dx%d, want 192x96", conf.Width, conf.Height)
	}
}

func TestImagingEngine_ClampsAspect(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"wide", 1000, 10, 50, 10},
		{"tall", 10, 1000, 10, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := filepath.Join(dir, tt.name+".png")
			dst := filepath.Join(dir, tt.name+".jpg")
			writePNG(t, src, tt.w, tt.h)

			if err := New(EngineGD, DefaultConfig()).Generate(context.Background(), src, dst); err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			conf := readConfig(t, dst)
			if conf.Width != tt.wantW || conf.Height != tt.wantH {
				t.Errorf("thumbnail = %dx%d, want %dx%d", conf.Width, conf.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImagingEngine_PlaceholderWithoutDecode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "huge.png")
	dst := filepath.Join(dir, "thumb")
	writeHeaderOnlyPNG(t, src, 100000, 100000)

	cfg := DefaultConfig()
	cfg.MemoryLimit = 64 * 1024 * 1024

	if err := New(EngineGD, cfg).Generate(context.Background(), src, dst); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	conf := readConfig(t, dst)
	if conf.Width != 192 || conf.Height != 64 {
		t.Errorf("placeholder = %dx%d, want 192x64", conf.Width, conf.Height)
	}
}

func TestImagingEngine_HeaderOnlyUnderLimitFailsDecode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.png")
	writeHeaderOnlyPNG(t, src, 10, 10)

	err := New(EngineGD, DefaultConfig()).Generate(context.Background(), src, filepath.Join(dir, "thumb"))
	if !IsKind(err, UnsupportedInput) {
		t.Fatalf("Generate() error = %v, want UnsupportedInput", err)
	}
}

func TestImagingEngine_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "text")
	if err := os.WriteFile(src, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New(EngineGD, DefaultConfig()).Generate(context.Background(), src, filepath.Join(dir, "thumb"))
	if !IsKind(err, UnsupportedInput) {
		t.Fatalf("Generate() error = %v, want UnsupportedInput", err)
	}
}

func TestPlaceholder(t *testing.T) {
	img := Placeholder(192, 64, TooLargeText)
	if img.Bounds().Dx() != 192 || img.Bounds().Dy() != 64 {
		t.Fatalf("bounds = %v", img.Bounds())
	}

	r, g, b, _ := img.At(0, 0).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("background is not white: %v", img.At(0, 0))
	}

	dark := 0
	for y := 24; y < 40; y++ {
		for x := 10; x < 140; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0x8000 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no text pixels drawn")
	}

	tall := TooLargePlaceholder(Config{Width: 100, Height: 40})
	if tall.Bounds().Dx() != 100 || tall.Bounds().Dy() != 40 {
		t.Errorf("TooLargePlaceholder bounds = %v, want 100x40", tall.Bounds())
	}
}

func TestConvertEngine_Arguments(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	stub := writeStub(t, dir, "convert", `for a in "$@"; do echo "$a" >> "`+argsFile+`"; done`)

	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "thumbs", "thumb")
	writePNG(t, src, 1000, 10)

	cfg := DefaultConfig()
	cfg.ConvertPath = stub
	cfg.Quality = 80

	if err := New(EngineConvert, cfg).Generate(context.Background(), src, dst); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{src + "[0]", "-extent", "50x10", "-flatten", "-strip", "-thumbnail", "192x192", "-quality", "80", "jpg:" + dst}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("args = %q\nwant %q", got, want)
	}
}

func TestConvertEngine_NonZeroExit(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, "convert", `echo "convert: no decode delegate" >&2; exit 1`)

	src := filepath.Join(dir, "src.png")
	writePNG(t, src, 20, 20)

	cfg := DefaultConfig()
	cfg.ConvertPath = stub

	err := New(EngineConvert, cfg).Generate(context.Background(), src, filepath.Join(dir, "thumb"))
	if !IsKind(err, ProcessFailed) {
		t.Fatalf("Generate() error = %v, want ProcessFailed", err)
	}
	if !strings.Contains(err.Error(), "no decode delegate") {
		t.Errorf("error should carry tool output, got %v", err)
	}
}

func TestConvertEngine_OptimizerFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	convert := writeStub(t, dir, "convert", "exit 0")
	optim := writeStub(t, dir, "jpegoptim", "exit 2")

	src := filepath.Join(dir, "src.png")
	writePNG(t, src, 20, 20)

	cfg := DefaultConfig()
	cfg.ConvertPath = convert
	cfg.JpegoptimPath = optim
	cfg.Optimize = true

	if err := New(EngineConvert, cfg).Generate(context.Background(), src, filepath.Join(dir, "thumb")); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
}

func TestConvertEngine_MissingBinary(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	writePNG(t, src, 20, 20)

	cfg := DefaultConfig()
	cfg.ConvertPath = "clearly-not-present-binary"

	err := New(EngineConvert, cfg).Generate(context.Background(), src, filepath.Join(dir, "thumb"))
	if !IsKind(err, Unavailable) {
		t.Fatalf("Generate() error = %v, want Unavailable", err)
	}
}

func TestEpegEngine_Arguments(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	stub := writeStub(t, dir, "epeg", `for a in "$@"; do echo "$a" >> "`+argsFile+`"; done`)

	cfg := DefaultConfig()
	cfg.EpegPath = stub
	cfg.Width = 150

	dst := filepath.Join(dir, "out", "thumb")
	if err := New(EngineEpeg, cfg).Generate(context.Background(), "/src.jpg", dst); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{"/src.jpg", "-c", "Created by EPEG", "--max", "150", dst}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestRunTool_Timeout(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, "slow", "exec sleep 5")

	cfg := DefaultConfig()
	cfg.CommandTimeout = 100 * time.Millisecond

	start := time.Now()
	err := RunTool(context.Background(), cfg, "slow", stub)
	if !IsKind(err, ProcessFailed) {
		t.Fatalf("RunTool() error = %v, want ProcessFailed", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Errorf("RunTool() did not honour the timeout")
	}
}

func TestRunTool_NotConfigured(t *testing.T) {
	err := RunTool(context.Background(), DefaultConfig(), "convert", "  ")
	if !IsKind(err, Unavailable) {
		t.Fatalf("RunTool() error = %v, want Unavailable", err)
	}
}

func TestVipsEngine_UnavailableBeforeInit(t *testing.T) {
	if IsVipsAvailable() {
		t.Skip("libvips already initialized in this process")
	}
	err := New(EngineVips, DefaultConfig()).Generate(context.Background(), "/nope", "/nope.jpg")
	if !IsKind(err, Unavailable) {
		t.Fatalf("Generate() error = %v, want Unavailable", err)
	}
}

func TestCheckTools(t *testing.T) {
	dir := t.TempDir()
	present := writeStub(t, dir, "present", "exit 0")

	results := CheckTools([]Tool{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank"},
	})

	if !results[0].Available || results[0].Detail != "" {
		t.Errorf("present tool = %+v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Errorf("missing tool = %+v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Errorf("blank tool detail = %q", results[2].Detail)
	}
}
