package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"media-board/internal/metrics"
)

// RunTool executes a configured external tool under cfg's timeout. A missing
// binary is Unavailable; a non-zero exit or timeout is ProcessFailed.
func RunTool(ctx context.Context, cfg Config, tool, command string, args ...string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return engineErr(tool, Unavailable, "command not configured")
	}
	bin, err := exec.LookPath(command)
	if err != nil {
		return engineErr(tool, Unavailable, "binary %q not found", command)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...) //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = time.Second

	log.Debug("Running %s %s", bin, quoteArgs(args))
	start := time.Now()
	err = cmd.Run()

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ExternalCommandDuration.WithLabelValues(tool, status).Observe(time.Since(start).Seconds())

	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return engineErr(tool, ProcessFailed, "timed out after %v", cfg.timeout())
	}
	if out := strings.TrimSpace(output.String()); out != "" {
		return engineErr(tool, ProcessFailed, "%w: %s", err, out)
	}
	return engineErr(tool, ProcessFailed, "%w", err)
}

func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = strconv.Quote(a)
	}
	return strings.Join(quoted, " ")
}

type convertEngine struct {
	cfg Config
}

func (e *convertEngine) Name() string { return EngineConvert }

func (e *convertEngine) Generate(ctx context.Context, src, dst string) error {
	conf, _, err := decodeConfig(src)
	if err != nil {
		return engineErr(e.Name(), UnsupportedInput, "read header: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return engineErr(e.Name(), ProcessFailed, "create %s: %w", filepath.Dir(dst), err)
	}

	if err := RunTool(ctx, e.cfg, e.Name(), e.cfg.ConvertPath, convertArgs(e.cfg, src, dst, conf.Width, conf.Height)...); err != nil {
		return err
	}

	if e.cfg.Optimize {
		// jpegoptim only shrinks an already valid thumbnail.
		if err := RunTool(ctx, e.cfg, "jpegoptim", e.cfg.JpegoptimPath, dst); err != nil {
			log.Warn("jpegoptim failed for %s: %v", dst, err)
		}
	}
	return nil
}

func convertArgs(cfg Config, src, dst string, w, h int) []string {
	cw, ch := Clamp(w, h)
	bw, bh := cfg.box()
	return []string{
		src + "[0]",
		"-extent", fmt.Sprintf("%dx%d", cw, ch),
		"-flatten",
		"-strip",
		"-thumbnail", fmt.Sprintf("%dx%d", bw, bh),
		"-quality", strconv.Itoa(cfg.quality()),
		"jpg:" + dst,
	}
}

type epegEngine struct {
	cfg Config
}

func (e *epegEngine) Name() string { return EngineEpeg }

func (e *epegEngine) Generate(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return engineErr(e.Name(), ProcessFailed, "create %s: %w", filepath.Dir(dst), err)
	}
	bw, _ := e.cfg.box()
	return RunTool(ctx, e.cfg, e.Name(), e.cfg.EpegPath, src, "-c", "Created by EPEG", "--max", strconv.Itoa(bw), dst)
}

// Tool describes an external binary an engine depends on.
type Tool struct {
	Name     string
	Command  string
	Purpose  string
	Optional bool
}

// ToolStatus reports whether a Tool resolves on PATH.
type ToolStatus struct {
	Tool
	Available bool
	Detail    string
}

// Tools lists the external binaries referenced by cfg.
func Tools(cfg Config) []Tool {
	return []Tool{
		{Name: "convert", Command: cfg.ConvertPath, Purpose: "ImageMagick engine", Optional: cfg.Engine != EngineConvert},
		{Name: "epeg", Command: cfg.EpegPath, Purpose: "epeg engine", Optional: cfg.Engine != EngineEpeg},
		{Name: "jpegoptim", Command: cfg.JpegoptimPath, Purpose: "thumbnail optimizer", Optional: !cfg.Optimize},
		{Name: "pdftoppm", Command: cfg.PdftoppmPath, Purpose: "PDF first-page rasterizer", Optional: true},
	}
}

// CheckTools resolves every tool on PATH.
func CheckTools(tools []Tool) []ToolStatus {
	out := make([]ToolStatus, 0, len(tools))
	for _, t := range tools {
		st := ToolStatus{Tool: t}
		st.Command = strings.TrimSpace(t.Command)
		switch {
		case st.Command == "":
			st.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(st.Command); err != nil {
				st.Detail = fmt.Sprintf("binary %q not found", st.Command)
			} else {
				st.Available = true
			}
		}
		out = append(out, st)
	}
	return out
}
