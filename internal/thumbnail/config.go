package thumbnail

import (
	"os"
	"time"
)

// Engine names.
const (
	EngineGD      = "gd"
	EngineImaging = "imaging"
	EngineVips    = "vips"
	EngineConvert = "convert"
	EngineEpeg    = "epeg"
)

// DefaultDimension replaces a zero source width or height when sizing.
const DefaultDimension = 192

// Config holds thumbnail settings shared by all engines.
type Config struct {
	Engine  string
	Width   int
	Height  int
	Quality int
	Upscale bool

	// Optimize runs jpegoptim over convert output.
	Optimize bool

	ConvertPath   string
	EpegPath      string
	JpegoptimPath string
	PdftoppmPath  string

	// MemoryLimit is the decode budget in bytes for the in-process engine.
	// Zero disables the check.
	MemoryLimit int64

	CommandTimeout time.Duration
	TempDir        string
}

// DefaultConfig returns the stock thumbnail settings.
func DefaultConfig() Config {
	return Config{
		Engine:         EngineGD,
		Width:          192,
		Height:         192,
		Quality:        75,
		ConvertPath:    "convert",
		EpegPath:       "epeg",
		JpegoptimPath:  "jpegoptim",
		PdftoppmPath:   "pdftoppm",
		MemoryLimit:    8 * 1024 * 1024 * 1024,
		CommandTimeout: 60 * time.Second,
		TempDir:        os.TempDir(),
	}
}

func (c Config) timeout() time.Duration {
	if c.CommandTimeout <= 0 {
		return 60 * time.Second
	}
	return c.CommandTimeout
}

func (c Config) quality() int {
	if c.Quality <= 0 || c.Quality > 100 {
		return 75
	}
	return c.Quality
}

func (c Config) box() (int, int) {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = DefaultDimension
	}
	if h <= 0 {
		h = DefaultDimension
	}
	return w, h
}
