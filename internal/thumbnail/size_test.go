package thumbnail

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"wide banner", 1000, 10, 50, 10},
		{"tall banner", 10, 1000, 10, 50},
		{"exactly 5:1", 500, 100, 500, 100},
		{"square", 300, 300, 300, 300},
		{"slightly over", 501, 100, 500, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Clamp(tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Clamp(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSize(t *testing.T) {
	box := Config{Width: 192, Height: 192}
	upscale := Config{Width: 192, Height: 192, Upscale: true}

	tests := []struct {
		name         string
		cfg          Config
		w, h         int
		wantW, wantH int
	}{
		{"landscape", box, 800, 400, 192, 96},
		{"portrait", box, 400, 800, 96, 192},
		{"small stays small", box, 50, 20, 50, 20},
		{"small upscaled", upscale, 50, 25, 192, 96},
		{"zero dims default", box, 0, 0, 192, 192},
		{"clamped before scaling", box, 1000, 10, 50, 10},
		{"zero box defaults", Config{}, 384, 384, 192, 192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Size(tt.cfg, tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Size(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestEstimateMemory(t *testing.T) {
	got := EstimateMemory(1000, 100, 50)
	want := int64(2000 + 100*50*4 + 4*1024*1024)
	if got != want {
		t.Errorf("EstimateMemory() = %d, want %d", got, want)
	}
}
