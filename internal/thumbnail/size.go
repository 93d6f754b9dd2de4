package thumbnail

// MaxAspect is the widest ratio kept before the source is cropped.
const MaxAspect = 5

// Clamp limits w:h to at most MaxAspect:1 in either direction.
// The returned rectangle is anchored at the origin of the source.
func Clamp(w, h int) (int, int) {
	if w > h*MaxAspect {
		w = h * MaxAspect
	}
	if h > w*MaxAspect {
		h = w * MaxAspect
	}
	return w, h
}

// Size returns the thumbnail dimensions for a w×h source fitted into the
// configured box. Zero source dimensions count as DefaultDimension. The
// result only exceeds the source when Upscale is set.
func Size(cfg Config, w, h int) (int, int) {
	if w <= 0 {
		w = DefaultDimension
	}
	if h <= 0 {
		h = DefaultDimension
	}
	w, h = Clamp(w, h)

	maxW, maxH := cfg.box()
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	if scale > 1 && !cfg.Upscale {
		scale = 1
	}

	tw := max(int(float64(w)*scale), 1)
	th := max(int(float64(h)*scale), 1)
	return tw, th
}

// EstimateMemory approximates the bytes needed to decode a w×h image stored
// in a file of the given size.
func EstimateMemory(fileSize int64, w, h int) int64 {
	return fileSize*2 + int64(w)*int64(h)*4 + 4*1024*1024
}
