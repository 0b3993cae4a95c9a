package cachekey

import (
	"fmt"
	"math"
	"time"
)

// DefaultBandWidth is the confidence band width used when none is
// configured.
const DefaultBandWidth = 0.1

// Banding quantizes confidence scores to a coarse band before they are
// folded into a key, absorbing floating-point noise. The band width is a
// policy parameter, not a magic constant.
type Banding struct {
	// Width is the band width. Zero or negative means DefaultBandWidth.
	Width float64
}

// Band returns the stable band label for a confidence value. Confidence
// is clamped to [0, 1]; out-of-range inputs never fail.
//
// The value is first rounded at millis precision so values equal up to
// floating-point noise (0.8499999999 vs 0.8500000001) land in the same
// band even when they straddle a band boundary.
func (b Banding) Band(confidence float64) string {
	width := b.Width
	if width <= 0 || width > 1 {
		width = DefaultBandWidth
	}

	c := confidence
	if math.IsNaN(c) || c < 0 {
		c = 0
	} else if c > 1 {
		c = 1
	}

	// Integer arithmetic keeps band assignment exact at boundaries.
	milli := int(math.Round(c * 1000))
	widthMilli := int(math.Round(width * 1000))
	if widthMilli <= 0 {
		widthMilli = 100
	}
	idx := (milli + widthMilli/2) / widthMilli

	return fmt.Sprintf("band-%d", idx)
}

// timeCategory buckets a processing duration for cache differentiation.
// Exact durations must never feed the hash directly.
func timeCategory(d time.Duration) string {
	ms := d.Milliseconds()
	switch {
	case ms <= 100:
		return "fast"
	case ms <= 500:
		return "medium"
	case ms <= 2000:
		return "slow"
	default:
		return "very_slow"
	}
}
