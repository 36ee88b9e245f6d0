package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rrggbb" into its channels.
func ParseHexColor(s string) (r, g, b uint8, err error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// Shade returns base brightened or darkened by up to 15% depending on where
// index sits in [0, total). Copies of one part stay visually related but
// distinguishable. Unparseable colors are returned unchanged.
func Shade(base string, index, total int) string {
	r, g, b, err := ParseHexColor(base)
	if err != nil || total <= 1 {
		return base
	}
	factor := 0.85 + float64(index)/float64(total-1)*0.3
	scale := func(c uint8) uint8 {
		return uint8(math.Min(255, math.Max(0, math.Round(float64(c)*factor))))
	}
	return fmt.Sprintf("#%02x%02x%02x", scale(r), scale(g), scale(b))
}
