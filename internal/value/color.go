package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrBadColor is returned for strings that are not hex colours.
var ErrBadColor = errors.New("malformed hex colour")

// Color is an 8-bit RGBA colour. HasAlpha records whether the source string
// carried an alpha channel, so it is only written back when it was authored.
type Color struct {
	R, G, B, A uint8
	HasAlpha   bool
}

// ParseColor parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	digits := s[1:]
	var alpha string
	switch len(digits) {
	case 3, 6:
	case 4:
		alpha = strings.Repeat(digits[3:], 2)
		digits = digits[:3]
	case 8:
		alpha = digits[6:]
		digits = digits[:6]
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	r, g, b := c.RGB255()
	out := Color{R: r, G: g, B: b, A: 255}
	if alpha != "" {
		a, err := strconv.ParseUint(alpha, 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		out.A = uint8(a)
		out.HasAlpha = true
	}
	return out, nil
}

// Hex formats the colour as "#rrggbb", or "#rrggbbaa" when alpha was authored.
func (c Color) Hex() string {
	hex := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
	if c.HasAlpha {
		return fmt.Sprintf("%s%02x", hex, c.A)
	}
	return hex
}

// maxChannelDelta is the largest absolute per-channel difference.
func (c Color) maxChannelDelta(o Color) float64 {
	d := math.Abs(float64(c.R) - float64(o.R))
	d = math.Max(d, math.Abs(float64(c.G)-float64(o.G)))
	d = math.Max(d, math.Abs(float64(c.B)-float64(o.B)))
	return math.Max(d, math.Abs(float64(c.A)-float64(o.A)))
}

// lerpColor blends each byte channel linearly. No gamma handling: the
// blend happens in 8-bit sRGB space. Eased t values that overshoot are
// clamped to the valid channel range.
func lerpColor(a, b Color, t float64) Color {
	rgb := colorful.Color{
		R: lerp(float64(a.R), float64(b.R), t) / 255,
		G: lerp(float64(a.G), float64(b.G), t) / 255,
		B: lerp(float64(a.B), float64(b.B), t) / 255,
	}
	r, g, bl := rgb.Clamped().RGB255()

	alpha := math.Round(lerp(float64(a.A), float64(b.A), t))
	alpha = math.Max(0, math.Min(255, alpha))

	return Color{R: r, G: g, B: bl, A: uint8(alpha), HasAlpha: a.HasAlpha || b.HasAlpha}
}
