package theme

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"qr-menu/menu-svc/internal/domain"
)

var ErrInvalidColor = errors.New("color must be a hex value like #1a2b3c")

var (
	validCardStyles = map[string]bool{"flat": true, "elevated": true, "outlined": true}
	validLayouts    = map[string]bool{"list": true, "grid": true, "compact": true}
)

func Default() domain.Theme {
	return domain.Theme{
		PrimaryColor:    "#e85d04",
		BackgroundColor: "#ffffff",
		TextColor:       "#1f2933",
		AccentColor:     "#2a9d8f",
		FontFamily:      "Inter, sans-serif",
		CardStyle:       "elevated",
		Layout:          "list",
	}
}

// WithDefaults fills every blank field from Default.
func WithDefaults(t domain.Theme) domain.Theme {
	d := Default()
	if t.PrimaryColor == "" {
		t.PrimaryColor = d.PrimaryColor
	}
	if t.BackgroundColor == "" {
		t.BackgroundColor = d.BackgroundColor
	}
	if t.TextColor == "" {
		t.TextColor = d.TextColor
	}
	if t.AccentColor == "" {
		t.AccentColor = d.AccentColor
	}
	if t.FontFamily == "" {
		t.FontFamily = d.FontFamily
	}
	if t.CardStyle == "" {
		t.CardStyle = d.CardStyle
	}
	if t.Layout == "" {
		t.Layout = d.Layout
	}
	return t
}

// Validate checks colors and the enumerated fields. Blank fields are allowed
// and fall back to defaults when rendered.
func Validate(t domain.Theme) error {
	for field, c := range map[string]string{
		"primaryColor":    t.PrimaryColor,
		"backgroundColor": t.BackgroundColor,
		"textColor":       t.TextColor,
		"accentColor":     t.AccentColor,
	} {
		if c == "" {
			continue
		}
		if _, err := ParseHex(c); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	if t.CardStyle != "" && !validCardStyles[t.CardStyle] {
		return fmt.Errorf("cardStyle: unknown style %q", t.CardStyle)
	}
	if t.Layout != "" && !validLayouts[t.Layout] {
		return fmt.Errorf("layout: unknown layout %q", t.Layout)
	}
	return nil
}

type RGB struct{ R, G, B uint8 }

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex accepts #rgb and #rrggbb, with or without the leading '#'.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGB{}, ErrInvalidColor
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, ErrInvalidColor
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Blend mixes b into a; ratio 0 gives a, ratio 1 gives b.
func Blend(a, b RGB, ratio float64) RGB {
	ratio = math.Max(0, math.Min(1, ratio))
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x)*(1-ratio) + float64(y)*ratio))
	}
	return RGB{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B)}
}

// HSL returns hue in degrees and saturation/lightness in percent.
func (c RGB) HSL() (h, s, l float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	if max == min {
		return 0, 0, math.Round(l * 100)
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60

	return math.Round(h), math.Round(s * 100), math.Round(l * 100)
}

func hslString(c RGB) string {
	h, s, l := c.HSL()
	return fmt.Sprintf("%.0f %.0f%% %.0f%%", h, s, l)
}

var white = RGB{255, 255, 255}
var black = RGB{0, 0, 0}

// CSSVariables maps a theme onto the custom properties read by the public
// menu stylesheet. Invalid colors fall back to the default palette.
func CSSVariables(t domain.Theme) map[string]string {
	t = WithDefaults(t)
	d := Default()

	color := func(v, fallback string) RGB {
		c, err := ParseHex(v)
		if err != nil {
			c, _ = ParseHex(fallback)
		}
		return c
	}

	primary := color(t.PrimaryColor, d.PrimaryColor)
	bg := color(t.BackgroundColor, d.BackgroundColor)
	text := color(t.TextColor, d.TextColor)
	accent := color(t.AccentColor, d.AccentColor)

	surfaceTarget := black
	if _, _, l := bg.HSL(); l < 50 {
		surfaceTarget = white
	}

	return map[string]string{
		"--menu-primary":       primary.Hex(),
		"--menu-primary-light": Blend(primary, white, 0.2).Hex(),
		"--menu-primary-dark":  Blend(primary, black, 0.2).Hex(),
		"--menu-primary-hsl":   hslString(primary),
		"--menu-accent":        accent.Hex(),
		"--menu-background":    bg.Hex(),
		"--menu-surface":       Blend(bg, surfaceTarget, 0.04).Hex(),
		"--menu-text":          text.Hex(),
		"--menu-text-muted":    Blend(text, bg, 0.4).Hex(),
		"--menu-font":          t.FontFamily,
		"--menu-card-style":    t.CardStyle,
		"--menu-layout":        t.Layout,
	}
}
