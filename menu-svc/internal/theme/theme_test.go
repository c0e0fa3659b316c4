package theme

import (
	"testing"

	"qr-menu/menu-svc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{in: "#ff0000", want: RGB{255, 0, 0}},
		{in: "00ff00", want: RGB{0, 255, 0}},
		{in: "#fff", want: RGB{255, 255, 255}},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}
	for _, testCase := range tests {
		t.Run(testCase.in, func(t *testing.T) {
			got, err := ParseHex(testCase.in)
			if testCase.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestBlend(t *testing.T) {
	red := RGB{255, 0, 0}
	assert.Equal(t, red, Blend(red, white, 0))
	assert.Equal(t, white, Blend(red, white, 1))
	assert.Equal(t, RGB{255, 128, 128}, Blend(red, white, 0.5))
	assert.Equal(t, white, Blend(red, white, 7), "ratio is clamped")
}

func TestHSL(t *testing.T) {
	tests := []struct {
		c       RGB
		h, s, l float64
	}{
		{RGB{255, 0, 0}, 0, 100, 50},
		{RGB{0, 255, 0}, 120, 100, 50},
		{RGB{0, 0, 255}, 240, 100, 50},
		{RGB{128, 128, 128}, 0, 0, 50},
		{RGB{255, 255, 255}, 0, 0, 100},
	}
	for _, testCase := range tests {
		h, s, l := testCase.c.HSL()
		assert.Equal(t, testCase.h, h, testCase.c.Hex())
		assert.Equal(t, testCase.s, s, testCase.c.Hex())
		assert.Equal(t, testCase.l, l, testCase.c.Hex())
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(domain.Theme{}))
	assert.NoError(t, Validate(Default()))
	assert.ErrorIs(t, Validate(domain.Theme{PrimaryColor: "red"}), ErrInvalidColor)
	assert.Error(t, Validate(domain.Theme{Layout: "carousel"}))
	assert.Error(t, Validate(domain.Theme{CardStyle: "glass"}))
}

func TestCSSVariables(t *testing.T) {
	vars := CSSVariables(domain.Theme{PrimaryColor: "#ff0000", BackgroundColor: "#000000", TextColor: "#ffffff"})

	assert.Equal(t, "#ff0000", vars["--menu-primary"])
	assert.Equal(t, "#ff3333", vars["--menu-primary-light"])
	assert.Equal(t, "#cc0000", vars["--menu-primary-dark"])
	assert.Equal(t, "0 100% 50%", vars["--menu-primary-hsl"])
	assert.Equal(t, "#0a0a0a", vars["--menu-surface"], "dark backgrounds lighten the surface")
	assert.Equal(t, "#999999", vars["--menu-text-muted"])
	assert.Equal(t, Default().FontFamily, vars["--menu-font"])
}

func TestCSSVariables_InvalidColorFallsBack(t *testing.T) {
	vars := CSSVariables(domain.Theme{PrimaryColor: "nope"})
	assert.Equal(t, Default().PrimaryColor, vars["--menu-primary"])
}
