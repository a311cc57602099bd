package export

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// NamedColors maps the color names accepted in configuration to RGB.
var NamedColors = map[string]color.RGBA{
	"red":    {R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	"green":  {R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	"blue":   {R: 0x1f, G: 0x3b, B: 0xd4, A: 0xff},
	"gray":   {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"grey":   {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"black":  {R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	"orange": {R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	"purple": {R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	"yellow": {R: 0xf2, G: 0xc9, B: 0x1f, A: 0xff},
	"brown":  {R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	"pink":   {R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	"cyan":   {R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

// ParseColor resolves a color name or a "#rrggbb" hex string.
func ParseColor(s string) (color.RGBA, error) {
	if c, ok := NamedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// CountryColors assigns bar colors by country with a fallback for the rest.
type CountryColors struct {
	Colors   map[string]string
	Fallback string
}

// DefaultCountryColors highlights the three countries with the most entries.
func DefaultCountryColors() CountryColors {
	return CountryColors{
		Colors: map[string]string{
			"China":                "red",
			"United Arab Emirates": "green",
			"United States":        "blue",
		},
		Fallback: "gray",
	}
}

// For returns the configured color name for country.
func (cc CountryColors) For(country string) string {
	if c, ok := cc.Colors[country]; ok {
		return c
	}
	if cc.Fallback == "" {
		return "gray"
	}
	return cc.Fallback
}

// RGBA resolves the color for country.
func (cc CountryColors) RGBA(country string) (color.RGBA, error) {
	return ParseColor(cc.For(country))
}
