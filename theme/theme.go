package theme

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Default is used whenever a stored or requested theme is unknown.
const Default = "classic"

// RGB is an opaque 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// Palette holds the colours one theme paints with.
type Palette struct {
	Name       string
	Background RGB
	SnakeHead  RGB
	SnakeBody  RGB
	Food       RGB
	Grid       RGB
}

type hexPalette struct {
	bg, head, body, food, grid string
}

var order = []string{"classic", "dark", "neon", "retro", "pastel"}

var palettes = map[string]hexPalette{
	"classic": {bg: "#000000", head: "#34a853", body: "#4caf50", food: "#ea4335", grid: "#202124"},
	"dark":    {bg: "#121212", head: "#bb86fc", body: "#985eff", food: "#cf6679", grid: "#2c2c2c"},
	"neon":    {bg: "#050816", head: "#00ffea", body: "#00b3ff", food: "#ff00ff", grid: "#111827"},
	"retro":   {bg: "#1d1a05", head: "#f5e050", body: "#c3b83f", food: "#ff5c5c", grid: "#3b2f1a"},
	"pastel":  {bg: "#fef6ff", head: "#ff9aa2", body: "#ffb7b2", food: "#a0ced9", grid: "#f2e9f7"},
}

var parsed = func() map[string]Palette {
	out := make(map[string]Palette, len(palettes))
	for name, hp := range palettes {
		p, err := hp.parse(name)
		if err != nil {
			panic(err)
		}
		out[name] = p
	}
	return out
}()

func (hp hexPalette) parse(name string) (Palette, error) {
	p := Palette{Name: name}
	fields := []struct {
		hex string
		dst *RGB
	}{
		{hp.bg, &p.Background},
		{hp.head, &p.SnakeHead},
		{hp.body, &p.SnakeBody},
		{hp.food, &p.Food},
		{hp.grid, &p.Grid},
	}
	for _, f := range fields {
		c, err := ParseHex(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("theme %s: %w", name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// ParseHex parses "#rrggbb".
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, err
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Names returns the themes in cycling order.
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	_, ok := parsed[name]
	return ok
}

// Get returns the named palette, or the default one.
func Get(name string) Palette {
	if p, ok := parsed[name]; ok {
		return p
	}
	return parsed[Default]
}

// Next returns the theme after name in cycling order.
func Next(name string) string {
	for i, n := range order {
		if n == name {
			return order[(i+1)%len(order)]
		}
	}
	return Default
}

// Dim blends c toward black by f in [0,1], used for overlays.
func Dim(c RGB, f float64) RGB {
	col := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	r, g, b := col.BlendRgb(colorful.Color{}, f).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}
