package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// goldenAngle spreads generated hues so neighbouring ids stay distinct.
const goldenAngle = 137.50776405003785

// LaneColor maps a layout color id to a display color. Ids inside the
// palette use its fixed colors; larger ids get generated hues whose
// lightness suits the theme.
func (p Palette) LaneColor(id int) colorful.Color {
	if id < 0 {
		id = -id
	}
	if id < len(p.Lanes) {
		if c, err := colorful.Hex(p.Lanes[id]); err == nil {
			return c
		}
	}
	hue := math.Mod(float64(id)*goldenAngle, 360)
	lightness := 0.45
	if p.Dark {
		lightness = 0.75
	}
	return colorful.Hcl(hue, 0.6, lightness).Clamped()
}

// LaneHex is LaneColor as #rrggbb.
func (p Palette) LaneHex(id int) string {
	return p.LaneColor(id).Hex()
}

func rgb(hex string) (r, g, b int, ok bool) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, false
	}
	r8, g8, b8 := c.RGB255()
	return int(r8), int(g8), int(b8), true
}
