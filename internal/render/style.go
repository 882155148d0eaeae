package render

import "github.com/fatih/color"

// styler paints text with fatih/color. A disabled styler returns text
// unchanged, independent of color.NoColor.
type styler struct {
	enabled bool
}

func (s styler) paint(text, fg, bg string, bold bool) string {
	if !s.enabled || text == "" {
		return text
	}
	c := color.New()
	styled := false
	if r, g, b, ok := rgb(fg); ok {
		c.AddRGB(r, g, b)
		styled = true
	}
	if r, g, b, ok := rgb(bg); ok {
		c.AddBgRGB(r, g, b)
		styled = true
	}
	if bold {
		c.Add(color.Bold)
		styled = true
	}
	if !styled {
		return text
	}
	c.EnableColor()
	return c.Sprint(text)
}

func (s styler) fg(text, hex string) string {
	return s.paint(text, hex, "", false)
}

func (s styler) bold(text string) string {
	return s.paint(text, "", "", true)
}
