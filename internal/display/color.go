package display

import (
	"github.com/fatih/color"

	"github.com/thoreinstein/jrnl/internal/settings"
)

var attributes = map[settings.TextColor]color.Attribute{
	settings.ColorBlack:   color.FgBlack,
	settings.ColorRed:     color.FgRed,
	settings.ColorGreen:   color.FgGreen,
	settings.ColorYellow:  color.FgYellow,
	settings.ColorBlue:    color.FgBlue,
	settings.ColorMagenta: color.FgMagenta,
	settings.ColorCyan:    color.FgCyan,
	settings.ColorWhite:   color.FgWhite,
}

type painter func(string) string

func plain(s string) string { return s }

// paint returns a painter for c. "none" and disabled color leave text unchanged.
func paint(c settings.TextColor, enabled bool) painter {
	attr, ok := attributes[c]
	if !enabled || !ok {
		return plain
	}
	col := color.New(attr)
	col.EnableColor()
	return func(s string) string { return col.Sprint(s) }
}
