package diagfmt

import (
	"github.com/fatih/color"

	"movecheck/internal/diag"
)

// palette holds the colours of one render. Colours are switched per
// instance so concurrent renders with different settings do not interfere.
type palette struct {
	err       *color.Color
	warn      *color.Color
	info      *color.Color
	bold      *color.Color
	primary   *color.Color
	secondary *color.Color
	gutter    *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:       mk(color.FgRed, color.Bold),
		warn:      mk(color.FgYellow, color.Bold),
		info:      mk(color.FgCyan, color.Bold),
		bold:      mk(color.Bold),
		primary:   mk(color.FgRed),
		secondary: mk(color.FgBlue),
		gutter:    mk(color.FgBlue, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevWarning:
		return p.warn
	case diag.SevInfo:
		return p.info
	default:
		return p.err
	}
}

func (p palette) style(s cellStyle) *color.Color {
	switch s {
	case stylePrimary:
		return p.primary
	case styleSecondary:
		return p.secondary
	case styleGutter:
		return p.gutter
	default:
		return p.bold
	}
}
