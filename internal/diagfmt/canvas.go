package diagfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// displayWidth returns the terminal column width of s, counting tabs as
// tabWidth columns.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r == '\t' {
			w += tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

type cellStyle uint8

const (
	stylePlain cellStyle = iota
	stylePrimary
	styleSecondary
	styleGutter
)

func styleFor(primary bool) cellStyle {
	if primary {
		return stylePrimary
	}
	return styleSecondary
}

type cell struct {
	r     rune
	style cellStyle
}

// canvas is one row of marker cells addressed by display column.
type canvas struct {
	cells []cell
}

func newCanvas(width int) *canvas {
	c := &canvas{cells: make([]cell, width)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) fill(from, to int, r rune, style cellStyle) {
	for len(c.cells) < to {
		c.cells = append(c.cells, cell{r: ' '})
	}
	for i := from; i < to; i++ {
		c.cells[i] = cell{r: r, style: style}
	}
}

// render joins runs of equally styled cells, colouring each run once.
func (c *canvas) render(pal palette) string {
	var b strings.Builder
	for i := 0; i < len(c.cells); {
		j := i
		var run strings.Builder
		for j < len(c.cells) && c.cells[j].style == c.cells[i].style {
			run.WriteRune(c.cells[j].r)
			j++
		}
		if c.cells[i].style == stylePlain {
			b.WriteString(run.String())
		} else {
			b.WriteString(pal.style(c.cells[i].style).Sprint(run.String()))
		}
		i = j
	}
	return b.String()
}
