package viz

import (
	"math"
	"strings"

	"github.com/san-kum/shocksim/internal/flow"
)

// Braille cell dot bits, indexed [row][col] within the 2x4 cell.
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a braille plotting surface with 2x4 sub-pixels per cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// Set lights sub-pixel (x, y); the origin is the top-left corner.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) HLine(x0, x1, y int) {
	for x := x0; x <= x1; x++ {
		c.Set(x, y)
	}
}

func (c *Canvas) VLine(x, y0, y1 int) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		c.Set(x, y)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ProfileChannels selects the quantities drawn by DrawProfile.
var ProfileChannels = []string{"pressure", "density", "temperature", "velocity"}

// Channel reads one profile quantity from a station summary.
func Channel(s flow.Summary, name string) float64 {
	switch name {
	case "density":
		return s.Density
	case "temperature":
		return s.Temperature
	case "velocity":
		return s.Velocity
	}
	return s.Pressure
}

// DrawProfile draws the jump of one quantity between two stations.
func (c *Canvas) DrawProfile(up, down *flow.State, name string) {
	c.DrawStep(Channel(up.Summary(), name), Channel(down.Summary(), name))
}

// DrawStep draws a step from level a on the left half to level b on the
// right, joined at the shock plane. Levels are scaled to the larger of the two.
func (c *Canvas) DrawStep(a, b float64) {
	c.Clear()
	w, h := c.Width*2, c.Height*4
	if w < 4 || h < 4 {
		return
	}
	top := math.Max(math.Abs(a), math.Abs(b))
	if top == 0 || math.IsNaN(top) || math.IsInf(top, 0) {
		return
	}
	level := func(v float64) int {
		return h - 1 - int(math.Round(math.Abs(v)/top*float64(h-2)))
	}

	mid := w / 2
	ya, yb := level(a), level(b)
	c.HLine(0, mid, ya)
	c.VLine(mid, ya, yb)
	c.HLine(mid, w-1, yb)
	c.HLine(0, w-1, h-1)
}
