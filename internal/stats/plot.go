package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisWidth           = 6
	terminalWidthBackup = 80
)

var seriesColors = []lipgloss.Color{"6", "5", "3", "2", "4"}

// Chart renders series as a braille line plot, each series scaled to its own range.
type Chart struct {
	Title  string
	Width  int
	Height int
	Color  bool
}

// canvas holds braille dot masks plus the first series that touched each cell.
type canvas struct {
	dots  [][]uint8
	owner [][]int
}

func newCanvas(width, height int) *canvas {
	c := &canvas{dots: make([][]uint8, height), owner: make([][]int, height)}
	for y := range c.dots {
		c.dots[y] = make([]uint8, width)
		c.owner[y] = make([]int, width)
		for x := range c.owner[y] {
			c.owner[y][x] = -1
		}
	}
	return c
}

// braille dot bits indexed by [row][column] within a 2x4 cell.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func (c *canvas) set(x, y, series int) {
	cy, cx := y/4, x/2
	if y < 0 || x < 0 || cy >= len(c.dots) || cx >= len(c.dots[cy]) {
		return
	}
	c.dots[cy][cx] |= dotBits[y%4][x%2]
	if c.owner[cy][cx] < 0 {
		c.owner[cy][cx] = series
	}
}

// line draws between two dot coordinates with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1, series int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0, series)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Render writes the chart for the given series. Empty series are skipped.
func (ch Chart) Render(w io.Writer, series ...Series) error {
	kept := series[:0:0]
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	width := ch.Width
	if width <= 0 {
		width = PlotWidthFor(TerminalWidth())
	}
	width = max(width, minPlotWidth)
	height := ch.Height
	if height <= 0 {
		height = defaultPlotHeight
	}

	cv := newCanvas(width, height)
	dotRows := height * 4
	ranges := make([][2]float64, len(kept))
	for si, s := range kept {
		values := resample(s.Values, width)
		lo, hi := bounds(values)
		if hi-lo < 1e-9 {
			lo--
			hi++
		}
		ranges[si] = [2]float64{lo, hi}
		prevX, prevY := -1, -1
		for i, v := range values {
			x := i * 2
			y := int(math.Round((1 - (v-lo)/(hi-lo)) * float64(dotRows-1)))
			y = clamp(y, 0, dotRows-1)
			if prevX < 0 {
				cv.set(x, y, si)
			} else {
				cv.line(prevX, prevY, x, y, si)
			}
			prevX, prevY = x, y
		}
	}

	var b strings.Builder
	if ch.Title != "" {
		b.WriteString(ch.Title + "\n")
	}
	for si, s := range kept {
		label := fmt.Sprintf("%s %.0f..%.0f", s.Name, ranges[si][0], ranges[si][1])
		b.WriteString("  " + ch.paint(si, "⣿ "+label) + "\n")
	}
	for y := 0; y < height; y++ {
		b.WriteString(strings.Repeat(" ", axisWidth-2) + "│ ")
		for x := 0; x < width; x++ {
			r := string(rune(0x2800 + int(cv.dots[y][x])))
			if owner := cv.owner[y][x]; owner >= 0 {
				r = ch.paint(owner, r)
			}
			b.WriteString(r)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func (ch Chart) paint(series int, s string) string {
	if !ch.Color {
		return s
	}
	color := seriesColors[series%len(seriesColors)]
	return lipgloss.NewStyle().Foreground(color).Render(s)
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisWidth, minPlotWidth)
}

// TerminalWidth returns the stdout width, or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// UseColor reports whether w is a terminal that should receive colored output.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
