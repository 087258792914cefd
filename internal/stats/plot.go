package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 12
	axisSeparator       = " ┤"
	colorRed            = "\x1b[31m"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// PlotSeries renders a braille line plot of s scaled from zero to its max.
// Width is the total width including the axis; 0 uses the terminal width.
func PlotSeries(w io.Writer, s Series, width, height int, forceColor bool) error {
	if len(s.Values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = terminalWidth()
	}

	maxVal := 0.0
	for _, v := range s.Values {
		maxVal = math.Max(maxVal, v)
	}
	labels := axisLabels(maxVal, height)
	axisWidth := 0
	for _, l := range labels {
		axisWidth = max(axisWidth, len(l))
	}
	plotWidth := max(minPlotWidth, width-axisWidth-len([]rune(axisSeparator)))

	values := resampleSeries(s.Values, plotWidth*2)
	cells := makeCells(height, plotWidth)
	dotRows := height * 4
	prevX, prevY := -1, -1
	for x, v := range values {
		y := valueToRow(v, maxVal, dotRows)
		if prevX >= 0 {
			drawLine(prevX, prevY, x, y, func(dx, dy int) {
				setBrailleDot(cells, dx, dy)
			})
		} else {
			setBrailleDot(cells, x, y)
		}
		prevX, prevY = x, y
	}

	useColor := shouldUseColor(w, forceColor)
	if s.Name != "" {
		if _, err := fmt.Fprintln(w, s.Name); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisWidth, labels[y], axisSeparator))
		if useColor {
			row.WriteString(colorRed)
		}
		for x := 0; x < plotWidth; x++ {
			row.WriteRune(brailleFromMask(cells[y][x]))
		}
		if useColor {
			row.WriteString(colorReset)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	return nil
}

func axisLabels(maxVal float64, height int) []string {
	labels := make([]string, height)
	labels[0] = fmt.Sprintf("%.0f", maxVal)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.0f", maxVal/2)
	}
	if height > 1 {
		labels[height-1] = "0"
	}
	return labels
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// resampleSeries stretches or averages values onto width points.
func resampleSeries(values []float64, width int) []float64 {
	out := make([]float64, width)
	switch {
	case width == 0:
		return out
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
		return out
	case len(values) > width:
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := max((i+1)*len(values)/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(pos)
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func valueToRow(v, maxVal float64, rows int) int {
	if rows <= 1 || maxVal <= 0 {
		return rows - 1
	}
	row := int(math.Round((1 - v/maxVal) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func setBrailleDot(cells [][]uint8, x, y int) {
	cellY, cellX := y/4, x/2
	if y < 0 || x < 0 || cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// Dot bits of a braille cell, column-major per Unicode.
var brailleDots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func brailleDotMask(x, y int) uint8 {
	return brailleDots[x][y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
