// Package report renders evaluations as text: summary, plot, and tables.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Marker is a vertical tick on the plot at a fractional x position.
type Marker struct {
	Frac  float64
	Label string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80

	curveColor     = "\x1b[36m" // cyan
	nowColor       = "\x1b[31m" // red
	milestoneColor = "\x1b[32m" // green
)

// PlotCurve renders the decay curve as a braille plot. The y axis spans
// [0, yMax] mg. nowFrac places the "now" column marker; a negative value
// hides it. Milestone markers are drawn as ticks along the bottom edge.
func PlotCurve(w io.Writer, title string, values []float64, yMax, nowFrac float64, markers []Marker, width, height int, forceColor bool) error {
	if len(values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth(yMax)
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	if yMax <= 0 {
		yMax = 1
	}

	scaled := resampleValues(values, width)

	// Independent cell layers so each keeps its own color. The now column
	// and milestone ticks take color precedence over the curve.
	nowCells := makeCells(height, width)
	markCells := makeCells(height, width)
	curveCells := makeCells(height, width)

	prevX, prevY := -1, -1
	for x, v := range scaled {
		row := valueToRow(v, 0, yMax, height*4)
		px := x * 2
		if prevX >= 0 {
			drawLine(prevX, prevY, px, row, func(dx, dy int) {
				setBrailleDot(curveCells, dx, dy)
			})
		} else {
			setBrailleDot(curveCells, px, row)
		}
		prevX, prevY = px, row
	}

	if nowFrac >= 0 && nowFrac <= 1 {
		col := fracToDotColumn(nowFrac, width)
		for y := 0; y < height*4; y += 2 {
			setBrailleDot(nowCells, col, y)
		}
	}
	for _, m := range markers {
		if m.Frac < 0 || m.Frac > 1 {
			continue
		}
		col := fracToDotColumn(m.Frac, width)
		for y := height*4 - 3; y < height*4; y++ {
			setBrailleDot(markCells, col, y)
		}
	}

	useColor := shouldUseColor(w, forceColor)
	layers := []plotLayer{
		{cells: nowCells, color: nowColor},
		{cells: markCells, color: milestoneColor},
		{cells: curveCells, color: curveColor},
	}

	axisLabels := makeAxisLabels(height, yMax)
	leftAxisWidth := 0
	for _, label := range axisLabels {
		if w := runewidth.StringWidth(label); w > leftAxisWidth {
			leftAxisWidth = w
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", leftAxisWidth, axisLabels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, color := composeCell(layers, x, y)
			ch := brailleFromMask(mask)
			if useColor && color != "" {
				row.WriteString(color)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, renderPlotLegend(nowFrac >= 0 && nowFrac <= 1, len(markers) > 0, useColor)); err != nil {
		return err
	}
	return nil
}

type plotLayer struct {
	cells [][]uint8
	color string
}

func renderPlotLegend(hasNow, hasMarkers, useColor bool) string {
	parts := []string{colorize(useColor, curveColor, "⠒ nicotine remaining (mg)")}
	if hasNow {
		parts = append(parts, colorize(useColor, nowColor, "⡂ now"))
	}
	if hasMarkers {
		parts = append(parts, colorize(useColor, milestoneColor, "⡀ milestones"))
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func colorize(useColor bool, color, s string) string {
	if !useColor {
		return s
	}
	return color + s + colorReset
}

func fracToDotColumn(frac float64, width int) int {
	col := int(math.Round(frac * float64(width*2-1)))
	if col < 0 {
		col = 0
	}
	if col > width*2-1 {
		col = width*2 - 1
	}
	return col
}

func autoPlotWidth(yMax float64) int {
	return PlotWidthFor(terminalWidth(), yMax)
}

// PlotWidthFor computes a plot width that fits the total available width
// next to the y axis labels for the given scale.
func PlotWidthFor(totalWidth int, yMax float64) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := runewidth.StringWidth(axisLabel(yMax)) + runewidth.StringWidth(axisSeparator)
	plotWidth := totalWidth - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
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

func axisLabel(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func makeAxisLabels(height int, yMax float64) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = axisLabel(yMax)
	if height > 2 {
		labels[height/2] = axisLabel(yMax / 2)
	}
	if height > 1 {
		labels[height-1] = axisLabel(0)
	}
	return labels
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(layers []plotLayer, x, y int) (uint8, string) {
	var mask uint8
	color := ""
	for _, layer := range layers {
		if y < 0 || y >= len(layer.cells) {
			continue
		}
		if x < 0 || x >= len(layer.cells[y]) {
			continue
		}
		cellMask := layer.cells[y][x]
		if cellMask == 0 {
			continue
		}
		if color == "" {
			color = layer.color
		}
		mask |= cellMask
	}
	return mask, color
}

func resampleValues(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := int(float64(i) * float64(len(values)) / float64(width))
			end := int(float64(i+1) * float64(len(values)) / float64(width))
			if end <= start {
				end = start + 1
			}
			if end > len(values) {
				end = len(values)
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if width == 1 || len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY < 0 || cellY >= len(cells) {
		return
	}
	if cellX < 0 || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
