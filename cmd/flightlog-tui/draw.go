package main

import (
	"github.com/gdamore/tcell/v2"
)

// drawLine draws a line using Bresenham's line algorithm
func drawLine(screen tcell.Screen, x0, y0, x1, y1 int, char rune, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		screen.SetContent(x0, y0, char, nil, style)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// drawText writes s starting at (x, y), clipped to maxX.
func drawText(screen tcell.Screen, x, y, maxX int, s string, style tcell.Style) {
	for _, ch := range s {
		if x >= maxX {
			return
		}
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
