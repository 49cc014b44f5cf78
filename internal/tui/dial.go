package tui

import (
	"math"
	"strings"

	"github.com/verte-zerg/wordwheel/internal/fusion"
)

// Dial panels are fixed-size character grids. The ellipse radii compensate
// for the roughly 2:1 cell aspect of terminals.
const (
	dialW   = 21
	dialH   = 11
	dialGap = 4
)

const (
	dialRadiusX = 9.0
	dialRadiusY = 4.5
)

// layout places the two dial panels on screen; the same numbers drive
// rendering and mouse hit-testing.
type layout struct {
	topY   int
	leftX  int
	rightX int
}

func computeLayout(width int) layout {
	total := dialW*2 + dialGap
	startX := 0
	if width > total {
		startX = (width - total) / 2
	}
	return layout{
		topY:   dialsTopRow,
		leftX:  startX,
		rightX: startX + dialW + dialGap,
	}
}

// hitTest reports which dial panel contains the screen cell, if any.
func (l layout) hitTest(x, y int) (fusion.DialID, bool) {
	if y < l.topY || y >= l.topY+dialH {
		return 0, false
	}
	if x >= l.leftX && x < l.leftX+dialW {
		return fusion.Left, true
	}
	if x >= l.rightX && x < l.rightX+dialW {
		return fusion.Right, true
	}
	return 0, false
}

// origin returns the panel's top-left screen cell.
func (l layout) origin(id fusion.DialID) (int, int) {
	if id == fusion.Left {
		return l.leftX, l.topY
	}
	return l.rightX, l.topY
}

// pointerAngle converts a screen cell inside a panel into the angle
// subtended at the panel center, in degrees, 0 pointing up, clockwise
// positive.
func (l layout) pointerAngle(id fusion.DialID, x, y int) float64 {
	ox, oy := l.origin(id)
	cx, cy := ox+dialW/2, oy+dialH/2
	dx := float64(x-cx) / dialRadiusX
	dy := float64(y-cy) / dialRadiusY
	return math.Atan2(dx, -dy) * 180 / math.Pi
}

// renderDial draws one dial panel with its pointer at the given effective
// angle.
func renderDial(angle float64, active bool) string {
	cx, cy := dialW/2, dialH/2
	rad := angle * math.Pi / 180
	px := cx + int(math.Round(dialRadiusX*math.Sin(rad)))
	py := cy - int(math.Round(dialRadiusY*math.Cos(rad)))

	var b strings.Builder
	for row := 0; row < dialH; row++ {
		for col := 0; col < dialW; col++ {
			b.WriteString(dialCell(col, row, cx, cy, px, py, active))
		}
		if row < dialH-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func dialCell(col, row, cx, cy, px, py int, active bool) string {
	if col == px && row == py {
		if active {
			return activePointerStyle.Render("●")
		}
		return pointerStyle.Render("●")
	}
	if col == cx && row == cy {
		return ringStyle.Render("+")
	}
	nx := float64(col-cx) / dialRadiusX
	ny := float64(row-cy) / dialRadiusY
	d := math.Sqrt(nx*nx + ny*ny)
	if math.Abs(d-1) < 0.12 {
		return ringStyle.Render("·")
	}
	return " "
}
