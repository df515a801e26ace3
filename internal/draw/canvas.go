package draw

import (
	"image/color"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tomz197/dodge/internal/object"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Pixel is one sub-pixel of the canvas. Zero value is unset (background).
type Pixel struct {
	R, G, B uint8
	On      bool
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// It scales from logical (game) coordinates to terminal pixels and implements object.Surface.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Pixel // Flat slice: [y * termWidth + x]
	shown          []Pixel // What the terminal currently displays, for diff rendering
	fresh          bool    // shown is invalid; next Render repaints everything

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than the render area.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder // Buffer for batching render output
	numBuf          [20]byte        // Scratch buffer for integer formatting
	scaledBuf       []Point         // Reusable buffer for fillPolygon scaled points
	intersectionBuf []float64       // Reusable buffer for scanline intersections
}

var _ object.Surface = (*Canvas)(nil)

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the terminal cells the canvas occupies.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	subPixelHeight := termHeight * 2

	// Reallocate if size changed
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]Pixel, subPixelHeight*termWidth)
		c.shown = make([]Pixel, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.fresh = true
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.fresh = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// ForceRedraw makes the next Render repaint every cell.
// Call it after anything else has written over the canvas area.
func (c *Canvas) ForceRedraw() {
	c.fresh = true
}

// MarkTextDirty invalidates cells covered by text written over the canvas so the
// next Render repaints them. col and row are 1-based canvas coordinates.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	top := r * 2 * c.termWidth
	bottom := top + c.termWidth
	for x := max(col-1, 0); x < min(col-1+width, c.termWidth); x++ {
		// A pixel that is off never carries color, so this never matches a real pixel.
		c.shown[top+x] = Pixel{R: 1}
		c.shown[bottom+x] = Pixel{R: 1}
	}
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// At returns the pixel at terminal pixel coordinates. Out of range reads as unset.
func (c *Canvas) At(x, y int) Pixel {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return Pixel{}
	}
	return c.pixels[y*c.termWidth+x]
}

// setPixel blends a color into a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col color.NRGBA) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight || col.A == 0 {
		return
	}
	p := &c.pixels[y*c.termWidth+x]
	if col.A == 255 {
		*p = Pixel{R: col.R, G: col.G, B: col.B, On: true}
		return
	}
	a := float64(col.A) / 255
	*p = Pixel{
		R:  blend(p.R, col.R, a),
		G:  blend(p.G, col.G, a),
		B:  blend(p.B, col.B, a),
		On: true,
	}
}

func blend(dst, src uint8, a float64) uint8 {
	return uint8(math.Round(float64(src)*a + float64(dst)*(1-a)))
}

// toPixel converts logical coordinates to pixel coordinates.
func (c *Canvas) toPixel(x, y float64) (float64, float64) {
	return x * c.scaleX, y * c.scaleY
}

// pixelRange returns the pixel indices whose centers fall within [lo, hi) logical units.
func pixelRange(lo, hi, scale float64) (int, int) {
	return int(math.Ceil(lo*scale - 0.5)), int(math.Ceil(hi*scale-0.5)) - 1
}

// ClearRect unsets every pixel inside the logical rectangle.
func (c *Canvas) ClearRect(x, y, w, h float64) {
	x0, x1 := pixelRange(x, x+w, c.scaleX)
	y0, y1 := pixelRange(y, y+h, c.scaleY)
	for py := max(y0, 0); py <= min(y1, c.subPixelHeight-1); py++ {
		row := c.pixels[py*c.termWidth : (py+1)*c.termWidth]
		lo := min(max(x0, 0), c.termWidth)
		hi := max(min(x1+1, c.termWidth), lo)
		clear(row[lo:hi])
	}
}

// FillRect fills a logical rectangle. Tiny rectangles still light the pixel under their center.
func (c *Canvas) FillRect(x, y, w, h float64, col color.NRGBA) {
	x0, x1 := pixelRange(x, x+w, c.scaleX)
	y0, y1 := pixelRange(y, y+h, c.scaleY)
	if x1 < x0 || y1 < y0 {
		c.plot(x+w/2, y+h/2, col)
		return
	}
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			c.setPixel(px, py, col)
		}
	}
}

// FillCircle fills a logical circle (an ellipse in pixel space when scales differ).
func (c *Canvas) FillCircle(cx, cy, r float64, col color.NRGBA) {
	hit := false
	c.eachPixelIn(cx-r, cy-r, cx+r, cy+r, func(px, py int, lx, ly float64) {
		if (lx-cx)*(lx-cx)+(ly-cy)*(ly-cy) <= r*r {
			c.setPixel(px, py, col)
			hit = true
		}
	})
	if !hit {
		c.plot(cx, cy, col)
	}
}

// StrokeCircle draws a one-pixel ring of logical radius r.
func (c *Canvas) StrokeCircle(cx, cy, r float64, col color.NRGBA) {
	// Half a pixel on the coarser axis, in logical units
	tol := 0.5 * max(1/c.scaleX, 1/c.scaleY)
	c.eachPixelIn(cx-r-tol, cy-r-tol, cx+r+tol, cy+r+tol, func(px, py int, lx, ly float64) {
		d := math.Hypot(lx-cx, ly-cy)
		if math.Abs(d-r) <= tol {
			c.setPixel(px, py, col)
		}
	})
}

// FillRotatedRect fills a size×size square centered on (cx, cy) rotated by angle.
func (c *Canvas) FillRotatedRect(cx, cy, size, angle float64, col color.NRGBA) {
	// Below about a pixel the polygon fill would miss; light the center instead.
	if size*c.scaleX < 1.5 || size*c.scaleY < 1.5 {
		c.plot(cx, cy, col)
		return
	}
	h := size / 2
	sin, cos := math.Sincos(angle)
	corners := [4]Point{}
	for i, d := range [4]Point{{-h, -h}, {h, -h}, {h, h}, {-h, h}} {
		corners[i] = Point{
			X: cx + d.X*cos - d.Y*sin,
			Y: cy + d.X*sin + d.Y*cos,
		}
	}
	c.fillPolygon(corners[:], col)
}

// plot lights the single pixel containing a logical point.
func (c *Canvas) plot(x, y float64, col color.NRGBA) {
	px, py := c.toPixel(x, y)
	c.setPixel(int(math.Floor(px)), int(math.Floor(py)), col)
}

// eachPixelIn calls fn for every pixel whose center lies in the logical box,
// passing the pixel coordinates and the logical position of its center.
func (c *Canvas) eachPixelIn(x0, y0, x1, y1 float64, fn func(px, py int, lx, ly float64)) {
	px0, px1 := pixelRange(x0, x1, c.scaleX)
	py0, py1 := pixelRange(y0, y1, c.scaleY)
	for py := max(py0, 0); py <= min(py1, c.subPixelHeight-1); py++ {
		ly := (float64(py) + 0.5) / c.scaleY
		for px := max(px0, 0); px <= min(px1, c.termWidth-1); px++ {
			lx := (float64(px) + 0.5) / c.scaleX
			fn(px, py, lx, ly)
		}
	}
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point, col color.NRGBA) {
	// Reuse or grow scaled points buffer
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	// Scale points to pixel coordinates
	for i, p := range points {
		scaled[i].X, scaled[i].Y = c.toPixel(p.X, p.Y)
	}

	// Find bounding box in pixel space
	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	// Scanline fill in pixel space
	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		// Reuse intersection buffer
		intersections := c.intersectionBuf[:0]

		// Find intersections with all edges
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i] - 0.5))
			xEnd := int(math.Floor(intersections[i+1] - 0.5))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// Render writes every cell that changed since the last Render using half-block
// characters with 24-bit foreground (upper pixel) and background (lower pixel).
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			if !c.fresh && top == c.shown[topOffset+col] && bottom == c.shown[bottomOffset+col] {
				continue
			}
			c.shown[topOffset+col] = top
			c.shown[bottomOffset+col] = bottom

			appendCursor(&c.renderBuf, col+1+c.offsetCol, row+1+c.offsetRow)
			c.writeCell(top, bottom)
		}
	}
	c.fresh = false

	if c.renderBuf.Len() > 0 {
		c.renderBuf.WriteString(ansiReset)
	}

	return writeChunked(w, c.renderBuf.String())
}

// writeCell appends the escape codes and glyph for one terminal cell.
func (c *Canvas) writeCell(top, bottom Pixel) {
	switch {
	case top.On && bottom.On:
		c.sgr("38", top)
		c.sgr("48", bottom)
		c.renderBuf.WriteRune(BlockUpperHalf)
	case top.On:
		c.renderBuf.WriteString(ansiReset)
		c.sgr("38", top)
		c.renderBuf.WriteRune(BlockUpperHalf)
	case bottom.On:
		c.renderBuf.WriteString(ansiReset)
		c.sgr("38", bottom)
		c.renderBuf.WriteRune(BlockLowerHalf)
	default:
		c.renderBuf.WriteString(ansiReset)
		c.renderBuf.WriteByte(' ')
	}
}

// sgr appends a 24-bit color escape; layer is "38" (foreground) or "48" (background).
func (c *Canvas) sgr(layer string, p Pixel) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.WriteString(layer)
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(p.R), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(p.G), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(p.B), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box around the canvas area when there is room for it.
func (c *Canvas) RenderBorder(w io.Writer) error {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return nil
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	buf.WriteString(ansiReset)
	writeAt(&buf, left, top, "┌"+bar+"┐")
	writeAt(&buf, left, bottom, "└"+bar+"┘")
	for row := top + 1; row < bottom; row++ {
		writeAt(&buf, left, row, "│")
		writeAt(&buf, right, row, "│")
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

func writeAt(buf *strings.Builder, col, row int, s string) {
	appendCursor(buf, col, row)
	buf.WriteString(s)
}

// TerminalWidth returns the terminal column count the canvas occupies.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the terminal row count the canvas occupies.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// PixelWidth returns the horizontal pixel count.
func (c *Canvas) PixelWidth() int {
	return c.termWidth
}

// PixelHeight returns the vertical pixel count (two per row).
func (c *Canvas) PixelHeight() int {
	return c.subPixelHeight
}
