package object

import (
	"image/color"
	"math"
)

// ReferenceFPS is the frame rate velocities are expressed against.
// Velocities are in units per tick at 60 FPS and scaled by the real delta.
const ReferenceFPS = 60.0

// Rand is the source of randomness for headings, placement and particle spread.
// *math/rand.Rand satisfies it; tests inject deterministic sources.
type Rand interface {
	Float64() float64
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	DT     float64 // Seconds since the previous tick
	Now    float64 // Elapsed simulation time in seconds (after this tick's advance)
	Width  float64 // Canvas width
	Height float64 // Canvas height
}

// Step returns the displacement multiplier for this tick (dt * reference rate).
func (ctx UpdateContext) Step() float64 {
	return ctx.DT * ReferenceFPS
}

// Surface is a 2-D drawing target. Objects only issue draw calls against it.
// Coordinates are canvas-space; colors carry their own alpha.
type Surface interface {
	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64, c color.NRGBA)
	FillCircle(cx, cy, r float64, c color.NRGBA)
	StrokeCircle(cx, cy, r float64, c color.NRGBA)
	// FillRotatedRect fills a size×size square centered on (cx, cy) rotated by angle radians.
	FillRotatedRect(cx, cy, size, angle float64, c color.NRGBA)
}

// Object is a drawable and updatable game entity.
type Object interface {
	Update(ctx UpdateContext)
	Draw(s Surface)
}

// Entity is the record every variant embeds: a positioned, sized, colored square.
type Entity struct {
	X, Y  float64     // Top-left corner
	Size  float64     // Side of the square bounding box
	Color color.NRGBA // Display tag
}

// Center returns the center of the bounding box.
func (e *Entity) Center() (float64, float64) {
	return e.X + e.Size/2, e.Y + e.Size/2
}

// ClampInto keeps the full bounding box inside a width×height canvas.
func (e *Entity) ClampInto(width, height float64) {
	e.X = clamp(e.X, 0, width-e.Size)
	e.Y = clamp(e.Y, 0, height-e.Size)
}

// clamp limits v to [lo, hi]. When hi < lo the lower bound wins.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Palette tags used across the game.
var (
	ColorPlayer     = color.NRGBA{R: 0, G: 0, B: 255, A: 255}     // blue
	ColorEnemy      = color.NRGBA{R: 255, G: 0, B: 0, A: 255}     // red
	ColorFastEnemy  = color.NRGBA{R: 255, G: 165, B: 0, A: 255}   // orange
	ColorSmartEnemy = color.NRGBA{R: 128, G: 0, B: 128, A: 255}   // purple
	ColorSpeed      = color.NRGBA{R: 255, G: 215, B: 0, A: 255}   // gold
	ColorScore      = color.NRGBA{R: 0, G: 255, B: 0, A: 255}     // lime
	ColorInvincible = color.NRGBA{R: 255, G: 0, B: 255, A: 255}   // magenta
	ColorOutline    = color.NRGBA{R: 255, G: 255, B: 255, A: 255} // white
	ColorUnknown    = color.NRGBA{R: 128, G: 128, B: 128, A: 255} // gray
	ColorDamage     = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	ColorPickup     = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
)
