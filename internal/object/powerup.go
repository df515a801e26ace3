package object

import "image/color"

// PowerUpKind tags a power-up's effect.
type PowerUpKind int

const (
	PowerUpSpeed PowerUpKind = iota
	PowerUpScore
	PowerUpInvincible
)

// PowerUpSize is the side of a power-up's bounding box.
const PowerUpSize = 20.0

func (k PowerUpKind) String() string {
	switch k {
	case PowerUpSpeed:
		return "speed"
	case PowerUpScore:
		return "score"
	case PowerUpInvincible:
		return "invincible"
	default:
		return "unknown"
	}
}

// Color returns the display tag for the kind.
func (k PowerUpKind) Color() color.NRGBA {
	switch k {
	case PowerUpSpeed:
		return ColorSpeed
	case PowerUpScore:
		return ColorScore
	case PowerUpInvincible:
		return ColorInvincible
	default:
		return ColorUnknown
	}
}

// PowerUp is a stationary collectible. It is relocated on pickup, never removed.
type PowerUp struct {
	Entity
	Kind PowerUpKind
}

// NewPowerUp creates a power-up at the given top-left position.
func NewPowerUp(x, y, size float64, kind PowerUpKind) *PowerUp {
	return &PowerUp{
		Entity: Entity{X: x, Y: y, Size: size, Color: kind.Color()},
		Kind:   kind,
	}
}

// Update is a no-op; power-ups do not move on their own.
func (pu *PowerUp) Update(_ UpdateContext) {}

// Relocate moves the power-up to a random spot with its whole box on the canvas.
func (pu *PowerUp) Relocate(rng Rand, width, height float64) {
	pu.X = rng.Float64() * max(0, width-pu.Size)
	pu.Y = rng.Float64() * max(0, height-pu.Size)
}

// Draw renders a filled circle with a white outline, centered in the box.
func (pu *PowerUp) Draw(s Surface) {
	cx, cy := pu.Center()
	r := pu.Size / 2
	s.FillCircle(cx, cy, r, pu.Color)
	s.StrokeCircle(cx, cy, r, ColorOutline)
}
