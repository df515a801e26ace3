package object

import (
	"image/color"
	"math"

	"github.com/tomz197/dodge/internal/physics"
)

// EnemyKind selects an enemy's motion policy.
type EnemyKind int

const (
	EnemyBasic EnemyKind = iota // Bounces around the canvas
	EnemyFast                   // Bounces faster; spawned by escalation
	EnemySmart                  // Chases the player
)

// EnemySize is the side of every enemy's bounding box.
const EnemySize = 30.0

// Speeds in units per tick at 60 FPS.
var enemySpeeds = map[EnemyKind]float64{
	EnemyBasic: 100.0 / ReferenceFPS,
	EnemyFast:  200.0 / ReferenceFPS,
	EnemySmart: 120.0 / ReferenceFPS,
}

var enemyColors = map[EnemyKind]color.NRGBA{
	EnemyBasic: ColorEnemy,
	EnemyFast:  ColorFastEnemy,
	EnemySmart: ColorSmartEnemy,
}

func (k EnemyKind) String() string {
	switch k {
	case EnemyBasic:
		return "basic"
	case EnemyFast:
		return "fast"
	case EnemySmart:
		return "smart"
	default:
		return "unknown"
	}
}

// Enemy is an autonomous moving obstacle.
type Enemy struct {
	Entity
	Kind   EnemyKind
	VX, VY float64 // Velocity (units per tick at 60 FPS)
	Speed  float64 // Fixed velocity magnitude

	// Target is read, never owned. Only smart enemies use it.
	Target *Player
}

// NewEnemy creates an enemy of the given kind heading in a random direction.
// target may be nil for kinds that do not chase.
func NewEnemy(kind EnemyKind, x, y float64, rng Rand, target *Player) *Enemy {
	speed := enemySpeeds[kind]
	angle := rng.Float64() * 2 * math.Pi

	return &Enemy{
		Entity: Entity{X: x, Y: y, Size: EnemySize, Color: enemyColors[kind]},
		Kind:   kind,
		VX:     math.Cos(angle) * speed,
		VY:     math.Sin(angle) * speed,
		Speed:  speed,
		Target: target,
	}
}

// Update steers (smart enemies only), moves and bounces off the canvas edges.
func (e *Enemy) Update(ctx UpdateContext) {
	switch e.Kind {
	case EnemySmart:
		e.chase()
	case EnemyBasic, EnemyFast:
	}

	e.X += e.VX * ctx.Step()
	e.Y += e.VY * ctx.Step()

	// Reflect each axis independently, only while heading further out.
	if (e.X < 0 && e.VX < 0) || (e.X > ctx.Width-e.Size && e.VX > 0) {
		e.VX = -e.VX
	}
	if (e.Y < 0 && e.VY < 0) || (e.Y > ctx.Height-e.Size && e.VY > 0) {
		e.VY = -e.VY
	}
}

// chase points the velocity at the target. At zero distance the last velocity is kept.
func (e *Enemy) chase() {
	if e.Target == nil {
		return
	}
	dx := e.Target.X - e.X
	dy := e.Target.Y - e.Y
	dist := physics.Distance(e.X, e.Y, e.Target.X, e.Target.Y)
	if dist > 0 {
		e.VX = dx / dist * e.Speed
		e.VY = dy / dist * e.Speed
	}
}

// Draw renders the enemy as a filled square.
func (e *Enemy) Draw(s Surface) {
	s.FillRect(e.X, e.Y, e.Size, e.Size, e.Color)
}
