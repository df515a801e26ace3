package object

import (
	"image/color"
	"math"
	"sync"
)

// ParticleLife is how long a particle lives, in seconds.
const ParticleLife = 0.5

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect.
type Particle struct {
	Entity
	VX, VY        float64 // Velocity (units per tick at 60 FPS)
	Life          float64 // Seconds remaining
	MaxLife       float64 // Initial life (for fade calculation)
	Gravity       float64 // Vertical acceleration per second
	Rotation      float64 // Radians, cosmetic
	RotationSpeed float64 // Radians per tick, cosmetic
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, size float64, c color.NRGBA, vx, vy, gravity float64) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		Entity:  Entity{X: x, Y: y, Size: size, Color: c},
		VX:      vx,
		VY:      vy,
		Life:    ParticleLife,
		MaxLife: ParticleLife,
		Gravity: gravity,
	}
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnBurst creates count particles flying out of (x, y) in random directions.
func SpawnBurst(x, y float64, c color.NRGBA, count int, gravity float64, rng Rand) []*Particle {
	particles := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		// Signed speed, so some particles fly back through the origin
		speed := rng.Float64()*200 - 100
		vx := math.Cos(angle) * speed / ReferenceFPS
		vy := math.Sin(angle) * speed / ReferenceFPS
		size := rng.Float64()*4 + 2

		p := NewParticle(x, y, size, c, vx, vy, gravity)
		p.Rotation = rng.Float64() * 2 * math.Pi
		p.RotationSpeed = (rng.Float64() - 0.5) * 0.2
		particles = append(particles, p)
	}
	return particles
}

// Alpha is the remaining life fraction, always within [0, 1].
func (p *Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return clamp(p.Life/p.MaxLife, 0, 1)
}

// IsDead reports whether the particle has run out of life.
func (p *Particle) IsDead() bool {
	return p.Life <= 0
}

// Update applies gravity, moves the particle and burns down its life.
func (p *Particle) Update(ctx UpdateContext) {
	p.VY += p.Gravity * ctx.DT
	p.X += p.VX * ctx.Step()
	p.Y += p.VY * ctx.Step()
	p.Rotation += p.RotationSpeed
	p.Life -= ctx.DT
}

// Draw renders the particle as a rotated square faded by its remaining life.
func (p *Particle) Draw(s Surface) {
	cx, cy := p.Center()
	c := p.Color
	c.A = uint8(math.Round(p.Alpha() * 255))
	s.FillRotatedRect(cx, cy, p.Size, p.Rotation, c)
}
