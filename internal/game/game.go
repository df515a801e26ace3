// Package game implements the arcade simulation: entity updates, collisions,
// power-up buffs, escalation spawning and the particle lifecycle.
//
// A Simulation is single-threaded. Hosts drive it by calling Update(dt) then
// Draw(surface) once per frame and feed input through KeyDown and KeyUp from
// the same goroutine.
package game

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/dodge/internal/object"
)

// Simulation owns every entity and advances the game one tick at a time.
type Simulation struct {
	width, height float64

	player    *object.Player
	enemies   []*object.Enemy
	powerUps  []*object.PowerUp
	particles []*object.Particle

	score     int
	elapsed   float64
	nextSpawn float64
	running   bool
	keys      Keys

	onGameOver func()
	onScore    func(int)
	onPickup   func(object.PowerUpKind)

	rng    object.Rand
	logger *log.Logger
	roster *Roster
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithRand routes all randomness through rng.
func WithRand(rng object.Rand) Option {
	return func(s *Simulation) {
		s.rng = rng
	}
}

// WithLogger sets the logger for game events.
func WithLogger(logger *log.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithRoster replaces the default starting enemies and power-ups.
func WithRoster(r Roster) Option {
	return func(s *Simulation) {
		s.roster = &r
	}
}

// WithPickupHook is called after each power-up effect is applied.
func WithPickupHook(fn func(object.PowerUpKind)) Option {
	return func(s *Simulation) {
		s.onPickup = fn
	}
}

// New creates a running simulation on a width×height canvas.
// onGameOver and onScore may be nil.
func New(width, height float64, onGameOver func(), onScore func(int), opts ...Option) *Simulation {
	s := &Simulation{
		width:      width,
		height:     height,
		nextSpawn:  SpawnInterval,
		running:    true,
		onGameOver: onGameOver,
		onScore:    onScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.roster == nil {
		r := DefaultRoster(width, height)
		s.roster = &r
	}

	s.player = object.NewPlayer(width/2-object.PlayerSize/2, height/2-object.PlayerSize/2, object.PlayerSize)
	s.player.ClampInto(width, height)
	s.populate(*s.roster)
	return s
}

// populate builds the starting enemies and power-ups.
func (s *Simulation) populate(r Roster) {
	for _, spec := range r.Enemies {
		var target *object.Player
		if spec.Kind == object.EnemySmart {
			target = s.player
		}
		s.enemies = append(s.enemies, object.NewEnemy(spec.Kind, spec.X, spec.Y, s.rng, target))
	}
	for i := 0; i < r.SmartEnemies; i++ {
		x, y := corner(i, s.width, s.height, object.EnemySize)
		s.enemies = append(s.enemies, object.NewEnemy(object.EnemySmart, x, y, s.rng, s.player))
	}
	for _, spec := range r.PowerUps {
		pu := object.NewPowerUp(spec.X, spec.Y, object.PowerUpSize, spec.Kind)
		pu.ClampInto(s.width, s.height)
		s.powerUps = append(s.powerUps, pu)
	}
}

// KeyDown records that a direction became held. Ignored once stopped.
func (s *Simulation) KeyDown(d Direction) {
	if s.running {
		s.keys.Press(d)
	}
}

// KeyUp records that a direction was released. Ignored once stopped.
func (s *Simulation) KeyUp(d Direction) {
	if s.running {
		s.keys.Release(d)
	}
}

// Stop ends the simulation without reporting game over.
// Held keys are cleared and every later Update, KeyDown and KeyUp is a no-op.
func (s *Simulation) Stop() {
	s.running = false
	s.keys.Reset()
}

// Width returns the canvas width.
func (s *Simulation) Width() float64 { return s.width }

// Height returns the canvas height.
func (s *Simulation) Height() float64 { return s.height }

// Player returns the player. The simulation keeps ownership.
func (s *Simulation) Player() *object.Player { return s.player }

// Enemies returns the enemies in spawn order.
func (s *Simulation) Enemies() []*object.Enemy { return s.enemies }

// PowerUps returns the power-ups.
func (s *Simulation) PowerUps() []*object.PowerUp { return s.powerUps }

// Particles returns the live particles.
func (s *Simulation) Particles() []*object.Particle { return s.particles }

// Score returns the current score.
func (s *Simulation) Score() int { return s.score }

// Elapsed returns simulated seconds since start.
func (s *Simulation) Elapsed() float64 { return s.elapsed }

// NextSpawn returns the elapsed time after which the next FastEnemy appears.
func (s *Simulation) NextSpawn() float64 { return s.nextSpawn }

// Running reports whether the game is still in play.
func (s *Simulation) Running() bool { return s.running }

// Keys returns a copy of the held key state.
func (s *Simulation) Keys() Keys { return s.keys }
