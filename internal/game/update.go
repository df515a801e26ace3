package game

import (
	"image/color"

	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/physics"
)

// Update advances the simulation by dt seconds. It does nothing once the game has ended.
func (s *Simulation) Update(dt float64) {
	if !s.running {
		return
	}
	if dt < 0 {
		dt = 0
	}

	s.elapsed += dt
	s.spawnEscalation()
	s.player.ExpireBuffs(s.elapsed)

	s.player.VX, s.player.VY = s.keys.Velocity(s.player.Speed)

	ctx := object.UpdateContext{
		DT:     dt,
		Now:    s.elapsed,
		Width:  s.width,
		Height: s.height,
	}
	s.player.Update(ctx)
	for _, e := range s.enemies {
		e.Update(ctx)
	}
	for _, pu := range s.powerUps {
		pu.Update(ctx)
	}
	for _, p := range s.particles {
		p.Update(ctx)
	}
	s.pruneParticles()

	if s.checkEnemyCollisions() {
		return
	}
	s.checkPowerUpCollisions()
}

// spawnEscalation adds one FastEnemy when elapsed time passes the spawn threshold.
func (s *Simulation) spawnEscalation() {
	if s.elapsed <= s.nextSpawn {
		return
	}
	x := s.rng.Float64() * max(0, s.width-object.EnemySize)
	y := s.rng.Float64() * max(0, s.height-object.EnemySize)
	s.enemies = append(s.enemies, object.NewEnemy(object.EnemyFast, x, y, s.rng, nil))
	s.nextSpawn += SpawnInterval

	s.logger.Debug("escalation spawn", "enemies", len(s.enemies), "elapsed", s.elapsed)
}

// pruneParticles removes dead particles and returns them to the pool.
func (s *Simulation) pruneParticles() {
	kept := s.particles[:0] // reuse backing array
	for _, p := range s.particles {
		if p.IsDead() {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(s.particles[len(kept):])
	s.particles = kept
}

// checkEnemyCollisions ends the game on the first enemy touching a vulnerable player.
// Returns true if the game ended.
func (s *Simulation) checkEnemyCollisions() bool {
	if s.player.Invincible {
		return false
	}
	p := s.player
	for _, e := range s.enemies {
		if !physics.SquaresCollide(p.X, p.Y, p.Size, e.X, e.Y, e.Size) {
			continue
		}
		cx, cy := p.Center()
		s.spawnParticles(cx, cy, object.ColorDamage, DamageParticles)
		s.endGame(e)
		return true
	}
	return false
}

// endGame moves to the terminal state and reports game over exactly once.
func (s *Simulation) endGame(by *object.Enemy) {
	if !s.running {
		return
	}
	s.running = false
	s.keys.Reset()
	s.logger.Info("game over", "score", s.score, "elapsed", s.elapsed, "enemy", by.Kind)
	if s.onGameOver != nil {
		s.onGameOver()
	}
}

// checkPowerUpCollisions applies and relocates every power-up the player touches.
func (s *Simulation) checkPowerUpCollisions() {
	p := s.player
	for _, pu := range s.powerUps {
		if !physics.SquaresCollide(p.X, p.Y, p.Size, pu.X, pu.Y, pu.Size) {
			continue
		}
		cx, cy := pu.Center()
		s.spawnParticles(cx, cy, object.ColorPickup, PickupParticles)
		s.applyPowerUp(pu.Kind)
		pu.Relocate(s.rng, s.width, s.height)
	}
}

// applyPowerUp dispatches a power-up effect. Unknown kinds have no effect.
func (s *Simulation) applyPowerUp(kind object.PowerUpKind) {
	switch kind {
	case object.PowerUpScore:
		s.score++
		if s.onScore != nil {
			s.onScore(s.score)
		}
	case object.PowerUpSpeed:
		s.player.GrantSpeedBoost(s.elapsed)
	case object.PowerUpInvincible:
		s.player.GrantInvincibility(s.elapsed)
	default:
		s.logger.Warn("unknown power-up", "kind", int(kind))
		return
	}

	s.logger.Debug("power-up", "kind", kind, "score", s.score)
	if s.onPickup != nil {
		s.onPickup(kind)
	}
}

func (s *Simulation) spawnParticles(x, y float64, c color.NRGBA, count int) {
	s.particles = append(s.particles, object.SpawnBurst(x, y, c, count, ParticleGravity, s.rng)...)
}

// Draw renders the current state back to front: player, enemies, power-ups, particles.
func (s *Simulation) Draw(surface object.Surface) {
	surface.ClearRect(0, 0, s.width, s.height)
	s.player.Draw(surface)
	for _, e := range s.enemies {
		e.Draw(surface)
	}
	for _, pu := range s.powerUps {
		pu.Draw(surface)
	}
	for _, p := range s.particles {
		p.Draw(surface)
	}
}
