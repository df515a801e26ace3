package game

// Game configuration constants.
// All tunable simulation parameters are centralized here for easy adjustment.

// Escalation
const (
	SpawnInterval = 10.0 // Seconds between escalation FastEnemy spawns
)

// Effects
const (
	DamageParticles = 60
	PickupParticles = 25
	ParticleGravity = 0.0
)

// Default roster positions from the reference layout.
const (
	firstEnemyX   = 200.0
	firstEnemyY   = 100.0
	scorePowerUpX = 400.0
	scorePowerUpY = 250.0
)
