package game

import "github.com/tomz197/dodge/internal/object"

// EnemySpec places one enemy in the starting roster.
type EnemySpec struct {
	Kind object.EnemyKind
	X, Y float64
}

// PowerUpSpec places one power-up in the starting roster.
type PowerUpSpec struct {
	Kind object.PowerUpKind
	X, Y float64
}

// Roster describes the entities a simulation starts with, besides the player.
type Roster struct {
	Enemies  []EnemySpec
	PowerUps []PowerUpSpec

	// SmartEnemies adds that many chasers, one per canvas corner in turn.
	SmartEnemies int
}

// DefaultRoster is one bouncing enemy plus one power-up of each kind.
func DefaultRoster(width, height float64) Roster {
	return Roster{
		Enemies: []EnemySpec{
			{Kind: object.EnemyBasic, X: firstEnemyX, Y: firstEnemyY},
		},
		PowerUps: []PowerUpSpec{
			{Kind: object.PowerUpScore, X: scorePowerUpX, Y: scorePowerUpY},
			{Kind: object.PowerUpSpeed, X: width / 6, Y: height * 3 / 4},
			{Kind: object.PowerUpInvincible, X: width * 5 / 6, Y: height / 6},
		},
	}
}

// corner returns the top-left position for the i-th chaser.
func corner(i int, width, height, size float64) (float64, float64) {
	switch i % 4 {
	case 0:
		return 0, 0
	case 1:
		return width - size, 0
	case 2:
		return 0, height - size
	default:
		return width - size, height - size
	}
}
