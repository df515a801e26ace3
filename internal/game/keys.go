package game

// Direction is one of the four logical movement keys.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
	numDirections
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Keys is the held state of the four directions.
// Hosts feed it edge events; the simulation reads it once per tick.
type Keys struct {
	held [numDirections]bool
}

// Press marks d as held.
func (k *Keys) Press(d Direction) {
	if d >= 0 && d < numDirections {
		k.held[d] = true
	}
}

// Release marks d as no longer held.
func (k *Keys) Release(d Direction) {
	if d >= 0 && d < numDirections {
		k.held[d] = false
	}
}

// Held reports whether d is currently held.
func (k Keys) Held(d Direction) bool {
	return d >= 0 && d < numDirections && k.held[d]
}

// Reset releases every direction.
func (k *Keys) Reset() {
	k.held = [numDirections]bool{}
}

// Velocity derives the per-tick velocity for the given speed.
// Writes land in Left, Right, Up, Down order, so the later key wins on each axis.
func (k Keys) Velocity(speed float64) (vx, vy float64) {
	if k.held[Left] {
		vx = -speed
	}
	if k.held[Right] {
		vx = speed
	}
	if k.held[Up] {
		vy = -speed
	}
	if k.held[Down] {
		vy = speed
	}
	return vx, vy
}
