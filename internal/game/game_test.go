package game

import (
	"image/color"
	"testing"

	"github.com/tomz197/dodge/internal/object"
)

type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

const frame = 1.0 / 60

func emptyRoster() Option {
	return WithRoster(Roster{})
}

func TestDefaultRoster(t *testing.T) {
	s := New(600, 400, nil, nil, WithRand(constRand(0)))

	p := s.Player()
	if p.X != 285 || p.Y != 185 || p.Size != 30 {
		t.Fatalf("player: got=(%f,%f,%f) want=(285,185,30)", p.X, p.Y, p.Size)
	}
	if len(s.Enemies()) != 1 {
		t.Fatalf("enemies: got=%d want=1", len(s.Enemies()))
	}
	if e := s.Enemies()[0]; e.Kind != object.EnemyBasic || e.X != 200 || e.Y != 100 {
		t.Fatalf("first enemy: got kind=%s at (%f,%f)", e.Kind, e.X, e.Y)
	}
	if len(s.PowerUps()) != 3 {
		t.Fatalf("power-ups: got=%d want=3", len(s.PowerUps()))
	}
	if pu := s.PowerUps()[0]; pu.Kind != object.PowerUpScore || pu.X != 400 || pu.Y != 250 {
		t.Fatalf("score power-up: got kind=%s at (%f,%f)", pu.Kind, pu.X, pu.Y)
	}
	if !s.Running() || s.Score() != 0 || s.NextSpawn() != SpawnInterval {
		t.Fatalf("initial state: running=%v score=%d nextSpawn=%f", s.Running(), s.Score(), s.NextSpawn())
	}
}

func TestSmartEnemiesTargetPlayer(t *testing.T) {
	s := New(600, 400, nil, nil, WithRand(constRand(0)), WithRoster(Roster{SmartEnemies: 2}))
	if len(s.Enemies()) != 2 {
		t.Fatalf("enemies: got=%d want=2", len(s.Enemies()))
	}
	for _, e := range s.Enemies() {
		if e.Kind != object.EnemySmart || e.Target != s.Player() {
			t.Fatalf("expected smart enemy targeting the player, got kind=%s", e.Kind)
		}
	}
	if e := s.Enemies()[1]; e.X != 570 || e.Y != 0 {
		t.Fatalf("second chaser corner: got=(%f,%f) want=(570,0)", e.X, e.Y)
	}
}

func TestEnemyCollisionEndsGame(t *testing.T) {
	gameOvers := 0
	// Heading pi/4 points the enemy at (200,100) straight at the player.
	s := New(600, 400, func() { gameOvers++ }, nil,
		WithRand(constRand(0.125)),
		WithRoster(Roster{Enemies: []EnemySpec{{Kind: object.EnemyBasic, X: 200, Y: 100}}}),
	)

	for i := 0; i < 120 && s.Running(); i++ {
		s.Update(frame)
	}

	if s.Running() {
		t.Fatalf("expected game to end after enemy reached the player")
	}
	if gameOvers != 1 {
		t.Fatalf("onGameOver calls: got=%d want=1", gameOvers)
	}
	if len(s.Particles()) != DamageParticles {
		t.Fatalf("damage particles: got=%d want=%d", len(s.Particles()), DamageParticles)
	}

	elapsed := s.Elapsed()
	s.Update(frame)
	if gameOvers != 1 || s.Elapsed() != elapsed {
		t.Fatalf("updates after game over must be rejected")
	}
}

func TestGameOverFiresOnceForSimultaneousHits(t *testing.T) {
	gameOvers := 0
	s := New(600, 400, func() { gameOvers++ }, nil,
		WithRand(constRand(0)),
		WithRoster(Roster{Enemies: []EnemySpec{
			{Kind: object.EnemyBasic, X: 285, Y: 185},
			{Kind: object.EnemyBasic, X: 290, Y: 185},
		}}),
	)

	s.Update(0)

	if gameOvers != 1 {
		t.Fatalf("onGameOver calls: got=%d want=1", gameOvers)
	}
	if len(s.Particles()) != DamageParticles {
		t.Fatalf("damage particles: got=%d want=%d", len(s.Particles()), DamageParticles)
	}
}

func TestInvinciblePlayerSurvivesUntilExpiry(t *testing.T) {
	gameOvers := 0
	s := New(600, 400, func() { gameOvers++ }, nil,
		WithRand(constRand(0)),
		WithRoster(Roster{Enemies: []EnemySpec{{Kind: object.EnemyBasic, X: 285, Y: 185}}}),
	)
	s.Player().GrantInvincibility(0)

	s.Update(0)
	if !s.Running() || gameOvers != 0 {
		t.Fatalf("invincible player was killed")
	}

	// One long tick: the buff expires and the enemy leaves the canvas to the right.
	s.Update(object.BuffDuration)
	if s.Player().Invincible {
		t.Fatalf("invincibility should expire at t=%f", object.BuffDuration)
	}
	if !s.Running() || gameOvers != 0 {
		t.Fatalf("unexpected game over after enemy moved away")
	}
}

func TestScorePickup(t *testing.T) {
	var scores []int
	var picked []object.PowerUpKind
	s := New(600, 400, nil, func(n int) { scores = append(scores, n) },
		WithRand(constRand(0.9)),
		WithRoster(Roster{PowerUps: []PowerUpSpec{{Kind: object.PowerUpScore, X: 290, Y: 190}}}),
		WithPickupHook(func(k object.PowerUpKind) { picked = append(picked, k) }),
	)

	s.Update(frame)

	if s.Score() != 1 {
		t.Fatalf("score: got=%d want=1", s.Score())
	}
	if len(scores) != 1 || scores[0] != 1 {
		t.Fatalf("onScore calls: got=%v want=[1]", scores)
	}
	if len(picked) != 1 || picked[0] != object.PowerUpScore {
		t.Fatalf("pickup hook calls: got=%v", picked)
	}
	if len(s.PowerUps()) != 1 {
		t.Fatalf("power-up count changed: got=%d want=1", len(s.PowerUps()))
	}
	pu := s.PowerUps()[0]
	if pu.X < 0 || pu.X > 600-pu.Size || pu.Y < 0 || pu.Y > 400-pu.Size {
		t.Fatalf("relocated power-up off canvas: (%f,%f)", pu.X, pu.Y)
	}
	if pu.X == 290 && pu.Y == 190 {
		t.Fatalf("power-up was not relocated")
	}
	if len(s.Particles()) != PickupParticles {
		t.Fatalf("pickup particles: got=%d want=%d", len(s.Particles()), PickupParticles)
	}

	s.Update(frame)
	if s.Score() != 1 || len(scores) != 1 {
		t.Fatalf("relocated power-up was collected again")
	}
}

func TestUnknownPowerUpHasNoEffect(t *testing.T) {
	var scores []int
	var picked []object.PowerUpKind
	s := New(600, 400, nil, func(n int) { scores = append(scores, n) },
		WithRand(constRand(0.9)),
		WithRoster(Roster{PowerUps: []PowerUpSpec{{Kind: object.PowerUpKind(99), X: 290, Y: 190}}}),
		WithPickupHook(func(k object.PowerUpKind) { picked = append(picked, k) }),
	)

	s.Update(frame)

	if !s.Running() {
		t.Fatalf("unknown power-up ended the game")
	}
	if s.Score() != 0 || len(scores) != 0 {
		t.Fatalf("score: got=%d onScore calls=%v want 0 and none", s.Score(), scores)
	}
	if len(picked) != 0 {
		t.Fatalf("pickup hook calls: got=%v want none", picked)
	}
	p := s.Player()
	if p.ActiveSpeedBoosts() != 0 || p.InvincibleRemaining(s.Elapsed()) != 0 {
		t.Fatalf("unknown power-up granted a buff")
	}
	if len(s.PowerUps()) != 1 {
		t.Fatalf("power-up count changed: got=%d want=1", len(s.PowerUps()))
	}
	if pu := s.PowerUps()[0]; pu.X == 290 && pu.Y == 190 {
		t.Fatalf("power-up was not relocated")
	}
}

func TestParticlesPrunedAfterLifetime(t *testing.T) {
	s := New(600, 400, nil, nil,
		WithRand(constRand(0.9)),
		WithRoster(Roster{PowerUps: []PowerUpSpec{{Kind: object.PowerUpScore, X: 290, Y: 190}}}),
	)

	s.Update(0)
	if len(s.Particles()) != PickupParticles {
		t.Fatalf("particles after pickup: got=%d want=%d", len(s.Particles()), PickupParticles)
	}
	s.Update(0.25)
	if len(s.Particles()) != PickupParticles {
		t.Fatalf("particles at half life: got=%d want=%d", len(s.Particles()), PickupParticles)
	}
	s.Update(0.25)
	if len(s.Particles()) != 0 {
		t.Fatalf("particles at end of life: got=%d want=0", len(s.Particles()))
	}
}

func TestSpeedPickupDoublesThenRestores(t *testing.T) {
	s := New(600, 400, nil, nil,
		WithRand(constRand(0.9)),
		WithRoster(Roster{PowerUps: []PowerUpSpec{{Kind: object.PowerUpSpeed, X: 290, Y: 190}}}),
	)

	s.Update(0)
	if got := s.Player().Speed; got != object.PlayerSpeed*2 {
		t.Fatalf("boosted speed: got=%f want=%f", got, object.PlayerSpeed*2)
	}

	s.KeyDown(Right)
	s.Update(0)
	if s.Player().VX != object.PlayerSpeed*2 {
		t.Fatalf("velocity should use boosted speed: got=%f", s.Player().VX)
	}

	s.KeyUp(Right)
	s.Update(object.BuffDuration)
	if got := s.Player().Speed; got != object.PlayerSpeed {
		t.Fatalf("speed after expiry: got=%f want=%f", got, object.PlayerSpeed)
	}
}

func TestInvinciblePickup(t *testing.T) {
	s := New(600, 400, nil, nil,
		WithRand(constRand(0.9)),
		WithRoster(Roster{PowerUps: []PowerUpSpec{{Kind: object.PowerUpInvincible, X: 290, Y: 190}}}),
	)
	s.Update(0)
	if !s.Player().Invincible {
		t.Fatalf("expected invincibility after pickup")
	}
}

func TestEscalationSpawnsFastEnemies(t *testing.T) {
	s := New(600, 400, nil, nil, WithRand(constRand(0)), emptyRoster())

	steps := []struct {
		ticks int
		want  int
	}{
		{20, 0}, // elapsed 10.0: not yet past the threshold
		{1, 1},  // 10.5
		{19, 1}, // 20.0
		{1, 2},  // 20.5
	}
	for _, step := range steps {
		for i := 0; i < step.ticks; i++ {
			s.Update(0.5)
		}
		if got := len(s.Enemies()); got != step.want {
			t.Fatalf("enemies at t=%f: got=%d want=%d", s.Elapsed(), got, step.want)
		}
	}

	for _, e := range s.Enemies() {
		if e.Kind != object.EnemyFast {
			t.Fatalf("escalation spawned %s, want fast", e.Kind)
		}
	}
	if s.NextSpawn() != 3*SpawnInterval {
		t.Fatalf("next spawn: got=%f want=%f", s.NextSpawn(), 3*SpawnInterval)
	}
	if !s.Running() {
		t.Fatalf("game ended unexpectedly")
	}
}

func TestKeysLastWriteWins(t *testing.T) {
	s := New(600, 400, nil, nil, WithRand(constRand(0)), emptyRoster())

	s.KeyDown(Left)
	s.KeyDown(Right)
	s.KeyDown(Up)
	s.KeyDown(Down)
	s.Update(frame)
	p := s.Player()
	if p.VX != p.Speed || p.VY != p.Speed {
		t.Fatalf("right/down should win: got=(%f,%f)", p.VX, p.VY)
	}

	s.KeyUp(Right)
	s.KeyUp(Down)
	s.Update(frame)
	if p.VX != -p.Speed || p.VY != -p.Speed {
		t.Fatalf("left/up after release: got=(%f,%f)", p.VX, p.VY)
	}

	s.KeyUp(Left)
	s.KeyUp(Up)
	x, y := p.X, p.Y
	s.Update(frame)
	if p.X != x || p.Y != y {
		t.Fatalf("player moved with no keys held")
	}
}

func TestPlayerStaysInBounds(t *testing.T) {
	s := New(600, 400, nil, nil, WithRand(constRand(0)), emptyRoster())
	pattern := []Direction{Left, Up, Right, Down}

	for i := 0; i < 2000; i++ {
		if i%250 == 0 {
			d := pattern[(i/250)%len(pattern)]
			s.keys.Reset()
			s.KeyDown(d)
		}
		s.Update(frame * float64(1+i%3))

		p := s.Player()
		if p.X < 0 || p.X > 600-p.Size || p.Y < 0 || p.Y > 400-p.Size {
			t.Fatalf("player out of bounds at tick %d: (%f,%f)", i, p.X, p.Y)
		}
	}
}

func TestStopIsTeardown(t *testing.T) {
	gameOvers := 0
	s := New(600, 400, func() { gameOvers++ }, nil, WithRand(constRand(0)))

	s.KeyDown(Left)
	s.Stop()

	if s.Running() {
		t.Fatalf("expected stopped simulation")
	}
	if s.Keys().Held(Left) {
		t.Fatalf("held keys should be cleared on stop")
	}
	s.KeyDown(Right)
	if s.Keys().Held(Right) {
		t.Fatalf("key events must be ignored after stop")
	}
	s.Update(1)
	if s.Elapsed() != 0 {
		t.Fatalf("update after stop advanced time to %f", s.Elapsed())
	}
	if gameOvers != 0 {
		t.Fatalf("stop must not report game over")
	}
}

func TestNegativeDeltaIgnored(t *testing.T) {
	s := New(600, 400, nil, nil, WithRand(constRand(0)), emptyRoster())
	s.Update(-1)
	if s.Elapsed() != 0 {
		t.Fatalf("elapsed: got=%f want=0", s.Elapsed())
	}
}

// recorder captures draw calls by name.
type recorder struct {
	calls []string
}

func (r *recorder) ClearRect(x, y, w, h float64)               { r.calls = append(r.calls, "clear") }
func (r *recorder) FillRect(x, y, w, h float64, c color.NRGBA) { r.calls = append(r.calls, "rect") }
func (r *recorder) FillCircle(cx, cy, rad float64, c color.NRGBA) {
	r.calls = append(r.calls, "circle")
}
func (r *recorder) StrokeCircle(cx, cy, rad float64, c color.NRGBA) {
	r.calls = append(r.calls, "stroke")
}
func (r *recorder) FillRotatedRect(cx, cy, size, a float64, c color.NRGBA) {
	r.calls = append(r.calls, "particle")
}

func TestDrawOrder(t *testing.T) {
	s := New(600, 400, nil, nil,
		WithRand(constRand(0.9)),
		WithRoster(Roster{
			Enemies:  []EnemySpec{{Kind: object.EnemyBasic, X: 0, Y: 0}},
			PowerUps: []PowerUpSpec{{Kind: object.PowerUpScore, X: 290, Y: 190}},
		}),
	)
	s.Update(0)

	var r recorder
	s.Draw(&r)

	want := []string{"clear", "rect", "rect", "circle", "stroke"}
	if len(r.calls) != len(want)+PickupParticles {
		t.Fatalf("draw calls: got=%d want=%d", len(r.calls), len(want)+PickupParticles)
	}
	for i, name := range want {
		if r.calls[i] != name {
			t.Fatalf("call %d: got=%s want=%s (all: %v)", i, r.calls[i], name, r.calls[:len(want)])
		}
	}
	for _, name := range r.calls[len(want):] {
		if name != "particle" {
			t.Fatalf("particles must be drawn last, got %s", name)
		}
	}
}
