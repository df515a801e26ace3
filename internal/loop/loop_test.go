package loop

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/dodge/internal/game"
	"github.com/tomz197/dodge/internal/input"
	"github.com/tomz197/dodge/internal/object"
)

const frame = 1.0 / 60

type fakeSound struct {
	powerUps []object.PowerUpKind
	gameOver int
}

func (f *fakeSound) PowerUp(kind object.PowerUpKind) { f.powerUps = append(f.powerUps, kind) }
func (f *fakeSound) GameOver()                       { f.gameOver++ }

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestSession(roster game.Roster, sound Sound) (*Session, *bytes.Buffer) {
	var buf bytes.Buffer
	s := NewSession(&buf, Options{
		TermSizeFunc: fixedSize(80, 27),
		Seed:         1,
		Roster:       &roster,
		Sound:        sound,
	})
	return s, &buf
}

func press(b string) input.Input {
	return input.Input{Confirm: true, Pressed: []byte(b)}
}

func TestFitCanvas(t *testing.T) {
	tests := []struct {
		name      string
		termW     int
		termH     int
		want      layout
		wantsFits bool
	}{
		{"standard", 80, 27, layout{width: 78, height: 26, offsetCol: 1, offsetRow: 1}, true},
		{"capped and centered", 300, 100, layout{width: 180, height: 60, offsetCol: 60, offsetRow: 20}, true},
		{"short", 10, 3, layout{width: 6, height: 2, offsetCol: 2, offsetRow: 1}, true},
		{"too narrow", 2, 10, layout{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fitCanvas(tt.termW, tt.termH)
			if got != tt.want {
				t.Fatalf("got=%+v want=%+v", got, tt.want)
			}
			if got.fits() != tt.wantsFits {
				t.Fatalf("fits: got=%v want=%v", got.fits(), tt.wantsFits)
			}
		})
	}
}

func TestConfirmStartsGame(t *testing.T) {
	s, _ := newTestSession(game.Roster{}, nil)

	s.Step(input.Input{}, frame)
	if s.state.GameState != GameStateStart || s.sim != nil {
		t.Fatalf("game started without confirm")
	}

	s.Step(press(" "), frame)
	if s.state.GameState != GameStatePlaying || s.sim == nil {
		t.Fatalf("state: got=%v want playing", s.state.GameState)
	}
	if s.state.Games != 1 {
		t.Fatalf("games: got=%d want=1", s.state.Games)
	}
}

func TestHeldKeysMovePlayer(t *testing.T) {
	s, _ := newTestSession(game.Roster{}, nil)
	s.Step(press("\r"), frame)

	x0 := s.sim.Player().X
	var right input.Input
	right.Held[input.Right] = true
	right.Pressed = []byte("d")
	s.Step(right, frame)

	x1 := s.sim.Player().X
	if x1 <= x0 {
		t.Fatalf("player did not move right: %f -> %f", x0, x1)
	}

	s.Step(input.Input{}, frame)
	if x2 := s.sim.Player().X; x2 != x1 {
		t.Fatalf("player kept moving after release: %f -> %f", x1, x2)
	}
}

func TestGameOverThenRestart(t *testing.T) {
	sound := &fakeSound{}
	roster := game.Roster{
		Enemies: []game.EnemySpec{{Kind: object.EnemyBasic, X: 285, Y: 185}},
	}
	s, _ := newTestSession(roster, sound)

	s.Step(press(" "), frame)
	first := s.sim
	s.Step(input.Input{}, frame)

	if s.state.GameState != GameStateOver {
		t.Fatalf("state: got=%v want over", s.state.GameState)
	}
	if sound.gameOver != 1 {
		t.Fatalf("game over sound: got=%d want=1", sound.gameOver)
	}

	s.Step(press(" "), frame)
	if s.state.GameState != GameStateOver {
		t.Fatalf("restart accepted before delay")
	}

	s.Step(input.Input{}, 1)
	s.Step(press(" "), frame)
	if s.state.GameState != GameStatePlaying {
		t.Fatalf("state after restart: got=%v want playing", s.state.GameState)
	}
	if s.sim == first || s.sim.Score() != 0 || s.state.Games != 2 {
		t.Fatalf("restart should build a fresh simulation")
	}
}

func TestPowerUpPlaysSoundAndTracksBest(t *testing.T) {
	sound := &fakeSound{}
	roster := game.Roster{
		PowerUps: []game.PowerUpSpec{{Kind: object.PowerUpScore, X: 290, Y: 190}},
	}
	s, _ := newTestSession(roster, sound)

	s.Step(press(" "), frame)
	s.Step(input.Input{}, frame)

	if len(sound.powerUps) != 1 || sound.powerUps[0] != object.PowerUpScore {
		t.Fatalf("power-up sounds: got=%v", sound.powerUps)
	}
	if s.state.BestScore != 1 {
		t.Fatalf("best score: got=%d want=1", s.state.BestScore)
	}
}

func TestQuitEndsSession(t *testing.T) {
	s, _ := newTestSession(game.Roster{}, nil)
	s.Step(press(" "), frame)
	s.Step(input.Input{Quit: true, Pressed: []byte("q")}, frame)

	if s.state.Running {
		t.Fatalf("session still running after quit")
	}
}

func TestIdlePlayerWarnedThenDisconnected(t *testing.T) {
	s, _ := newTestSession(game.Roster{}, nil)

	s.Step(input.Input{}, 91)
	if !s.state.isInactive || !s.state.Running {
		t.Fatalf("expected inactivity warning, inactive=%v running=%v", s.state.isInactive, s.state.Running)
	}

	s.Step(press(" "), frame)
	if s.state.isInactive {
		t.Fatalf("key press should clear the warning")
	}

	s.Step(input.Input{}, 121)
	if s.state.Running {
		t.Fatalf("idle session should disconnect")
	}
}

func TestShutdownNoticeEndsSession(t *testing.T) {
	shutdown := make(chan struct{})
	var buf bytes.Buffer
	s := NewSession(&buf, Options{TermSizeFunc: fixedSize(80, 27), Seed: 1, Shutdown: shutdown})

	s.Step(press(" "), frame)
	close(shutdown)
	s.checkShutdown()

	if s.state.GameState != GameStateShutdown {
		t.Fatalf("state: got=%v want shutdown", s.state.GameState)
	}
	if s.sim.Running() {
		t.Fatalf("simulation should be stopped on shutdown")
	}

	if err := s.drawFrame(); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if !strings.Contains(buf.String(), "SERVER SHUTTING DOWN") {
		t.Fatalf("shutdown notice not drawn")
	}

	s.Step(input.Input{}, 5)
	if s.state.Running {
		t.Fatalf("session should end after the notice")
	}
}

func TestDrawHUDWhilePlaying(t *testing.T) {
	s, buf := newTestSession(game.Roster{}, nil)
	s.Step(press(" "), frame)
	s.sim.Player().GrantInvincibility(0)

	if err := s.drawFrame(); err != nil {
		t.Fatalf("draw: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Score: 0") || !strings.Contains(out, "Shield") {
		t.Fatalf("HUD missing from output")
	}
}

func TestTooSmallTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf, Options{TermSizeFunc: fixedSize(2, 2), Seed: 1})

	if err := s.drawFrame(); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if !strings.Contains(buf.String(), "Terminal too small") {
		t.Fatalf("expected too-small notice")
	}
}

func TestRunDrawsStartScreenAndQuits(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{TermSizeFunc: fixedSize(80, 27), Seed: 1}

	done := make(chan error, 1)
	go func() { done <- Run(context.Background(), strings.NewReader("q"), &buf, opts) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return after quit")
	}

	if !strings.Contains(buf.String(), titleArt[1]) {
		t.Fatalf("start screen not drawn")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, pr, io.Discard, Options{TermSizeFunc: fixedSize(80, 27), Seed: 1})
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
}
