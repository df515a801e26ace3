package loop

import (
	"github.com/tomz197/dodge/internal/game"
	"github.com/tomz197/dodge/internal/input"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
)

// GameState represents the current screen of a session.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateOver                      // Frozen final frame with restart prompt
	GameStateShutdown                  // Server is shutting down
)

// State holds per-session state across games.
type State struct {
	Input     input.Input
	GameState GameState
	Running   bool // Session loop running
	Games     int  // Games started this session
	BestScore int

	prevInput     input.Input
	prevGameState GameState
	layout        layout
	repaint       bool    // Clear the terminal and repaint everything next frame
	gameOver      bool    // Set by the simulation's game over callback
	overTime      float64 // Seconds since game over
	idleTime      float64 // Seconds since the last key press
	isInactive    bool
	wasInactive   bool
	shutdownTimer float64
}

// NewState creates a session state on the title screen.
func NewState(l layout) *State {
	return &State{
		GameState: GameStateStart,
		Running:   true,
		layout:    l,
		repaint:   true,
	}
}

// directions maps terminal keys to simulation directions.
var directions = [input.NumKeys]game.Direction{
	input.Left:  game.Left,
	input.Right: game.Right,
	input.Up:    game.Up,
	input.Down:  game.Down,
}

// Step applies one frame of input and advances the current screen by dt seconds.
func (s *Session) Step(in input.Input, dt float64) {
	st := s.state
	st.prevInput, st.Input = st.Input, in

	s.trackActivity(dt)
	if in.Quit {
		st.Running = false
		return
	}

	switch st.GameState {
	case GameStateStart:
		if in.Confirm {
			s.startGame()
		}
	case GameStatePlaying:
		s.updatePlaying(dt)
	case GameStateOver:
		st.overTime += dt
		if in.Confirm && st.overTime >= config.RestartDelaySeconds {
			s.startGame()
		}
	case GameStateShutdown:
		st.shutdownTimer -= dt
		if st.shutdownTimer <= 0 {
			st.Running = false
		}
	}
}

// trackActivity warns and then disconnects players who stop pressing keys.
func (s *Session) trackActivity(dt float64) {
	st := s.state
	if len(st.Input.Pressed) > 0 {
		st.idleTime = 0
		st.isInactive = false
		return
	}
	if st.GameState == GameStateShutdown {
		return
	}

	st.idleTime += dt
	switch {
	case st.idleTime > config.InactivityDisconnectUser:
		s.logger.Info("disconnecting idle player", "idle", st.idleTime)
		st.Running = false
	case st.idleTime > config.InactivityWarnUser:
		st.isInactive = true
	}
}

// updatePlaying feeds key transitions to the simulation and advances it.
func (s *Session) updatePlaying(dt float64) {
	st := s.state
	for _, e := range input.Edges(st.prevInput, st.Input) {
		if e.Down {
			s.sim.KeyDown(directions[e.Key])
		} else {
			s.sim.KeyUp(directions[e.Key])
		}
	}

	s.sim.Update(dt)

	if st.gameOver {
		st.GameState = GameStateOver
		st.overTime = 0
	}
}

// startGame replaces the simulation with a fresh one.
func (s *Session) startGame() {
	st := s.state
	st.gameOver = false

	s.sim = game.New(config.LogicalWidth, config.LogicalHeight, s.onGameOver, s.onScore,
		game.WithRand(s.rng),
		game.WithLogger(s.logger),
		game.WithRoster(s.roster),
		game.WithPickupHook(s.onPowerUp),
	)

	// Keys already held carry into the new game
	for k, held := range st.Input.Held {
		if held {
			s.sim.KeyDown(directions[k])
		}
	}

	st.Games++
	st.GameState = GameStatePlaying
	s.logger.Debug("game started", "game", st.Games)
}

func (s *Session) onGameOver() {
	s.state.gameOver = true
	if s.sound != nil {
		s.sound.GameOver()
	}
}

func (s *Session) onScore(score int) {
	s.state.BestScore = max(s.state.BestScore, score)
}

func (s *Session) onPowerUp(kind object.PowerUpKind) {
	if s.sound != nil {
		s.sound.PowerUp(kind)
	}
}
