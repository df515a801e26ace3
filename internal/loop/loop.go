// Package loop hosts a game.Simulation in a terminal: it runs the frame loop,
// maps key presses to simulation input and draws the canvas with a HUD and
// the start, game over and notice screens.
package loop

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/game"
	"github.com/tomz197/dodge/internal/input"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
)

// Sound plays effects for game events. Implementations must not block.
type Sound interface {
	PowerUp(kind object.PowerUpKind)
	GameOver()
}

// Options configures a terminal session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
	Sound        Sound

	// Seed fixes the simulation's randomness. Zero seeds from the clock.
	Seed int64
	// SmartEnemies adds that many chasing enemies to the default roster.
	SmartEnemies int
	// Roster replaces the default roster entirely when set.
	Roster *game.Roster

	// Shutdown, when closed, shows a shutdown notice and ends the session.
	Shutdown <-chan struct{}
}

// Session runs one player's game in a terminal.
type Session struct {
	state *State

	sim    *game.Simulation
	rng    *rand.Rand
	roster game.Roster

	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates text and canvas output for chunked writes
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	shutdown     <-chan struct{}

	logger *log.Logger
	sound  Sound
}

// Run plays sessions until the player quits, the reader closes, the player
// goes idle or ctx is cancelled. Blocks for the whole session.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts Options) error {
	s := NewSession(w, opts)
	s.inputStream = input.StartStream(r)
	defer s.inputStream.Close()
	return s.run(ctx)
}

// NewSession prepares a session writing to w. It does not read input until run.
func NewSession(w io.Writer, opts Options) *Session {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	roster := game.DefaultRoster(config.LogicalWidth, config.LogicalHeight)
	if opts.Roster != nil {
		roster = *opts.Roster
	}
	roster.SmartEnemies += opts.SmartEnemies

	termWidth, termHeight, _ := termSizeFunc()
	layout := fitCanvas(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(max(layout.width, 1), max(layout.height, 1), config.LogicalWidth, config.LogicalHeight)
	canvas.SetOffset(layout.offsetCol, layout.offsetRow)

	return &Session{
		state:        NewState(layout),
		rng:          rand.New(rand.NewSource(seed)),
		roster:       roster,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, layout.offsetCol, layout.offsetRow),
		writer:       w,
		termSizeFunc: termSizeFunc,
		shutdown:     opts.Shutdown,
		logger:       logger,
		sound:        opts.Sound,
	}
}

func (s *Session) run(ctx context.Context) error {
	draw.HideCursor(s.writer)
	defer draw.ShowCursor(s.writer)
	defer draw.ResetStyle(s.writer)
	draw.ClearScreen(s.writer)

	lastTime := time.Now()

	for s.state.Running {
		select {
		case <-ctx.Done():
			s.stop("context done")
			return nil
		default:
		}

		frameStart := time.Now()
		dt := min(frameStart.Sub(lastTime).Seconds(), config.MaxFrameDelta)
		lastTime = frameStart

		s.checkShutdown()
		s.updateScreen()
		s.Step(input.ReadInput(s.inputStream), dt)

		if err := s.drawFrame(); err != nil {
			s.stop("write failed")
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}

	s.stop("quit")
	draw.ClearScreen(s.writer)
	return nil
}

// stop tears down the running simulation, if any.
func (s *Session) stop(reason string) {
	if s.sim != nil && s.sim.Running() {
		s.sim.Stop()
		s.logger.Info("session ended mid-game", "reason", reason, "score", s.sim.Score())
	}
}

// checkShutdown switches to the shutdown notice once the shutdown channel closes.
func (s *Session) checkShutdown() {
	if s.shutdown == nil || s.state.GameState == GameStateShutdown {
		return
	}
	select {
	case <-s.shutdown:
		s.stop("server shutdown")
		s.state.GameState = GameStateShutdown
		s.state.shutdownTimer = config.ShutdownDisplaySeconds
	default:
	}
}

// updateScreen handles terminal resize. On actual size changes it clears the
// terminal so nothing from the old layout lingers outside the new canvas.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	layout := fitCanvas(termWidth, termHeight)
	if layout == s.state.layout {
		return
	}
	s.state.layout = layout
	s.state.repaint = true
	if !layout.fits() {
		return
	}
	s.canvas.Resize(layout.width, layout.height)
	s.canvas.SetOffset(layout.offsetCol, layout.offsetRow)
	s.chunkWriter.SetOffset(layout.offsetCol, layout.offsetRow)
}

// layout is where the canvas sits in the terminal.
type layout struct {
	width, height        int // canvas size in cells
	offsetCol, offsetRow int // cells skipped before the canvas
}

func (l layout) fits() bool {
	return l.width > 0 && l.height > 0
}

// fitCanvas picks the largest 3:2 render area that fits below the HUD row,
// capped at the max render resolution, and centers it.
func fitCanvas(termWidth, termHeight int) layout {
	rows := min(termHeight-config.HUDRows, config.MaxTermHeight)
	cols := min(termWidth, config.MaxTermWidth)

	height := min(rows, cols/config.AspectCols)
	if height <= 0 {
		return layout{}
	}
	width := height * config.AspectCols

	return layout{
		width:     width,
		height:    height,
		offsetCol: (termWidth - width) / 2,
		offsetRow: config.HUDRows + (termHeight-config.HUDRows-height)/2,
	}
}
