// Package desktop hosts a game.Simulation in a window using ebiten.
package desktop

import (
	"fmt"
	"image/color"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tomz197/dodge/internal/game"
	"github.com/tomz197/dodge/internal/object"
)

// Screen and timing
const (
	ScreenWidth         = 600
	ScreenHeight        = 400
	WindowScale         = 1.5
	RestartDelaySeconds = 0.75
)

var background = color.NRGBA{R: 17, G: 17, B: 17, A: 255}

// Sound plays effects for game events. Implementations must not block.
type Sound interface {
	PowerUp(kind object.PowerUpKind)
	GameOver()
}

// Keyboard reports key state for the current tick.
type Keyboard interface {
	JustPressed(k ebiten.Key) bool
	JustReleased(k ebiten.Key) bool
	Pressed(k ebiten.Key) bool
}

// ebitenKeyboard reads ebiten's input state.
type ebitenKeyboard struct{}

func (ebitenKeyboard) JustPressed(k ebiten.Key) bool  { return inpututil.IsKeyJustPressed(k) }
func (ebitenKeyboard) JustReleased(k ebiten.Key) bool { return inpututil.IsKeyJustReleased(k) }
func (ebitenKeyboard) Pressed(k ebiten.Key) bool      { return ebiten.IsKeyPressed(k) }

// bindings lists the keys driving each direction.
var bindings = [...]struct {
	dir  game.Direction
	keys []ebiten.Key
}{
	{game.Left, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
	{game.Right, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
	{game.Up, []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}},
	{game.Down, []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}},
}

type screen int

const (
	screenStart screen = iota
	screenPlaying
	screenOver
)

// Options configures the desktop game.
type Options struct {
	Logger       *log.Logger
	Sound        Sound
	Seed         int64 // zero seeds from the clock
	SmartEnemies int
}

// Game implements ebiten.Game.
type Game struct {
	sim      *game.Simulation
	screen   screen
	keyboard Keyboard
	surface  *Surface
	rng      *rand.Rand
	roster   game.Roster
	logger   *log.Logger
	sound    Sound

	gameOver  bool
	overTime  float64
	bestScore int
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates a game on its title screen.
func NewGame(opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	roster := game.DefaultRoster(ScreenWidth, ScreenHeight)
	roster.SmartEnemies = opts.SmartEnemies

	return &Game{
		keyboard: ebitenKeyboard{},
		rng:      rand.New(rand.NewSource(seed)),
		roster:   roster,
		logger:   logger,
		sound:    opts.Sound,
	}
}

// Update advances one tick. Q or Escape quits.
func (g *Game) Update() error {
	return g.step(g.keyboard, 1/float64(ebiten.TPS()))
}

func (g *Game) step(kb Keyboard, dt float64) error {
	if kb.JustPressed(ebiten.KeyQ) || kb.JustPressed(ebiten.KeyEscape) {
		if g.sim != nil {
			g.sim.Stop()
		}
		return ebiten.Termination
	}
	confirm := kb.JustPressed(ebiten.KeySpace) || kb.JustPressed(ebiten.KeyEnter)

	switch g.screen {
	case screenStart:
		if confirm {
			g.start(kb)
		}
	case screenPlaying:
		g.feedKeys(kb)
		g.sim.Update(dt)
		if g.gameOver {
			g.screen = screenOver
			g.overTime = 0
		}
	case screenOver:
		g.overTime += dt
		if confirm && g.overTime >= RestartDelaySeconds {
			g.start(kb)
		}
	}
	return nil
}

// feedKeys turns key edges into simulation input. A direction is released
// only once none of its keys are held.
func (g *Game) feedKeys(kb Keyboard) {
	for _, b := range bindings {
		pressed, released, held := false, false, false
		for _, k := range b.keys {
			pressed = pressed || kb.JustPressed(k)
			released = released || kb.JustReleased(k)
			held = held || kb.Pressed(k)
		}
		switch {
		case pressed:
			g.sim.KeyDown(b.dir)
		case released && !held:
			g.sim.KeyUp(b.dir)
		}
	}
}

func (g *Game) start(kb Keyboard) {
	g.gameOver = false
	g.sim = game.New(ScreenWidth, ScreenHeight, g.onGameOver, g.onScore,
		game.WithRand(g.rng),
		game.WithLogger(g.logger),
		game.WithRoster(g.roster),
		game.WithPickupHook(g.onPowerUp),
	)

	// Keys already held carry into the new game
	for _, b := range bindings {
		for _, k := range b.keys {
			if kb.Pressed(k) {
				g.sim.KeyDown(b.dir)
			}
		}
	}
	g.screen = screenPlaying
}

func (g *Game) onGameOver() {
	g.gameOver = true
	if g.sound != nil {
		g.sound.GameOver()
	}
}

func (g *Game) onScore(score int) {
	g.bestScore = max(g.bestScore, score)
}

func (g *Game) onPowerUp(kind object.PowerUpKind) {
	if g.sound != nil {
		g.sound.PowerUp(kind)
	}
}

// Draw renders the simulation and text overlays.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.surface == nil {
		g.surface = NewSurface(screen, background)
	}
	g.surface.SetImage(screen)

	if g.sim == nil {
		g.surface.ClearRect(0, 0, ScreenWidth, ScreenHeight)
	} else {
		g.sim.Draw(g.surface)
	}

	for i, line := range g.overlay() {
		ebitenutil.DebugPrintAt(screen, line, 8, 6+i*16)
	}
}

// overlay returns the text lines for the current screen.
func (g *Game) overlay() []string {
	switch g.screen {
	case screenStart:
		return []string{
			"DODGE",
			"Arrows / WASD to move, Q to quit",
			"Gold: speed x2   Lime: +1 score   Magenta: shield",
			"Press SPACE to start",
		}
	case screenOver:
		lines := []string{
			fmt.Sprintf("GAME OVER  Score: %d  Survived: %.1fs", g.sim.Score(), g.sim.Elapsed()),
			fmt.Sprintf("Best: %d", g.bestScore),
		}
		if g.overTime >= RestartDelaySeconds {
			lines = append(lines, "Press SPACE to restart")
		}
		return lines
	}

	p := g.sim.Player()
	hud := fmt.Sprintf("Score: %d  Time: %.1fs", g.sim.Score(), g.sim.Elapsed())
	if n := p.ActiveSpeedBoosts(); n > 0 {
		hud += fmt.Sprintf("  Speed x%d", 1<<min(n, 30))
	}
	if r := p.InvincibleRemaining(g.sim.Elapsed()); r > 0 {
		hud += fmt.Sprintf("  Shield %.1fs", r)
	}
	return []string{hud}
}

// Layout keeps a fixed logical screen; ebiten scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}
