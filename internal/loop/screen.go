package loop

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
)

// drawFrame draws the current frame.
func (s *Session) drawFrame() error {
	st := s.state
	cw := s.chunkWriter

	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	if st.GameState != st.prevGameState || st.isInactive != st.wasInactive {
		st.repaint = true
		st.prevGameState = st.GameState
		st.wasInactive = st.isInactive
	}

	if !st.layout.fits() {
		if st.repaint {
			cw.WriteString("\033[H\033[2J\033[1;1H")
			cw.WriteString("Terminal too small. Enlarge it or press Q to quit.")
			st.repaint = false
		}
		return cw.Flush()
	}

	if st.repaint {
		cw.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
		if err := s.canvas.RenderBorder(cw); err != nil {
			return err
		}
		st.repaint = false
	}

	if s.sim != nil && (st.GameState == GameStatePlaying || st.GameState == GameStateOver) {
		s.sim.Draw(s.canvas)
	} else {
		s.canvas.Clear()
	}

	// Render canvas to terminal
	if err := s.canvas.Render(cw); err != nil {
		return err
	}

	s.drawUI()
	return cw.Flush()
}

// drawUI draws the HUD row and any screen overlay.
func (s *Session) drawUI() {
	st := s.state
	centerY := s.canvas.TerminalHeight() / 2

	if st.GameState == GameStatePlaying || st.GameState == GameStateOver {
		s.drawHUD()
	}

	if st.GameState == GameStateShutdown {
		s.drawShutdownScreen(centerY)
		return
	}
	if st.isInactive {
		s.drawInactivityScreen(centerY)
		return
	}

	switch st.GameState {
	case GameStateStart:
		s.drawStartScreen(centerY)
	case GameStateOver:
		s.drawGameOverScreen(centerY)
	}
}

// drawHUD writes score, time and active buffs on the row above the canvas.
// Fields are fixed width so shrinking values leave no residual characters.
func (s *Session) drawHUD() {
	cw := s.chunkWriter
	width := s.canvas.TerminalWidth()

	left := fmt.Sprintf(" Score: %-5d Time: %6.1fs ", s.sim.Score(), s.sim.Elapsed())
	if len(left)+2 <= width {
		cw.WriteAt(2, 0, left)
	}

	p := s.sim.Player()
	buffs := ""
	if n := p.ActiveSpeedBoosts(); n > 0 {
		buffs += draw.Style(fmt.Sprintf(" Speed x%-2d", 1<<min(n, 30)), object.ColorSpeed)
	} else {
		buffs += "          "
	}
	if r := p.InvincibleRemaining(s.sim.Elapsed()); r > 0 {
		buffs += draw.Style(fmt.Sprintf(" Shield %4.1fs ", r), object.ColorInvincible)
	} else {
		buffs += "              "
	}
	const buffsWidth = 24
	if len(left)+buffsWidth+4 <= width {
		cw.WriteAt(width-buffsWidth-1, 0, buffs)
	}
}

// titleArt is "DODGE" in figlet's small font.
var titleArt = []string{
	`  ___   ___  ___   ___ ___ `,
	` |   \ / _ \|   \ / __| __|`,
	` | |) | (_) | |) | (_ | _| `,
	` |___/ \___/|___/ \___|___|`,
	`                           `,
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	`                                              `,
}

// drawStartScreen draws the title screen.
func (s *Session) drawStartScreen(centerY int) {
	row := centerY - 8
	for _, line := range titleArt {
		s.writeCentered(row, line)
		row++
	}

	s.writeCentered(row+1, "~ Dodge the squares, grab the circles ~")
	row += 3

	s.writeCentered(row, "Controls")
	for i, line := range []string{
		"Arrows / WASD . . . Move",
		"Q . . . . . . . . . Quit",
	} {
		s.writeCentered(row+1+i, line)
	}
	row += 4

	s.writeCenteredStyled(row, draw.Style("●", object.ColorScore)+" Score +1      ", 15)
	s.writeCenteredStyled(row+1, draw.Style("●", object.ColorSpeed)+" Speed x2 (5s) ", 15)
	s.writeCenteredStyled(row+2, draw.Style("●", object.ColorInvincible)+" Shield (5s)   ", 15)
	row += 4

	// Blinking start prompt
	if blinkOn() {
		s.writeCentered(row, ">>  Press SPACE to Start  <<")
	}
}

// drawGameOverScreen draws the final score over the frozen last frame.
func (s *Session) drawGameOverScreen(centerY int) {
	st := s.state
	row := centerY - 6
	for _, line := range gameOverArt {
		s.writeCentered(row, line)
		row++
	}

	s.writeCentered(row+1, fmt.Sprintf("Score: %d   Survived: %.1fs", s.sim.Score(), s.sim.Elapsed()))
	s.writeCentered(row+2, fmt.Sprintf("Best this session: %d", st.BestScore))

	if st.overTime >= config.RestartDelaySeconds && blinkOn() {
		s.writeCentered(row+4, ">>  Press SPACE to Restart  <<")
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (s *Session) drawInactivityScreen(centerY int) {
	s.writeCentered(centerY-2, "INACTIVITY WARNING")
	s.writeCentered(centerY, fmt.Sprintf(
		"Disconnecting in %d seconds.",
		int(config.InactivityDisconnectUser-s.state.idleTime)+1,
	))
	s.writeCentered(centerY+2, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (s *Session) drawShutdownScreen(centerY int) {
	s.writeCentered(centerY-3, "SERVER SHUTTING DOWN")
	s.writeCentered(centerY-1, "Please reconnect in a moment.")
	s.writeCentered(centerY+1, fmt.Sprintf("Disconnecting in %d seconds...", int(s.state.shutdownTimer)+1))
	s.writeCentered(centerY+3, "Press Q to disconnect now")
}

func blinkOn() bool {
	return time.Now().UnixMilli()/600%2 == 0
}

// writeCentered writes plain text centered on a canvas row.
func (s *Session) writeCentered(row int, text string) {
	s.writeCenteredStyled(row, text, utf8.RuneCountInString(text))
}

// writeCenteredStyled writes text whose visible width differs from its byte length.
// Lines that do not fit the canvas are skipped. Covered cells are marked dirty
// so the canvas paints over them once the text goes away.
func (s *Session) writeCenteredStyled(row int, text string, width int) {
	termWidth := s.canvas.TerminalWidth()
	if row < 1 || row > s.canvas.TerminalHeight() || width > termWidth {
		return
	}
	col := (termWidth-width)/2 + 1
	s.chunkWriter.WriteAt(col, row, text)
	s.canvas.MarkTextDirty(col, row, width)
}
