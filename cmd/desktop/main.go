package main

import (
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tomz197/dodge/internal/audio"
	"github.com/tomz197/dodge/internal/config"
	"github.com/tomz197/dodge/internal/desktop"
)

func main() {
	logger := config.NewLogger(os.Stderr, config.GetEnv("DODGE_LOG_LEVEL", "info"))

	opts := desktop.Options{
		Logger:       logger,
		Seed:         int64(config.GetEnvInt("DODGE_SEED", 0)),
		SmartEnemies: config.GetEnvInt("DODGE_SMART_ENEMIES", 0),
	}
	if config.GetEnvBool("DODGE_AUDIO", true) {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer sm.Cleanup()
			opts.Sound = sm
		}
	}

	ebiten.SetWindowSize(int(desktop.ScreenWidth*desktop.WindowScale), int(desktop.ScreenHeight*desktop.WindowScale))
	ebiten.SetWindowTitle("Dodge")
	ebiten.SetWindowResizable(true)

	if err := ebiten.RunGame(desktop.NewGame(opts)); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game error", "err", err)
		os.Exit(1)
	}
}
