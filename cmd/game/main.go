package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/tomz197/dodge/internal/audio"
	"github.com/tomz197/dodge/internal/config"
	"github.com/tomz197/dodge/internal/loop"
	"golang.org/x/term"
)

func main() {
	// The screen is in raw mode, so logs go to a file or nowhere
	logOut := io.Discard
	if path := config.GetEnv("DODGE_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, config.GetEnv("DODGE_LOG_LEVEL", "info"))

	opts := loop.Options{
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

	if err := run(opts, logger); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts loop.Options, logger *log.Logger) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	// Ctrl-C arrives as a key press in raw mode; signals cover kill and hangup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	logger.Info("starting local game")
	return loop.Run(ctx, os.Stdin, os.Stdout, opts)
}
