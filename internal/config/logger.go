package config

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds a timestamped logger writing to w. level is one of
// debug, info, warn, error or fatal; anything else falls back to info.
func NewLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}
