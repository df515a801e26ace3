// Package config centralizes the terminal host's tunable parameters.
package config

import "time"

// Logical canvas - the coordinate space the simulation runs in.
// Rendering scales it to fit the terminal, keeping the 3:2 aspect.
const (
	LogicalWidth  = 600
	LogicalHeight = 400
)

// Render area limits. Half-block pixels are roughly square, so a 3:2 canvas
// needs three columns for every row.
const (
	MaxTermWidth  = 180
	MaxTermHeight = 60
	AspectCols    = 3 // columns per row of canvas
	HUDRows       = 1 // rows reserved above the canvas
)

// Frame pacing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
	MaxFrameDelta   = 0.1 // seconds; longer stalls are simulated as this much
)

// Game over
const (
	RestartDelaySeconds = 0.75 // input is ignored this long after game over
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)
