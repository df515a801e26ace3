// Package audio plays synthesized sound effects for game events through gopxl/beep.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/tomz197/dodge/internal/object"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// SoundManager plays one-shot effects on the speaker, which mixes overlapping sounds.
// Every method is safe to call before Initialize or after Cleanup; they do nothing then.
type SoundManager struct {
	mu          sync.Mutex
	initialized bool
	crashSeed   int64
}

// NewSoundManager creates a sound manager. Call Initialize to open the audio device.
func NewSoundManager() *SoundManager {
	return &SoundManager{
		crashSeed: time.Now().UnixNano(),
	}
}

// Initialize opens the speaker.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	sm.initialized = true
	return nil
}

// Cleanup silences everything and stops accepting new sounds.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Clear()
	sm.initialized = false
}

// PowerUp plays the pickup sound for kind.
func (sm *SoundManager) PowerUp(kind object.PowerUpKind) {
	sm.play(powerUpStreamer(kind))
}

// GameOver plays the crash sound.
func (sm *SoundManager) GameOver() {
	sm.mu.Lock()
	sm.crashSeed++
	seed := sm.crashSeed
	sm.mu.Unlock()

	sm.play(gameOverStreamer(seed))
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Play(s)
}

// powerUpStreamer builds a short chime per power-up kind.
func powerUpStreamer(kind object.PowerUpKind) beep.Streamer {
	switch kind {
	case object.PowerUpScore:
		// Two-note ding
		return beep.Seq(
			NewToneGenerator(sampleRate, 988, 988, 60*time.Millisecond, 6, 0.25),
			NewToneGenerator(sampleRate, 1319, 1319, 180*time.Millisecond, 10, 0.25),
		)
	case object.PowerUpSpeed:
		// Rising whoosh
		return NewToneGenerator(sampleRate, 300, 1200, 250*time.Millisecond, 4, 0.2)
	case object.PowerUpInvincible:
		// Major arpeggio
		return beep.Seq(
			NewToneGenerator(sampleRate, 523, 523, 70*time.Millisecond, 4, 0.2),
			NewToneGenerator(sampleRate, 659, 659, 70*time.Millisecond, 4, 0.2),
			NewToneGenerator(sampleRate, 784, 784, 200*time.Millisecond, 8, 0.2),
		)
	default:
		return NewToneGenerator(sampleRate, 660, 660, 80*time.Millisecond, 10, 0.2)
	}
}

// gameOverStreamer is a falling tone over a noise crash.
func gameOverStreamer(seed int64) beep.Streamer {
	return beep.Mix(
		NewToneGenerator(sampleRate, 440, 80, 700*time.Millisecond, 3, 0.25),
		beep.Take(sampleRate.N(time.Millisecond*500), NewCrashGenerator(sampleRate, seed)),
	)
}
