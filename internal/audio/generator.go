package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// attack is the fade-in applied to every tone to avoid clicks.
const attack = 5 * time.Millisecond

// ToneGenerator plays a sine tone that glides from one frequency to another
// over a fixed duration with an exponential decay envelope. It ends by itself.
type ToneGenerator struct {
	sr       beep.SampleRate
	from, to float64 // Hz
	decay    float64 // envelope decay rate per second
	amp      float64
	pos      int
	samples  int
	attackN  int
	phase    float64
}

// NewToneGenerator creates a tone lasting d.
func NewToneGenerator(sr beep.SampleRate, from, to float64, d time.Duration, decay, amp float64) *ToneGenerator {
	return &ToneGenerator{
		sr:      sr,
		from:    from,
		to:      to,
		decay:   decay,
		amp:     amp,
		samples: sr.N(d),
		attackN: max(sr.N(attack), 1),
	}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.samples {
			return i, i > 0
		}
		progress := float64(g.pos) / float64(g.samples)
		freq := g.from + (g.to-g.from)*progress

		// Phase accumulation keeps the waveform continuous while the pitch moves
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}

		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t*g.decay) * math.Min(float64(g.pos)/float64(g.attackN), 1)
		sample := g.amp * envelope * math.Sin(g.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// CrashGenerator generates a rumbling noise burst. It never ends on its own;
// wrap it in beep.Take.
type CrashGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
	last float64
}

// NewCrashGenerator creates a crash generator. A fixed seed gives a fixed waveform.
func NewCrashGenerator(sr beep.SampleRate, seed int64) *CrashGenerator {
	return &CrashGenerator{sr: sr, seed: seed}
}

func (g *CrashGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Quick attack, slower decay
		envelope := math.Exp(-t * 5)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		// One-pole low-pass for a duller crunch
		g.last += 0.3 * (noise - g.last)

		rumble := 0.3 * math.Sin(2*math.Pi*70*t)
		sample := envelope * (0.3*g.last + rumble)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *CrashGenerator) Err() error {
	return nil
}
