// Package input turns a raw terminal byte stream into held-key state.
//
// Terminals only report key presses (repeated while a key is held), never
// releases, so a key counts as held for a short window after each press.
// Edges derives the key-down/key-up transitions a simulation expects.
package input

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// Hold windows. The first press has to bridge the terminal's auto-repeat delay;
// once repeats arrive they come every ~30ms and a short window suffices.
const (
	initialHoldDuration = 500 * time.Millisecond
	repeatHoldDuration  = 120 * time.Millisecond
)

// Key is a movement key.
type Key int

const (
	Left Key = iota
	Right
	Up
	Down
	NumKeys
)

func (k Key) String() string {
	switch k {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Input represents the current frame's input state.
type Input struct {
	Held    [NumKeys]bool
	Quit    bool // q, Ctrl-C, or the stream closed
	Confirm bool // Enter or Space pressed this frame
	Pressed []byte
}

// Edge is a change in a key's held state between two frames.
type Edge struct {
	Key  Key
	Down bool
}

// Edges returns the transitions from prev to cur, releases first.
func Edges(prev, cur Input) []Edge {
	var edges []Edge
	for k := Key(0); k < NumKeys; k++ {
		if prev.Held[k] && !cur.Held[k] {
			edges = append(edges, Edge{Key: k})
		}
	}
	for k := Key(0); k < NumKeys; k++ {
		if !prev.Held[k] && cur.Held[k] {
			edges = append(edges, Edge{Key: k, Down: true})
		}
	}
	return edges
}

// keyState tracks when a key was last seen and whether it is auto-repeating.
type keyState struct {
	last      time.Time
	repeating bool
}

func (ks *keyState) press(now time.Time) {
	ks.repeating = !ks.last.IsZero() && now.Sub(ks.last) < initialHoldDuration
	ks.last = now
}

func (ks *keyState) held(now time.Time) bool {
	if ks.last.IsZero() {
		return false
	}
	hold := initialHoldDuration
	if ks.repeating {
		hold = repeatHoldDuration
	}
	return now.Sub(ks.last) < hold
}

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch       chan byte
	done     chan struct{}
	stopOnce sync.Once
	keys     [NumKeys]keyState
	closed   bool
	pending  []byte // escape sequence prefix split across reads
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r returns an error (EOF when an SSH session ends)
// or, at its next byte, once Close is called.
func StartStream(r io.Reader) *Stream {
	s := newStream()
	br := bufio.NewReader(r)
	go func() {
		defer close(s.ch)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128), done: make(chan struct{})}
}

// Close stops delivering bytes. Safe to call more than once.
func (s *Stream) Close() {
	s.stopOnce.Do(func() { close(s.done) })
}

// ReadInput drains all available bytes from the stream (non-blocking)
// and reports which keys are held right now.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	return s.apply(buf, time.Now())
}

// apply parses buf as pressed at now and builds the frame's Input.
// An escape sequence cut off at the end of buf is kept for the next call.
func (s *Stream) apply(buf []byte, now time.Time) Input {
	if len(s.pending) > 0 {
		buf = append(s.pending, buf...)
		s.pending = nil
	}
	in := Input{Quit: s.closed, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && !s.closed && isEscapePrefix(buf[i:]) {
			s.pending = append([]byte(nil), buf[i:]...)
			break
		}

		// CSI (ESC [) and SS3 (ESC O) arrow sequences
		if b == '\x1b' && i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			if k, ok := arrowKey(buf[i+2]); ok {
				s.keys[k].press(now)
				i += 2
				continue
			}
		}

		switch b {
		case 'q', 'Q', '\x03':
			in.Quit = true
		case '\n', '\r', ' ':
			in.Confirm = true
		case 'a', 'A', 'h', 'H':
			s.keys[Left].press(now)
		case 'd', 'D', 'l', 'L':
			s.keys[Right].press(now)
		case 'w', 'W', 'k', 'K':
			s.keys[Up].press(now)
		case 's', 'S', 'j', 'J':
			s.keys[Down].press(now)
		}
	}

	for k := range s.keys {
		in.Held[k] = s.keys[k].held(now)
	}
	return in
}

// isEscapePrefix reports whether rest is ESC, ESC [ or ESC O with nothing after.
func isEscapePrefix(rest []byte) bool {
	switch len(rest) {
	case 1:
		return true
	case 2:
		return rest[1] == '[' || rest[1] == 'O'
	}
	return false
}

func arrowKey(b byte) (Key, bool) {
	switch b {
	case 'A':
		return Up, true
	case 'B':
		return Down, true
	case 'C':
		return Right, true
	case 'D':
		return Left, true
	}
	return 0, false
}
