package draw

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ChunkWriter batches a frame's text so it reaches the terminal in a few
// MTU-sized writes. Positions passed to WriteAt are relative to the canvas.
type ChunkWriter struct {
	buf    strings.Builder
	out    *bufio.Writer
	offCol int
	offRow int
}

// NewChunkWriter returns a ChunkWriter for w with the canvas offset.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset moves the origin used by WriteAt.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// Write lets Canvas.Render target the batch.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.buf.Write(p)
}

// WriteString appends raw output such as escape sequences.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt places s at 1-based canvas column col and row.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	appendCursor(&cw.buf, col+cw.offCol, row+cw.offRow)
	cw.buf.WriteString(s)
}

// Flush sends the batch and empties it.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	if err := writeChunked(cw.out, data); err != nil {
		return err
	}
	return cw.out.Flush()
}

// maxChunkSize keeps each write under a typical MTU for smooth SSH transmission.
const maxChunkSize = 1400

func writeChunked(w io.Writer, data string) error {
	for len(data) > 0 {
		chunk := data[:min(len(data), maxChunkSize)]
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// appendCursor appends the escape that moves the cursor to 1-based terminal col, row.
func appendCursor(buf *strings.Builder, col, row int) {
	var num [20]byte
	buf.WriteString("\033[")
	buf.Write(strconv.AppendInt(num[:0], int64(row), 10))
	buf.WriteByte(';')
	buf.Write(strconv.AppendInt(num[:0], int64(col), 10))
	buf.WriteByte('H')
}

// Half-block glyphs used by Canvas.Render.
const (
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

const ansiReset = "\033[0m"

// Style wraps s in a 24-bit foreground color, resetting afterwards.
func Style(s string, c color.NRGBA) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm%s%s", c.R, c.G, c.B, s, ansiReset)
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// ResetStyle clears colors and attributes.
func ResetStyle(w io.Writer) {
	fmt.Fprint(w, ansiReset)
}
