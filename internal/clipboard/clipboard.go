// Package clipboard copies text to the system clipboard through the
// terminal using OSC 52, which also works over SSH.
package clipboard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
)

// Writer sends OSC 52 sequences to a terminal
type Writer struct {
	out io.Writer
}

// New creates a clipboard writer targeting out. A nil out means stderr.
func New(out io.Writer) *Writer {
	if out == nil {
		out = os.Stderr
	}
	return &Writer{out: out}
}

// Copy places text on the clipboard. Inside tmux or screen the sequence is
// wrapped so the multiplexer passes it through.
func (w *Writer) Copy(text string) error {
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(os.Getenv("TERM"), "screen"):
		seq = seq.Screen()
	}

	if _, err := seq.WriteTo(w.out); err != nil {
		return fmt.Errorf("failed to write clipboard sequence: %w", err)
	}
	return nil
}
