package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestCopyWritesOSC52(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")

	var buf bytes.Buffer
	if err := New(&buf).Copy("Disease: Leaf Blight"); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\x1b]52;c;") {
		t.Errorf("Expected OSC 52 prefix, got %q", out)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte("Disease: Leaf Blight"))
	if !strings.Contains(out, encoded) {
		t.Errorf("Expected base64 payload %s in %q", encoded, out)
	}
}

func TestCopyWrapsForTmux(t *testing.T) {
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1,0")

	var buf bytes.Buffer
	if err := New(&buf).Copy("x"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\x1bPtmux;") {
		t.Errorf("Expected tmux passthrough, got %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestCopyReportsWriteFailure(t *testing.T) {
	if err := New(failingWriter{}).Copy("x"); err == nil {
		t.Error("Expected error from failing writer")
	}
}
