package msg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	oldOutput, oldNoColor, oldVerbose := Output, color.NoColor, Verbose
	Output, color.NoColor = &buf, true
	t.Cleanup(func() {
		Output, color.NoColor, Verbose = oldOutput, oldNoColor, oldVerbose
	})
	return &buf
}

func TestLines(t *testing.T) {
	buf := captureOutput(t)

	Info("generated %s", "Makefile")
	Warn("sip exited with %d", 1)
	Error("bad")
	assert.Equal(t, "info: generated Makefile\nwarn: sip exited with 1\nerror: bad\n", buf.String())
}

func TestDebugNeedsVerbose(t *testing.T) {
	buf := captureOutput(t)

	Debug("hidden")
	assert.Empty(t, buf.String())

	Verbose = true
	Debug("shown")
	assert.Equal(t, "debug: shown\n", buf.String())
}

func TestCommand(t *testing.T) {
	buf := captureOutput(t)

	Command("sip", []string{"-c", "build", "ptlibmod.sip"})
	assert.Equal(t, "sip -c build ptlibmod.sip\n", buf.String())
}

func TestProgress(t *testing.T) {
	buf := captureOutput(t)

	p := NewProgress(12)
	p.Step("ptlib")
	p.Step("opal (%s)", "debug")
	assert.Equal(t, "[ 1/12] ptlib\n[ 2/12] opal (debug)\n", buf.String())
}

func TestIndentWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &IndentWriter{Indent: "  ", W: &buf}

	n, err := w.Write([]byte("a\nb\r\nc"))
	assert.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "  a\n  b\r  \n  c", buf.String())
}

type failingWriter struct{ writes int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("closed")
}

func TestIndentWriterWritesOncePerCall(t *testing.T) {
	fw := &failingWriter{}
	w := &IndentWriter{Indent: "    ", W: fw}

	n, err := w.Write([]byte("line one\nline two\n"))
	assert.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, fw.writes)
}
