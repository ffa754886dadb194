package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
)

func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := Out
	Out = buf
	t.Cleanup(func() { Out = prev })
	return buf
}

func TestHandleAppError(t *testing.T) {
	t.Run("prints type, details and suggestion", func(t *testing.T) {
		// Arrange
		out := captureOut(t)
		err := domainErrors.ErrGetRemoteBranches.
			WithError(errors.New("exit status 128")).
			WithContext("stderr", "fatal: not a git repository")

		// Act
		HandleAppError(err)

		// Assert
		s := out.String()
		assert.Contains(t, s, "GIT: Failed to list remote branches")
		assert.Contains(t, s, "exit status 128")
		assert.Contains(t, s, "fatal: not a git repository")
		assert.Contains(t, s, "git remote -v")
	})

	t.Run("plain error", func(t *testing.T) {
		out := captureOut(t)

		HandleAppError(errors.New("boom"))

		assert.Contains(t, out.String(), "boom")
	})

	t.Run("nil error prints nothing", func(t *testing.T) {
		out := captureOut(t)

		HandleAppError(nil)

		assert.Empty(t, out.String())
	})
}

func TestPrintOwnersTree(t *testing.T) {
	var buf bytes.Buffer

	PrintOwnersTree(&buf, []FileOwners{
		{Path: "src/main.go", Owners: []string{"alice"}},
		{Path: "README.md"},
		{Path: "src/pkg/util.go", Owners: []string{"bob", "carol"}},
	}, "Changed files")

	s := buf.String()
	assert.Contains(t, s, "Changed files")
	assert.Contains(t, s, "main.go")
	assert.Contains(t, s, "alice")
	assert.Contains(t, s, "bob, carol")
	assert.Contains(t, s, "(no owner)")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("src/")), bytes.Index(buf.Bytes(), []byte("README.md")),
		"directories are listed before files")
}

func TestRenderPanel(t *testing.T) {
	out := RenderPanel("Preview", []PanelField{
		{Label: "Source", Value: "feature/x"},
		{Label: "Targets", Value: "develop, release/1.0.0"},
	}, "## Tickets\nNone")

	assert.Contains(t, out, "Preview")
	assert.Contains(t, out, "feature/x")
	assert.Contains(t, out, "release/1.0.0")
	assert.Contains(t, out, "## Tickets")
}
