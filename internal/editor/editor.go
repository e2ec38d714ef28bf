// Package editor launches the configured editor on a journal file.
package editor

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNoEditor indicates an empty editor command.
var ErrNoEditor = errors.New("no editor command")

// Streams are the standard streams the editor is attached to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Command builds the process that opens path with editorCmd. The command
// may carry arguments, as in "code --wait"; path is appended last.
func Command(editorCmd, path string) (*exec.Cmd, error) {
	fields := strings.Fields(editorCmd)
	if len(fields) == 0 {
		return nil, ErrNoEditor
	}
	args := append(fields[1:len(fields):len(fields)], path)
	return exec.Command(fields[0], args...), nil
}

// Open runs editorCmd on path and waits for it to exit.
func Open(editorCmd, path string, streams Streams) error {
	cmd, err := Command(editorCmd, path)
	if err != nil {
		return err
	}
	cmd.Stdin = streams.In
	cmd.Stdout = streams.Out
	cmd.Stderr = streams.Err

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %q", editorCmd)
	}
	return nil
}

// FromEnv returns the editor named by $EDITOR, then $VISUAL.
func FromEnv() (string, bool) {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor, true
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual, true
	}
	return "", false
}
