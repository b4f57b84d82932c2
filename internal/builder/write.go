package builder

import (
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/pyvoip/configure/internal/errors"
	"github.com/pyvoip/configure/internal/msg"
)

// writeScript writes content to path and reports whether the file changed.
// Rewriting an existing script logs how many lines changed, and with
// --verbose the patch itself.
func writeScript(path, content string) (bool, error) {
	old, err := os.ReadFile(path)
	if err != nil && !errors.IsError(err, os.ErrNotExist) {
		return false, errors.WithStackTrace(ScriptWriteError{Path: path, Err: err})
	}
	existed := err == nil

	if existed && string(old) == content {
		msg.Debug("%s is up to date", path)
		return false, nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, errors.WithStackTrace(ScriptWriteError{Path: path, Err: err})
	}

	if existed {
		added, removed, patch := lineDiff(string(old), content)
		msg.Info("updated %s (+%d -%d lines)", path, added, removed)
		if msg.Verbose {
			w := &msg.IndentWriter{Indent: "    ", W: msg.Output}
			w.Write([]byte(patch))
		}
	} else {
		msg.Debug("wrote %s", path)
	}
	return true, nil
}

// lineDiff diffs two texts line by line and returns the number of added and
// removed lines and the unified patch text.
func lineDiff(before, after string) (added, removed int, patch string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += n
		case diffmatchpatch.DiffDelete:
			removed += n
		}
	}

	return added, removed, dmp.PatchToText(dmp.PatchMake(before, diffs))
}
