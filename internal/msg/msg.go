package msg

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// Output receives every diagnostic line; tests swap it for a buffer.
	Output io.Writer = color.Output
	// Verbose enables Debug lines.
	Verbose bool
)

func line(prefix, format string, a ...any) {
	fmt.Fprint(Output, prefix)
	fmt.Fprint(Output, ": ")
	fmt.Fprintf(Output, format, a...)
	fmt.Fprint(Output, "\n")
}

func Error(format string, a ...any) {
	line(color.HiRedString("error"), format, a...)
}

func Warn(format string, a ...any) {
	line(color.YellowString("warn"), format, a...)
}

// Fail prints a fatal diagnostic. Choosing the exit status is up to the caller.
func Fail(format string, a ...any) {
	line(color.RedString("fatal"), format, a...)
}


func Info(format string, a ...any) {
	line(color.HiGreenString("info"), format, a...)
}

func Debug(format string, a ...any) {
	if !Verbose {
		return
	}
	line(color.HiBlackString("debug"), format, a...)
}

// Command echoes a command line before it is run.
func Command(name string, args []string) {
	fmt.Fprint(Output, color.HiCyanString(name))
	for _, arg := range args {
		fmt.Fprint(Output, " ", arg)
	}
	fmt.Fprint(Output, "\n")
}

type IndentWriter struct {
	Indent    string
	W         io.Writer
	didIndent bool
}

func (w *IndentWriter) Write(p []byte) (n int, err error) {
	out := make([]byte, 0, len(p)+len(w.Indent))
	for _, c := range p {
		if !w.didIndent {
			out = append(out, w.Indent...)
			w.didIndent = true
		}
		out = append(out, c)
		if c == '\n' || c == '\r' {
			w.didIndent = false
		}
	}
	if _, err := w.W.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
