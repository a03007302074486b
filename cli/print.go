package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, format+"\n", a...) //nolint:errcheck
}

// infof prints a message prefixed with a bold cyan "Info: ".
func infof(w io.Writer, format string, a ...interface{}) {
	color.New(color.Bold, color.FgCyan).Fprint(w, "Info: ") //nolint:errcheck
	printf(w, format, a...)
}

// successf prints a message prefixed with a bold green "Done: ".
func successf(w io.Writer, format string, a ...interface{}) {
	color.New(color.Bold, color.FgGreen).Fprint(w, "Done: ") //nolint:errcheck
	printf(w, format, a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ") //nolint:errcheck
	printf(w, format, a...)
}

// errorf prints a message prefixed with a bold red "Error: ".
func errorf(w io.Writer, format string, a ...interface{}) {
	color.New(color.Bold, color.FgRed).Fprint(w, "Error: ") //nolint:errcheck
	printf(w, format, a...)
}
