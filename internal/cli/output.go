package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
)

func printError(out io.Writer, err error) {
	errorColor.Fprintf(out, "ERROR: %v\n", err)
}

func printErrorf(out io.Writer, format string, args ...any) {
	errorColor.Fprintf(out, "ERROR: "+format+"\n", args...)
}

func printWarning(out io.Writer, format string, args ...any) {
	warningColor.Fprintf(out, "Warning: "+format+"\n", args...)
}

func printSuccess(out io.Writer, format string, args ...any) {
	successColor.Fprintf(out, format+"\n", args...)
}

func printBlank(out io.Writer) {
	fmt.Fprintln(out)
}
