package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()

	// Out receives status messages and prompts. Command results (summaries,
	// listings) go to the command's stdout instead.
	Out io.Writer = os.Stderr
)

// indent is the left margin of every status line.
const indent = "  "

// labelWidth pads Field labels so values line up ("From:", "To:", "Backup:").
const labelWidth = 6

func line(marker, format string, args []any) {
	msg := fmt.Sprintf(format, args...)
	if marker == "" {
		fmt.Fprintf(Out, "%s%s\n", indent, msg)
		return
	}
	fmt.Fprintf(Out, "%s%s %s\n", indent, marker, msg)
}

// Info reports progress.
func Info(format string, args ...any) { line(Cyan("→"), format, args) }

// Success reports a completed operation.
func Success(format string, args ...any) { line(Green("✔"), format, args) }

// Fail reports an error the command has already handled.
func Fail(format string, args ...any) { line(Red("✘"), format, args) }

// Warn reports something the user should look at before continuing.
func Warn(format string, args ...any) { line(Yellow("○"), format, args) }

// DimMsg prints secondary text such as hints and aborted notices.
func DimMsg(format string, args ...any) { line("", "%s", []any{Dim(fmt.Sprintf(format, args...))}) }

// Field prints a bold, padded label followed by its value.
func Field(label, value string) {
	line(Bold(fmt.Sprintf("%-*s", labelWidth, label)), "%s", []any{value})
}

// Bullet prints an item nested under the previous line.
func Bullet(format string, args ...any) { line(indent+"-", format, args) }

func BlankLine() {
	fmt.Fprintln(Out)
}
