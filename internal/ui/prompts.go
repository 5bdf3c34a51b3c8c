package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// In is where prompts read answers from.
var In io.Reader = os.Stdin

// AskYesNo asks a y/N question. An empty answer, or no input at all (a
// closed stdin, Ctrl-D), selects defaultYes.
func AskYesNo(question string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(Out, "%s%s %s ", indent, question, hint)

	answer, err := bufio.NewReader(In).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(Out)
		return defaultYes
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return defaultYes
	case "y", "yes":
		return true
	default:
		return false
	}
}
