// Package ui writes claudepath's human-facing status output.
//
// Status lines (progress, warnings, hints, prompts) go to ui.Out, which
// defaults to stderr, so stdout carries only command results such as the
// operation summary or the project list. Answers are read from ui.In.
// Tests swap both.
//
// Every line is indented two spaces and led by a colored marker:
//
//	→ Info      ✔ Success      ✘ Fail      ○ Warn
//
// Colors come from fatih/color and switch off when NO_COLOR is set or the
// output is not a terminal.
//
//	ui.Field("From:", oldPath)
//	ui.Field("To:", newPath)
//	if !ui.AskYesNo("Move project and update all Claude Code references?", false) {
//	    ui.DimMsg("Aborted.")
//	    return nil
//	}
package ui
