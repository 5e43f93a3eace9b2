package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// C wraps s in color when stdout is a terminal (or color is forced).
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

func Dim(s string) string { return C(dim, s) }

func OK(msg string)   { fmt.Println(C(current.Success, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(os.Stderr, C(current.Error, symCross+" "+msg)) }

// Width is the terminal width, or fallback when stdout is not a terminal.
func Width(fallback int) int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallback
}
