// Package terminal provides utilities for terminal input and output such as
// hidden key entry and clearing echoed prompts.
package terminal

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/term"
)

// Width returns the current terminal width, or 80 when unavailable.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// LinesUsed returns how many terminal lines textLength characters occupy at the given width.
func LinesUsed(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	lines := int(math.Ceil(float64(textLength) / float64(width)))
	if lines < 1 {
		return 1
	}
	return lines
}

// ClearPreviousLines clears a prompt and the user's echoed input from the terminal.
// textLength is the number of characters printed (prompt + input). One extra line is
// cleared for the newline the user typed.
func ClearPreviousLines(textLength int) {
	linesToClear := LinesUsed(textLength, Width()) + 1

	for i := 0; i < linesToClear; i++ {
		fmt.Print("\r\x1b[2K") // Move to start and clear entire line
		if i < linesToClear-1 {
			fmt.Print("\x1b[1A") // Move up one line (don't move up on last iteration)
		}
	}
}
