// Package terminal renders the countdown and reads continuation keys.
package terminal

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pomo/internal/core/phase"
)

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r\033[K"

// Display writes the status line and messages to a terminal.
type Display struct {
	out          io.Writer
	stateStyle   lipgloss.Style
	workStyle    lipgloss.Style
	breakStyle   lipgloss.Style
	messageStyle lipgloss.Style
}

// NewDisplay creates a display on out. Colours are used only when out is a terminal.
func NewDisplay(out io.Writer) *Display {
	renderer := lipgloss.NewRenderer(out)
	return &Display{
		out:          out,
		stateStyle:   renderer.NewStyle().Bold(true),
		workStyle:    renderer.NewStyle().Foreground(lipgloss.Color("203")),
		breakStyle:   renderer.NewStyle().Foreground(lipgloss.Color("78")),
		messageStyle: renderer.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

// Status rewrites the current line with the phase and its remaining time.
func (display *Display) Status(kind phase.Kind, remaining time.Duration) error {
	timeStyle := display.workStyle
	if kind == phase.KindBreak {
		timeStyle = display.breakStyle
	}
	_, err := fmt.Fprintf(display.out, "%sState: %s\tTime remaining %s",
		clearLine,
		display.stateStyle.Render(kind.Label()),
		timeStyle.Render(FormatRemaining(remaining)),
	)
	if err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}

// Message clears the status line and writes text on its own line.
func (display *Display) Message(text string) error {
	if _, err := fmt.Fprintf(display.out, "%s%s\n", clearLine, display.messageStyle.Render(text)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
