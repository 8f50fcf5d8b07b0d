package handlers

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Confirm asks the user a yes/no question on the terminal. Without a
// terminal there is nobody to ask, so the caller must be told to decide up
// front.
func Confirm(question string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("cannot prompt without a terminal; rerun with --non-interactive")
	}

	var approved bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Terminate").
			Negative("Keep").
			Value(&approved),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return approved, nil
}
