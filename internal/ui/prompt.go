package ui

import (
	"github.com/charmbracelet/huh"
)

// Select shows an interactive single-choice menu. Labels are shown to the
// user and the matching value is returned.
func Select(message string, labels, values []string) (string, error) {
	var selected string
	opts := make([]huh.Option[string], len(values))
	for i, v := range values {
		opts[i] = huh.NewOption(labels[i], v)
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(message).
				Options(opts...).
				Value(&selected),
		),
	).Run()

	return selected, err
}

// Input asks for a single line of text.
func Input(message string) (string, error) {
	var value string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(message).
				Value(&value),
		),
	).Run()
	return value, err
}

// Confirm shows a yes/no confirmation prompt.
func Confirm(message string) (bool, error) {
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Value(&confirmed),
		),
	).Run()
	return confirmed, err
}
