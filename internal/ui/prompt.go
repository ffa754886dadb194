package ui

import (
	"errors"

	"github.com/charmbracelet/huh"

	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
)

// Prompter asks the user for input. FormPrompter is the terminal
// implementation; commands receive a Prompter so they can be tested.
type Prompter interface {
	Select(title string, options []string, def string) (string, error)
	MultiSelect(title string, options []string, selected []string) ([]string, error)
	Input(title, def string) (string, error)
	Text(title, def string) (string, error)
	Confirm(title string, def bool) (bool, error)
}

// FormPrompter renders prompts with huh forms.
type FormPrompter struct {
	theme *huh.Theme
}

func NewFormPrompter() *FormPrompter {
	return &FormPrompter{theme: huh.ThemeCharm()}
}

func (p *FormPrompter) Select(title string, options []string, def string) (string, error) {
	value := def
	field := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&value)
	if err := p.run(field); err != nil {
		return "", err
	}
	return value, nil
}

func (p *FormPrompter) MultiSelect(title string, options []string, selected []string) ([]string, error) {
	value := append([]string(nil), selected...)
	field := huh.NewMultiSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Filterable(true).
		Value(&value)
	if err := p.run(field); err != nil {
		return nil, err
	}
	return value, nil
}

func (p *FormPrompter) Input(title, def string) (string, error) {
	value := def
	if err := p.run(huh.NewInput().Title(title).Value(&value)); err != nil {
		return "", err
	}
	return value, nil
}

func (p *FormPrompter) Text(title, def string) (string, error) {
	value := def
	if err := p.run(huh.NewText().Title(title).Lines(8).Value(&value)); err != nil {
		return "", err
	}
	return value, nil
}

func (p *FormPrompter) Confirm(title string, def bool) (bool, error) {
	value := def
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value)
	if err := p.run(field); err != nil {
		return false, err
	}
	return value, nil
}

func (p *FormPrompter) run(field huh.Field) error {
	StopActiveSpinner()
	err := huh.NewForm(huh.NewGroup(field)).WithTheme(p.theme).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return domainErrors.ErrSelectionCancelled
	}
	return err
}
