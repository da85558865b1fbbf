package tui

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

// Prompt configures a single line input
type Prompt struct {
	Message     string
	Default     string
	Placeholder string
	Required    bool
	// Validate runs on the trimmed value before the form accepts it
	Validate func(string) error
}

// noPromptEnv lists variables that disable prompts when set. BIBLIO_NO_PROMPT
// comes first; the rest are set by common CI systems.
var noPromptEnv = []string{"BIBLIO_NO_PROMPT", "CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"}

// runField shows one field as a form. Aborting with ctrl+c is an input error.
func runField(field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).WithShowHelp(false).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return berrors.New(berrors.ErrCodeInputRequired, "prompt cancelled")
	}
	if err != nil {
		return berrors.Wrap(berrors.ErrCodeInputInvalid, "prompt failed", err)
	}
	return nil
}

func (p Prompt) validator() func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if p.Required {
				return errors.New("obligatoire")
			}
			return nil
		}
		if p.Validate != nil {
			return p.Validate(s)
		}
		return nil
	}
}

// PromptForString asks for one value and returns it trimmed
func PromptForString(p Prompt) (string, error) {
	value := p.Default
	field := huh.NewInput().
		Title(p.Message).
		Placeholder(p.Placeholder).
		Validate(p.validator()).
		Value(&value)

	if err := runField(field); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// PromptForPassword reads a non-empty value without echoing it
func PromptForPassword(message string) (string, error) {
	var value string
	field := huh.NewInput().
		Title(message).
		EchoMode(huh.EchoModePassword).
		Validate(Prompt{Required: true}.validator()).
		Value(&value)

	if err := runField(field); err != nil {
		return "", err
	}
	return value, nil
}

// Confirm asks a Oui/Non question
func Confirm(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Oui").
		Negative("Non").
		Value(&confirmed)

	if err := runField(field); err != nil {
		return false, err
	}
	return confirmed, nil
}

// Option is a selectable choice; Value is returned, Label is shown
type Option struct {
	Label string
	Value string
}

// Select asks for one of options and returns its Value
func Select(message string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", berrors.New(berrors.ErrCodeInputInvalid, "no options to choose from")
	}

	choices := make([]huh.Option[string], len(options))
	for i, opt := range options {
		choices[i] = huh.NewOption(opt.Label, opt.Value)
	}

	selected := options[0].Value
	field := huh.NewSelect[string]().
		Title(message).
		Options(choices...).
		Value(&selected)

	if err := runField(field); err != nil {
		return "", err
	}
	return selected, nil
}

// IsInteractive reports whether stdin is a terminal
func IsInteractive() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// ShouldPrompt reports whether missing values may be asked for: stdin is a
// terminal and none of the no-prompt variables is set
func ShouldPrompt() bool {
	for _, name := range noPromptEnv {
		if os.Getenv(name) != "" {
			return false
		}
	}
	return IsInteractive()
}
