package utils

import (
	"fmt"
	"os"

	"golang.org/x/term"

	serrors "github.com/secstash/secstash/internal/errors"
)

// ReadPassphrase prompts the user for a passphrase without echoing input.
// Returns an error if stdin is not a terminal.
func ReadPassphrase(prompt string) (string, error) {
	if !IsTerminal() {
		return "", fmt.Errorf("cannot read passphrase: stdin is not a terminal")
	}

	fd := int(os.Stdin.Fd())
	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}

	return string(passphrase), nil
}

// ReadPassphraseConfirmed prompts twice and requires both entries to
// match, so a typo can't encrypt an export under an unknown passphrase.
func ReadPassphraseConfirmed(prompt, confirmPrompt string) (string, error) {
	first, err := ReadPassphrase(prompt)
	if err != nil {
		return "", err
	}
	second, err := ReadPassphrase(confirmPrompt)
	if err != nil {
		return "", err
	}
	if first != second {
		return "", serrors.ErrPassphraseMismatch
	}
	return first, nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
