package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// Prompter asks the operator for a single value.
type Prompter interface {
	Ask(question string) (string, error)
	AskSecret(question string) (string, error)
}

// NewPrompter returns a huh-backed prompter when stdin is a terminal and a
// plain line reader otherwise (piped input in scripts).
func NewPrompter(rc RuntimeContext, in io.Reader, out io.Writer) Prompter {
	if rc.Interactive {
		return formPrompter{}
	}
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

type formPrompter struct{}

func (formPrompter) Ask(question string) (string, error) {
	return runInput(question, huh.EchoModeNormal)
}

func (formPrompter) AskSecret(question string) (string, error) {
	return runInput(question, huh.EchoModePassword)
}

func runInput(question string, mode huh.EchoMode) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(question).
				EchoMode(mode).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", SourceUnavailable("prompt aborted")
		}
		return "", fmt.Errorf("prompt: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// linePrompter reads answers line by line. One reader is shared across
// questions so buffered input is not lost between prompts.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *linePrompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question+" ")
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *linePrompter) AskSecret(question string) (string, error) {
	return p.Ask(question)
}
