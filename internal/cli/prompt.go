package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers from the user.
// Both methods return ErrInputClosed once the input is exhausted.
type Prompter interface {
	Prompt(message string) (string, error)
	PromptPassword(message string) (string, error)
}

// ConsolePrompter prompts on out and reads lines from in.
// Password reads disable echo when in is a terminal.
type ConsolePrompter struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	isTerm bool
}

// NewConsolePrompter returns a prompter reading from in.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	p := &ConsolePrompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok {
		p.fd = int(f.Fd())
		p.isTerm = term.IsTerminal(p.fd)
	}
	return p
}

// Prompt prints message and returns the trimmed answer.
func (p *ConsolePrompter) Prompt(message string) (string, error) {
	fmt.Fprint(p.out, message)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptPassword prints message and reads an answer without echo.
func (p *ConsolePrompter) PromptPassword(message string) (string, error) {
	fmt.Fprint(p.out, message)
	if p.isTerm {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	return p.readLine()
}

func (p *ConsolePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ask prompts until a non-empty answer is given when required.
func ask(p Prompter, message string, required bool) (string, error) {
	for {
		answer, err := p.Prompt(message)
		if err != nil {
			return "", err
		}
		if answer != "" || !required {
			return answer, nil
		}
	}
}

// askPassword is ask for secrets.
func askPassword(p Prompter, message string, required bool) (string, error) {
	for {
		answer, err := p.PromptPassword(message)
		if err != nil {
			return "", err
		}
		if answer != "" || !required {
			return answer, nil
		}
	}
}

// answerYesNo maps yes/y and no/n to a decision. ok is false for anything else.
func answerYesNo(answer string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true, true
	case "no", "n":
		return false, true
	}
	return false, false
}
