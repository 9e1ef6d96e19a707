// Package prompt collects run parameters interactively, asking again until
// each answer is valid.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/haloblur/internal/filter"
)

// ErrNoInput is returned when the input ends before a valid answer was given.
var ErrNoInput = errors.New("prompt: input ended")

// Prompter asks questions on out and reads answers line by line from in.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New returns a Prompter reading from r and writing questions to w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(r), out: w}
}

// Filename asks for the input image path. Any non-empty answer is accepted.
func (p *Prompter) Filename() (string, error) {
	for {
		line, err := p.ask("Enter image filename (with extension): ")
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		p.say("A filename is required.")
	}
}

// Kind asks for a filter kind until the answer names one.
func (p *Prompter) Kind() (filter.Kind, error) {
	names := strings.Join(kindNames(), "/")
	for {
		line, err := p.ask("Enter blur type (" + names + "): ")
		if err != nil {
			return 0, err
		}
		k, err := filter.ParseKind(line)
		if err == nil {
			return k, nil
		}
		p.say("Invalid blur type! Please enter one of " + strings.Join(kindNames(), ", ") + ".")
	}
}

// Radius asks for a positive integer radius.
func (p *Prompter) Radius() (int, error) {
	for {
		line, err := p.ask("Enter blur radius (positive integer): ")
		if err != nil {
			return 0, err
		}
		r, err := strconv.Atoi(line)
		switch {
		case err != nil:
			p.say("Enter a valid integer.")
		case r < 1:
			p.say("Radius must be positive.")
		default:
			return r, nil
		}
	}
}

// Spec asks for a kind and then a radius.
func (p *Prompter) Spec() (filter.Spec, error) {
	k, err := p.Kind()
	if err != nil {
		return filter.Spec{}, err
	}
	r, err := p.Radius()
	if err != nil {
		return filter.Spec{}, err
	}
	return filter.NewSpec(k, r)
}

func (p *Prompter) ask(question string) (string, error) {
	if _, err := io.WriteString(p.out, question); err != nil {
		return "", fmt.Errorf("prompt: write: %w", err)
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("prompt: read: %w", err)
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) say(msg string) {
	_, _ = fmt.Fprintln(p.out, msg)
}

func kindNames() []string {
	kinds := filter.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}
