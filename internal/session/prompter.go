package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter is the narrow interface between the categorization loop and the
// operator. Keeping it this small lets tests drive the loop with a scripted
// implementation instead of real interactive input.
type Prompter interface {
	// Ask displays a prompt and returns the operator's answer with
	// surrounding whitespace trimmed.
	Ask(prompt string) (string, error)
}

// TerminalPrompter reads answers line by line from an input stream.
type TerminalPrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminalPrompter creates a prompter over stdin/stdout.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Ask writes the prompt and blocks for one line of input.
func (p *TerminalPrompter) Ask(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ScriptedPrompter replays canned answers and records the prompts it saw.
type ScriptedPrompter struct {
	Answers []string
	Prompts []string
	next    int
}

// Ask returns the next scripted answer, or empty once the script runs out.
func (p *ScriptedPrompter) Ask(prompt string) (string, error) {
	p.Prompts = append(p.Prompts, prompt)
	if p.next >= len(p.Answers) {
		return "", nil
	}
	answer := p.Answers[p.next]
	p.next++
	return strings.TrimSpace(answer), nil
}
