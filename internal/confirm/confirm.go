// Package confirm implements the interactive half of the two-phase
// execution flow: a call routed in confirm mode comes back as a pending
// action, and a Prompt decides whether it actually runs.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"pepper/internal/tools"
)

// Decision is the user's answer to a pending action.
type Decision string

const (
	Execute Decision = "execute"
	Cancel  Decision = "cancel"
)

// Pending describes a routed call that is waiting on the user. Provider is
// the resolved provider, not the requested one.
type Pending struct {
	Tool     string
	Provider string
	Params   tools.Params
}

// Prompt asks the user what to do with a pending action.
type Prompt interface {
	Confirm(p Pending) (Decision, error)
}

// CLIPrompt prompts on the terminal and reads the answer from reader.
type CLIPrompt struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewCLIPrompt creates a prompt reading from in and writing to out.
func NewCLIPrompt(in io.Reader, out io.Writer) *CLIPrompt {
	return &CLIPrompt{reader: bufio.NewReader(in), out: out}
}

// Confirm renders the pending action and loops until the user answers with
// j(a) or n(ee). English yes/no is accepted too.
func (c *CLIPrompt) Confirm(p Pending) (Decision, error) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, strings.Repeat("─", 48))
	fmt.Fprintf(c.out, "  Actie:  %s:%s\n", p.Provider, p.Tool)
	for _, key := range sortedKeys(p.Params) {
		fmt.Fprintf(c.out, "  %-8s%v\n", key+":", p.Params[key])
	}
	fmt.Fprintln(c.out, strings.Repeat("─", 48))

	for {
		fmt.Fprint(c.out, "Uitvoeren? [j/n]: ")
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return Cancel, fmt.Errorf("read decision: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "j", "ja", "y", "yes":
			return Execute, nil
		case "n", "nee", "no":
			return Cancel, nil
		default:
			fmt.Fprintln(c.out, "Antwoord met j of n.")
		}
	}
}

// AutoPrompt approves every pending action without asking. Used when a run
// is started with an explicit ja-flag or from a non-interactive shell.
type AutoPrompt struct {
	out io.Writer
}

// NewAutoPrompt creates an auto-approving prompt that logs to out.
func NewAutoPrompt(out io.Writer) *AutoPrompt {
	return &AutoPrompt{out: out}
}

func (a *AutoPrompt) Confirm(p Pending) (Decision, error) {
	fmt.Fprintf(a.out, "Automatisch bevestigd: %s:%s\n", p.Provider, p.Tool)
	return Execute, nil
}

func sortedKeys(p tools.Params) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
