package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sells-group/prospector-cli/internal/app"
)

// writerNotifier prints notices on their own line.
type writerNotifier struct {
	w io.Writer
}

func (n writerNotifier) Notify(msg string) {
	fmt.Fprintln(n.w, "» "+msg)
}

// promptConfirmer asks a yes/no question on the terminal. Anything but an
// explicit yes declines.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(in io.Reader, out io.Writer) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(in), out: out}
}

func (p *promptConfirmer) Confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

var (
	_ app.Notifier  = writerNotifier{}
	_ app.Confirmer = (*promptConfirmer)(nil)
)
