package bootstrap

import (
	"bufio"
	"fmt"
	"io"
)

// Prompter blocks until the operator acknowledges, keeping diagnostics on
// screen before the terminal window closes.
type Prompter interface {
	WaitForKeypress()
}

// TerminalPrompter waits for a newline on the terminal.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
}

// WaitForKeypress prints the prompt and blocks until enter is pressed or
// the input stream ends.
func (p *TerminalPrompter) WaitForKeypress() {
	fmt.Fprint(p.Out, "\nPressione ENTER para sair...")
	reader := bufio.NewReader(p.In)
	_, _ = reader.ReadString('\n')
}

// NopPrompter never blocks. Used under --no-pause and in tests.
type NopPrompter struct{}

// WaitForKeypress returns immediately.
func (NopPrompter) WaitForKeypress() {}
