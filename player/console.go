package player

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Console is a line-based terminal. Every human in a process must read from
// the same Console, since its scanner buffers input ahead of the current line.
type Console struct {
	mu  sync.Mutex
	in  *bufio.Scanner
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

var stdConsole = sync.OnceValue(func() *Console {
	return NewConsole(os.Stdin, os.Stdout)
})

// StdConsole is the Console over the process's stdin and stdout.
func StdConsole() *Console { return stdConsole() }

// Prompt writes prompt and returns the next input line without surrounding
// space. At end of input it returns io.ErrUnexpectedEOF.
func (c *Console) Prompt(prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		fmt.Fprintln(c.out)
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) Writer() io.Writer { return c.out }
