package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// IO reads one trimmed line per prompt and writes everything else to out.
type IO struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewIO(in io.Reader, out io.Writer) *IO {
	return &IO{in: bufio.NewScanner(in), out: out}
}

// Prompt returns io.EOF once the input is exhausted.
func (c *IO) Prompt(ctx context.Context, msg string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, msg)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *IO) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
