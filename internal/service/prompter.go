package service

import (
	"context"
	"strconv"
	"strings"
)

// Prompter is the prompt/response contract between the checkout flow and
// whatever renders it. Prompt returns the trimmed line the user entered.
type Prompter interface {
	Prompt(ctx context.Context, msg string) (string, error)
	Printf(format string, args ...any)
}

type menu struct {
	title     string
	options   []string
	backKey   string
	backLabel string
	prompt    string
}

// choose shows a numbered menu until the user picks an entry or the back
// key. Invalid input re-prompts.
func choose(ctx context.Context, p Prompter, m menu) (int, bool, error) {
	for {
		p.Printf("\n%s\n", m.title)
		for i, o := range m.options {
			p.Printf("%d. %s\n", i+1, o)
		}
		p.Printf("%s. %s\n", m.backKey, m.backLabel)

		input, err := p.Prompt(ctx, m.prompt)
		if err != nil {
			return 0, false, err
		}
		if strings.EqualFold(input, m.backKey) {
			return 0, true, nil
		}

		n, convErr := strconv.Atoi(input)
		if convErr != nil {
			p.Printf("Invalid input, enter a number or '%s'.\n", m.backKey)
			continue
		}
		if n < 1 || n > len(m.options) {
			p.Printf("Invalid option, choose between 1 and %d.\n", len(m.options))
			continue
		}
		return n - 1, false, nil
	}
}

func isKey(input, key string) bool {
	return strings.EqualFold(strings.TrimSpace(input), key)
}
