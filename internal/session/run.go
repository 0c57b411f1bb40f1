package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/baalimago/dolores/internal/input"
)

// translateInstruction is appended to the resolved input when the -t flag
// is set. The surrounding newlines are part of the fixed constant.
const translateInstruction = "\nPlease translate the text above into Chinese\n"

// RunOptions carries the parsed command line surface.
type RunOptions struct {
	// Text is the positional direct-mode question.
	Text []string
	// Repl forces interactive mode even with resolved startup input.
	Repl bool
	// Translate appends the translation instruction when input exists.
	Translate bool
	// PrintText echoes the resolved input verbatim before processing.
	PrintText bool
	// Prompt overrides the system prompt for this run.
	Prompt string
}

// ResolveInput concatenates piped content and positional text, piped first,
// with no separator, then appends the translation instruction when asked
// for and any input exists.
func ResolveInput(piped string, opts RunOptions) string {
	var parts []string
	if piped != "" {
		parts = append(parts, piped)
	}
	if len(opts.Text) > 0 {
		parts = append(parts, strings.Join(opts.Text, ""))
	}
	if opts.Translate && len(parts) > 0 {
		parts = append(parts, translateInstruction)
	}
	return strings.Join(parts, "")
}

// Run orchestrates one process run: resolve startup input, apply the prompt
// override, then pick single-query or interactive mode.
func (e *Engine) Run(ctx context.Context, opts RunOptions) error {
	var piped string
	if e.lineSource == nil {
		blob, err := input.ReadPiped(e.stdin)
		if err != nil {
			return err
		}
		piped = blob
	}
	resolved := ResolveInput(piped, opts)

	if opts.PrintText && resolved != "" {
		fmt.Fprint(e.out, resolved)
	}
	if opts.Prompt != "" {
		e.SetSystemPrompt(opts.Prompt)
	}

	if resolved != "" {
		if opts.Repl {
			return e.Interactive(ctx, resolved)
		}
		return e.SingleQuery(ctx, resolved)
	}
	return e.Interactive(ctx, "")
}
