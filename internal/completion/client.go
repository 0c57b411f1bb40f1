package completion

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/baalimago/dolores/internal/config"
	"github.com/baalimago/dolores/internal/models"
)

// Client drives one streaming query: it forwards each fragment to the
// output writer as it arrives and returns the full concatenated text once
// the stream closes.
type Client struct {
	completer models.StreamCompleter
	out       io.Writer
	errOut    io.Writer
}

func NewClient(conf config.Config) *Client {
	return &Client{
		completer: NewStreamCompleter(conf),
		out:       os.Stdout,
		errOut:    os.Stderr,
	}
}

// NewClientWithCompleter wires a custom completer and writers, used by the
// session engine and by tests.
func NewClientWithCompleter(completer models.StreamCompleter, out, errOut io.Writer) *Client {
	return &Client{
		completer: completer,
		out:       out,
		errOut:    errOut,
	}
}

// Query streams a completion for the chat. Any failure, or a stream which
// yields no content at all, is reported on the diagnostic writer and
// returned as models.ErrNoResponse. Blocking operation.
func (c *Client) Query(ctx context.Context, chat models.Chat) (string, error) {
	completionsChan, err := c.completer.StreamCompletions(ctx, chat)
	if err != nil {
		fmt.Fprintf(c.errOut, "\nError: %v\n", err)
		return "", fmt.Errorf("%w: %v", models.ErrNoResponse, err)
	}
	fullMsg, err := Accumulate(completionsChan, c.out)
	if err != nil {
		fmt.Fprintf(c.errOut, "\nError: %v\n", err)
		return "", fmt.Errorf("%w: %v", models.ErrNoResponse, err)
	}
	if fullMsg == "" {
		return "", models.ErrNoResponse
	}
	return fullMsg, nil
}

// Accumulate drains the event channel, forwarding each content fragment to
// w the moment it arrives and concatenating them in arrival order. It
// returns once the channel closes or a stop event arrives. Separated from
// Query so accumulation is testable without a real terminal.
func Accumulate(events chan models.CompletionEvent, w io.Writer) (string, error) {
	var sb strings.Builder
	for event := range events {
		switch cast := event.(type) {
		case string:
			fmt.Fprint(w, cast)
			sb.WriteString(cast)
		case error:
			return "", fmt.Errorf("completion stream error: %w", cast)
		case models.StopEvent:
			return sb.String(), nil
		case models.NoopEvent:
		default:
			return "", fmt.Errorf("unknown completion event: %v", event)
		}
	}
	return sb.String(), nil
}
