package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"
)

// ErrInterrupted signals that the operator cancelled input acquisition.
// Treated as a graceful exit by the session, not as a fault.
var ErrInterrupted = errors.New("input interrupted")

// IsInteractive reports whether stdin is an interactive terminal. Checked
// once at startup to select which input source executes.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// InteractiveSource resolves one line of terminal input at a time. Only
// valid when stdin is an interactive terminal.
type InteractiveSource struct {
	reader *bufio.Reader
}

func NewInteractiveSource() *InteractiveSource {
	return &InteractiveSource{reader: bufio.NewReader(os.Stdin)}
}

// NewInteractiveSourceFromReader reads lines from r instead of the
// terminal, used in tests.
func NewInteractiveSourceFromReader(r io.Reader) *InteractiveSource {
	return &InteractiveSource{reader: bufio.NewReader(r)}
}

// ReadLine blocks until a full line arrives, the operator interrupts, or
// the context is cancelled. Interrupts propagate as ErrInterrupted and end
// of input as io.EOF, both resolved by the caller, never swallowed here.
func (s *InteractiveSource) ReadLine(ctx context.Context) (string, error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	lineChan := make(chan string)
	errChan := make(chan error)

	go func() {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		lineChan <- line
	}()

	select {
	case <-sigChan:
		return "", ErrInterrupted
	case <-ctx.Done():
		return "", ErrInterrupted
	case err := <-errChan:
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("failed to read user input: %w", err)
	case line := <-lineChan:
		return strings.TrimSpace(line), nil
	}
}

// ReadPiped reads r to end of stream once and trims surrounding
// whitespace. Returns the empty string when nothing was piped. Only valid
// when stdin is not an interactive terminal.
func ReadPiped(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read piped input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
