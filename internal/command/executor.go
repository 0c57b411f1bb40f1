package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Executor spawns shell commands and streams their combined output to the
// terminal while capturing it for conversation context.
type Executor struct {
	out io.Writer
}

func New() *Executor {
	return &Executor{out: os.Stdout}
}

// NewWithWriter returns an executor streaming to w, used in tests.
func NewWithWriter(w io.Writer) *Executor {
	return &Executor{out: w}
}

// Run executes commandStr through the platform shell, merging stdout and
// stderr and forwarding each line as it is produced. The full captured text
// is returned regardless of exit code. Spawn or read failures are embedded
// as a synthetic error line so a bad command never crashes the session.
func (e *Executor) Run(commandStr string) string {
	cmd := exec.Command("sh", "-c", commandStr)

	pr, pw, err := os.Pipe()
	if err != nil {
		return e.syntheticError(err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return e.syntheticError(err)
	}
	// The child holds its own copy of the write end, close ours so the
	// read side sees EOF once the process exits.
	pw.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text() + "\n"
		fmt.Fprint(e.out, line)
		sb.WriteString(line)
	}
	pr.Close()
	// Exit code is intentionally discarded, the captured output is the
	// only thing fed back into the conversation.
	_ = cmd.Wait()

	if err := scanner.Err(); err != nil {
		errLine := e.syntheticError(err)
		sb.WriteString(errLine)
	}
	return sb.String()
}

func (e *Executor) syntheticError(err error) string {
	errMsg := fmt.Sprintf("\nError executing command: %v", err)
	fmt.Fprintln(e.out, errMsg)
	return errMsg
}
