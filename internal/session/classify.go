package session

import "strings"

type ActionKind int

const (
	// Noop leaves the conversation untouched, empty input or a bare '!'.
	Noop ActionKind = iota
	// Reset clears the screen and truncates the log to the system message.
	Reset
	// ShellCommand executes the text after '!' through the shell.
	ShellCommand
	// Query sends the conversation to the completion API.
	Query
	// Terminate ends the interactive loop.
	Terminate
)

// Action is the classified form of one raw input, consumed by the dispatch
// state machine.
type Action struct {
	Kind ActionKind
	// Text is the stripped command for ShellCommand and the question text
	// for Query.
	Text string
	// Raw is the whitespace-trimmed original input, bang included for
	// shell commands. This is what lands in the conversation log.
	Raw string
}

// Classify maps one raw input line onto the closed set of actions. The
// string matching lives here so the dispatcher stays exhaustive and
// independently testable.
func Classify(raw string) Action {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "exit", "quit":
		return Action{Kind: Terminate, Raw: trimmed}
	case "clear":
		return Action{Kind: Reset, Raw: trimmed}
	case "":
		return Action{Kind: Noop}
	}
	if strings.HasPrefix(trimmed, "!") {
		commandStr := strings.TrimSpace(trimmed[1:])
		if commandStr == "" {
			return Action{Kind: Noop, Raw: trimmed}
		}
		return Action{Kind: ShellCommand, Text: commandStr, Raw: trimmed}
	}
	return Action{Kind: Query, Text: trimmed, Raw: trimmed}
}
