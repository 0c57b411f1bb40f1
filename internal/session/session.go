package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/baalimago/dolores/internal/command"
	"github.com/baalimago/dolores/internal/completion"
	"github.com/baalimago/dolores/internal/config"
	"github.com/baalimago/dolores/internal/format"
	"github.com/baalimago/dolores/internal/input"
	"github.com/baalimago/dolores/internal/models"
)

// commandResultLabel wraps captured shell output before it is injected as a
// system message. The system role makes the model treat the output as
// ground truth context rather than something it said itself.
const commandResultLabel = "command execution result:\n%v"

// Completer resolves one streaming query over the full conversation.
type Completer interface {
	Query(ctx context.Context, chat models.Chat) (string, error)
}

// Runner executes one shell command and returns its captured output.
type Runner interface {
	Run(commandStr string) string
}

// LineSource resolves one line of interactive input.
type LineSource interface {
	ReadLine(ctx context.Context) (string, error)
}

// Engine owns the conversation log and drives the read-classify-dispatch
// loop. The log is touched by no other component.
type Engine struct {
	formatter    format.Formatter
	client       Completer
	executor     Runner
	lineSource   LineSource
	systemPrompt string
	chat         models.Chat
	stdin        io.Reader
	out          io.Writer
	errOut       io.Writer
}

// New wires an engine from configuration. The input source is selected
// once, here: a line source only exists when stdin is a terminal.
func New(conf config.Config) *Engine {
	var lineSource LineSource
	if input.IsInteractive() {
		lineSource = input.NewInteractiveSource()
	}
	return &Engine{
		formatter:    format.New(conf),
		client:       completion.NewClient(conf),
		executor:     command.New(),
		lineSource:   lineSource,
		systemPrompt: conf.SystemPrompt,
		chat:         models.NewChat(conf.SystemPrompt),
		stdin:        os.Stdin,
		out:          os.Stdout,
		errOut:       os.Stderr,
	}
}

// NewWithParts wires an engine from explicit collaborators, used in tests.
func NewWithParts(conf config.Config, client Completer, executor Runner, lineSource LineSource, stdin io.Reader, out, errOut io.Writer) *Engine {
	return &Engine{
		formatter:    format.New(conf),
		client:       client,
		executor:     executor,
		lineSource:   lineSource,
		systemPrompt: conf.SystemPrompt,
		chat:         models.NewChat(conf.SystemPrompt),
		stdin:        stdin,
		out:          out,
		errOut:       errOut,
	}
}

// Chat exposes a copy of the current conversation log.
func (e *Engine) Chat() models.Chat {
	cpy := make([]models.Message, len(e.chat.Messages))
	copy(cpy, e.chat.Messages)
	return models.Chat{Messages: cpy}
}

// SetSystemPrompt replaces the configured prompt and the log's system
// message. Only called before the session begins, for the -p flag.
func (e *Engine) SetSystemPrompt(prompt string) {
	e.systemPrompt = prompt
	e.chat.Messages[0].Content = prompt
}

// Reset truncates the log back to a single system message using the
// currently configured prompt. Idempotent.
func (e *Engine) Reset() {
	e.chat = models.NewChat(e.systemPrompt)
	fmt.Fprintln(e.out, "conversation history reset")
}

// Dispatch runs one classified action and reports whether the session
// should terminate. Every path returns with the log consistent: appends
// only happen for the side of an exchange that actually succeeded.
func (e *Engine) Dispatch(ctx context.Context, action Action) bool {
	switch action.Kind {
	case Terminate:
		return true
	case Noop:
		if action.Raw == "" {
			fmt.Fprintln(e.out)
		}
	case Reset:
		e.formatter.ClearScreen(e.out)
		e.Reset()
	case ShellCommand:
		e.handleCommand(action)
	case Query:
		e.handleQuery(ctx, action.Text)
	}
	return false
}

func (e *Engine) handleCommand(action Action) {
	e.chat.Messages = append(e.chat.Messages, models.Message{Role: models.RoleUser, Content: action.Raw})
	fmt.Fprint(e.out, e.formatter.AssistantPrefix())
	output := e.executor.Run(action.Text)
	fmt.Fprintln(e.out)

	e.chat.Messages = append(e.chat.Messages, models.Message{
		Role:    models.RoleSystem,
		Content: fmt.Sprintf(commandResultLabel, output),
	})
}

func (e *Engine) handleQuery(ctx context.Context, text string) {
	e.chat.Messages = append(e.chat.Messages, models.Message{Role: models.RoleUser, Content: text})
	fmt.Fprint(e.out, e.formatter.AssistantPrefix())
	response, err := e.client.Query(ctx, e.chat)
	if err != nil {
		fmt.Fprintln(e.errOut, "failed to get a response, please retry")
	} else {
		e.chat.Messages = append(e.chat.Messages, models.Message{Role: models.RoleAssistant, Content: response})
	}
	fmt.Fprintln(e.out)
}

// SingleQuery issues one query over an independent [system, user] pair,
// ignoring any accumulated log. The returned error escalates to a non-zero
// exit in main.
func (e *Engine) SingleQuery(ctx context.Context, question string) error {
	chat := models.NewChat(e.systemPrompt)
	chat.Messages = append(chat.Messages, models.Message{Role: models.RoleUser, Content: question})
	fmt.Fprintln(e.out, e.formatter.UserPrefix()+question)
	fmt.Fprint(e.out, e.formatter.AssistantPrefix())

	_, err := e.client.Query(ctx, chat)
	if err != nil {
		return fmt.Errorf("single query failed: %w", err)
	}
	fmt.Fprintln(e.out)
	return nil
}

// Interactive runs the read-classify-dispatch loop. A non-empty seed is
// processed as the first query turn. The loop itself only runs when an
// interactive line source exists.
func (e *Engine) Interactive(ctx context.Context, seed string) error {
	if seed != "" {
		fmt.Fprintln(e.out, e.formatter.UserPrefix()+seed)
		e.handleQuery(ctx, seed)
	}

	if e.lineSource == nil {
		return nil
	}

	fmt.Fprintln(e.out, "entering chat mode ('exit' or 'quit' to quit)")
	for {
		fmt.Fprint(e.out, e.formatter.UserPrefix())
		line, err := e.lineSource.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, input.ErrInterrupted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(e.out, "\nbye bye!")
				return nil
			}
			return fmt.Errorf("failed to acquire input: %w", err)
		}
		if e.Dispatch(ctx, Classify(line)) {
			return nil
		}
	}
}
