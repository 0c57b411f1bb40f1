package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/baalimago/dolores/internal/config"
	"github.com/baalimago/dolores/internal/models"
	"github.com/baalimago/dolores/internal/session"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
	"github.com/joho/godotenv"
)

const usage = `dolores - AI command line assistant

Prerequisites:
  - Set the DOLORES_API_KEY environment variable to your API key
  - (Optional) Set DOLORES_MODEL_ID to pick the chat model (default 'deepseek-chat')
  - (Optional) Set DOLORES_BASE_URL to point at another openai-compatible API (default 'https://api.deepseek.com')
  - (Optional) Set DOLORES_ENABLE_EMOJI=false to disable the emoji prefixes
  - (Optional) Set DOLORES_ENABLE_COLOR=false to disable ansi color output
  - Values may also be placed in a .env file in the working directory

Usage: dolores [flags] <text>

Flags:
  -r, -repl bool          Enter interactive mode even when input text is present. (default false)
  -t, -translate bool     Append a translate-to-Chinese instruction to the input text. (default false)
  -P, -print-text bool    Echo the resolved input text before sending it. (default false)
  -p, -prompt string      Override the system prompt for this run.

Interactive commands:
  clear                   Clear the screen and reset the conversation
  !<command>              Run <command> through the shell, feeding its output back as context
  exit | quit             Leave the session

Examples:
  - dolores "What's the weather like in Tokyo?"
  - git diff | dolores "Write a commit message for this diff: "
  - cat README.md | dolores -t
  - dolores -r "Let's talk about BGP anycast."
`

func main() {
	ancli.SetupSlog()
	// Opportunistic, a missing .env file is fine
	if err := godotenv.Load(); err != nil && misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintWarn(fmt.Sprintf("failed to load .env: %v\n", err))
	}

	conf, err := config.FromEnv()
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("%v\n", err))
		os.Exit(1)
	}

	opts := setupFlags(usage)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { shutdown.Monitor(cancel) }()

	engine := session.New(conf)
	err = engine.Run(ctx, opts)
	cancel()
	if err != nil {
		if errors.Is(err, models.ErrNoResponse) {
			ancli.PrintErr("failed to get a response, please retry\n")
		} else {
			ancli.PrintErr(fmt.Sprintf("failed to run: %v\n", err))
		}
		os.Exit(1)
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK("things seems to have worked out. Bye bye! 🚀\n")
	}
}
