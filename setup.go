package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/baalimago/dolores/internal/session"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
)

func returnNonDefault[T comparable](flagValue, altFlagValue, defaultValue T) (T, error) {
	if flagValue != defaultValue && altFlagValue != defaultValue {
		return defaultValue, fmt.Errorf("flags are mutually exclusive, only use one of them")
	}
	if flagValue != defaultValue {
		return flagValue, nil
	}
	if altFlagValue != defaultValue {
		return altFlagValue, nil
	}
	return defaultValue, nil
}

func exitWithFlagError(err error, shortFlag, longFlag string) {
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("%s, %s: %v\n", shortFlag, longFlag, err))
		flag.PrintDefaults()
		os.Exit(1)
	}
}

// setupFlags parses the command line surface into RunOptions. Positional
// arguments become the direct-mode question text.
func setupFlags(usage string) session.RunOptions {
	replShort := flag.Bool("r", false, "Enter interactive mode even when input text is present. Mutually exclusive with repl flag.")
	replLong := flag.Bool("repl", false, "Enter interactive mode even when input text is present. Mutually exclusive with r flag.")

	translateShort := flag.Bool("t", false, "Append a translate-to-Chinese instruction to the input text. Mutually exclusive with translate flag.")
	translateLong := flag.Bool("translate", false, "Append a translate-to-Chinese instruction to the input text. Mutually exclusive with t flag.")

	printTextShort := flag.Bool("P", false, "Echo the resolved input text before sending it. Mutually exclusive with print-text flag.")
	printTextLong := flag.Bool("print-text", false, "Echo the resolved input text before sending it. Mutually exclusive with P flag.")

	promptShort := flag.String("p", "", "Override the system prompt for this run. Mutually exclusive with prompt flag.")
	promptLong := flag.String("prompt", "", "Override the system prompt for this run. Mutually exclusive with p flag.")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	prompt, err := returnNonDefault(*promptShort, *promptLong, "")
	exitWithFlagError(err, "p", "prompt")

	return session.RunOptions{
		Text:      flag.Args(),
		Repl:      *replShort || *replLong,
		Translate: *translateShort || *translateLong,
		PrintText: *printTextShort || *printTextLong,
		Prompt:    prompt,
	}
}
