package format

import (
	"fmt"
	"io"

	"github.com/baalimago/dolores/internal/config"
)

const (
	blue  = "\033[34m"
	green = "\033[32m"
	bold  = "\033[1m"
	reset = "\033[0m"

	clearSequence = "\033[2J\033[H"
)

// Formatter renders the role prefixes around each exchange. Pure function
// of configuration, no state.
type Formatter struct {
	enableEmoji bool
	enableColor bool
}

func New(conf config.Config) Formatter {
	return Formatter{
		enableEmoji: conf.EnableEmoji,
		enableColor: conf.EnableColor,
	}
}

// UserPrefix for the question side of an exchange, bold blue when colored.
func (f Formatter) UserPrefix() string {
	glyph := "[Q] "
	if f.enableEmoji {
		glyph = "🧐 Q: "
	}
	if f.enableColor {
		return bold + blue + glyph + reset
	}
	return glyph
}

// AssistantPrefix for the answer side of an exchange, bold green when colored.
func (f Formatter) AssistantPrefix() string {
	glyph := "[A] "
	if f.enableEmoji {
		glyph = "🤖 A: "
	}
	if f.enableColor {
		return bold + green + glyph + reset
	}
	return glyph
}

// ClearScreen writes the ansi clear + cursor home sequence.
func (f Formatter) ClearScreen(w io.Writer) {
	fmt.Fprint(w, clearSequence)
}
