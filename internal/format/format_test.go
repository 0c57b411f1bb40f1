package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/baalimago/dolores/internal/config"
	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func Test_Formatter_prefixes(t *testing.T) {
	testCases := []struct {
		desc          string
		conf          config.Config
		wantUser      string
		wantAssistant string
	}{
		{
			desc:          "it should use plain tags with everything disabled",
			conf:          config.Config{},
			wantUser:      "[Q] ",
			wantAssistant: "[A] ",
		},
		{
			desc:          "it should use emoji glyphs when enabled",
			conf:          config.Config{EnableEmoji: true},
			wantUser:      "🧐 Q: ",
			wantAssistant: "🤖 A: ",
		},
		{
			desc:          "it should wrap tags in bold color when enabled",
			conf:          config.Config{EnableColor: true},
			wantUser:      "\033[1m\033[34m[Q] \033[0m",
			wantAssistant: "\033[1m\033[32m[A] \033[0m",
		},
		{
			desc:          "it should wrap emoji glyphs in bold color when both enabled",
			conf:          config.Config{EnableEmoji: true, EnableColor: true},
			wantUser:      "\033[1m\033[34m🧐 Q: \033[0m",
			wantAssistant: "\033[1m\033[32m🤖 A: \033[0m",
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			formatter := New(tC.conf)
			testboil.FailTestIfDiff(t, formatter.UserPrefix(), tC.wantUser)
			testboil.FailTestIfDiff(t, formatter.AssistantPrefix(), tC.wantAssistant)
		})
	}
}

func Test_Formatter_ClearScreen(t *testing.T) {
	buf := &bytes.Buffer{}
	New(config.Config{}).ClearScreen(buf)
	if !strings.Contains(buf.String(), "\033[2J\033[H") {
		t.Fatalf("expected clear sequence, got: %q", buf.String())
	}
}
