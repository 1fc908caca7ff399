package narration

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Command speaks by running an external text-to-speech program such as
// espeak-ng or say. Args may contain {text}, {lang}, {rate} and {pitch};
// without a {text} placeholder the text is appended as the last argument.
type Command struct {
	Args []string
}

// NewCommand returns a Command, or nil when args is empty.
func NewCommand(args []string) Speaker {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil
	}
	return Command{Args: append([]string(nil), args...)}
}

func (c Command) Speak(ctx context.Context, text string, voice Voice) error {
	argv := c.argv(text, voice)
	if len(argv) == 0 {
		return errors.New("narration command is empty")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w: %s", argv[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (c Command) argv(text string, voice Voice) []string {
	r := strings.NewReplacer(
		"{text}", text,
		"{lang}", voice.Lang,
		"{rate}", strconv.FormatFloat(voice.Rate, 'f', -1, 64),
		"{pitch}", strconv.FormatFloat(voice.Pitch, 'f', -1, 64),
	)
	out := make([]string, 0, len(c.Args)+1)
	hasText := false
	for _, a := range c.Args {
		if strings.Contains(a, "{text}") {
			hasText = true
		}
		out = append(out, r.Replace(a))
	}
	if !hasText && len(out) > 0 {
		out = append(out, text)
	}
	return out
}
