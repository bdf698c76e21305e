package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/muesli/reflow/wordwrap"
)

const DefaultWidth = 80

// Play runs the game as a plain line loop: one verb per line from in,
// narration to out. It returns when the game is done, input runs out, or
// ctx is cancelled.
func Play(ctx context.Context, g *Game, in io.Reader, out io.Writer, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}

	for _, e := range g.Transcript() {
		if err := writeEntry(out, e, width); err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(in)
	for !g.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprint(out, "> "); err != nil {
			return err
		}
		if !scanner.Scan() {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
			return scanner.Err()
		}

		for _, e := range g.Submit(scanner.Text()) {
			if e.Kind == EntryPlayer {
				continue
			}
			if err := writeEntry(out, e, width); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(out, "Goodbye.")
	return err
}

func writeEntry(out io.Writer, e Entry, width int) error {
	_, err := fmt.Fprintln(out, wordwrap.String(e.Text, width))
	return err
}
