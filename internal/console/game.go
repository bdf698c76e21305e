package console

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/jwebster45206/rok/pkg/story"
	"github.com/jwebster45206/rok/pkg/telling"
	"github.com/jwebster45206/rok/pkg/textfilter"
)

// EntryKind classifies a transcript line.
type EntryKind int

const (
	EntryNarration EntryKind = iota
	EntryPlayer
	EntryError
	EntryInfo
)

// Entry is one line of the transcript.
type Entry struct {
	Kind EntryKind
	Text string
}

const helpText = `Commands:
  /help   Show this help
  /verbs  List what you can do here
  /copy   Copy the transcript to the clipboard
  /quit   Stop playing

Type a verb and press Enter to make a choice.`

// Game drives one telling from typed input. It owns the telling for the
// life of the run; front ends only feed it lines and render entries.
type Game struct {
	telling    *telling.Telling
	filter     *textfilter.Filter
	logger     *slog.Logger
	transcript []Entry
	quit       bool

	// Copy writes text to the system clipboard. Tests replace it.
	Copy func(string) error
}

func NewGame(t *telling.Telling, filter *textfilter.Filter, logger *slog.Logger) *Game {
	g := &Game{
		telling: t,
		filter:  filter,
		logger:  logger,
		Copy:    clipboard.WriteAll,
	}
	if scenes := softenedScenes(t.Story(), filter); len(scenes) > 0 {
		logger.Info("Story text will be softened", "scenes", scenes)
	}
	g.record(Entry{Kind: EntryNarration, Text: g.message()})
	return g
}

func softenedScenes(s *story.Story, filter *textfilter.Filter) []string {
	var keys []string
	for _, key := range s.SceneKeys() {
		if sc, ok := s.Lookup(key); ok && filter.Contains(sc.Message()) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Done reports whether the loop should stop: the story ended or the player
// quit.
func (g *Game) Done() bool {
	return g.quit || !g.telling.IsRunning()
}

// Ended reports whether the story itself reached an Exit.
func (g *Game) Ended() bool {
	return !g.telling.IsRunning()
}

func (g *Game) Transcript() []Entry {
	return g.transcript
}

// Submit handles one line of input and returns the entries it produced.
// Failed choices never change the telling.
func (g *Game) Submit(input string) []Entry {
	input = strings.TrimSpace(input)
	if input == "" || g.Done() {
		return nil
	}

	start := len(g.transcript)
	g.record(Entry{Kind: EntryPlayer, Text: input})

	if strings.HasPrefix(input, "/") {
		g.command(input)
		return g.transcript[start:]
	}

	scene := g.telling.CurrentScene()
	err := g.telling.ApplyChoice(input)

	var cnf *telling.ChoiceNotFoundError
	switch {
	case err == nil:
		g.logger.Debug("Choice applied", "verb", input, "from", scene, "to", g.telling.CurrentScene(), "running", g.telling.IsRunning())
		if g.telling.IsRunning() {
			g.record(Entry{Kind: EntryNarration, Text: g.message()})
		}
	case errors.As(err, &cnf):
		g.record(Entry{Kind: EntryError, Text: fmt.Sprintf("Unknown verb %q, try: %s", cnf.Verb, strings.Join(g.telling.Verbs(), ", "))})
	case errors.Is(err, telling.ErrSceneNotFound):
		g.logger.Warn("Story has a dangling destination", "scene", scene, "verb", input, "error", err)
		g.record(Entry{Kind: EntryError, Text: "Error: " + err.Error()})
	default:
		g.record(Entry{Kind: EntryError, Text: "Error: " + err.Error()})
	}

	return g.transcript[start:]
}

func (g *Game) command(input string) {
	switch strings.ToLower(input) {
	case "/help":
		g.record(Entry{Kind: EntryInfo, Text: helpText})
	case "/verbs":
		g.record(Entry{Kind: EntryInfo, Text: "You can: " + strings.Join(g.telling.Verbs(), ", ")})
	case "/copy":
		if err := g.Copy(g.plainTranscript()); err != nil {
			g.logger.Warn("Failed to copy transcript", "error", err)
			g.record(Entry{Kind: EntryError, Text: "Could not copy transcript: " + err.Error()})
			return
		}
		g.record(Entry{Kind: EntryInfo, Text: "Transcript copied to clipboard."})
	case "/quit":
		g.quit = true
	default:
		g.record(Entry{Kind: EntryError, Text: fmt.Sprintf("Unknown command %q, try /help", input)})
	}
}

func (g *Game) message() string {
	return g.filter.Apply(g.telling.CurrentMessage())
}

func (g *Game) record(e Entry) {
	g.transcript = append(g.transcript, e)
}

func (g *Game) plainTranscript() string {
	var b strings.Builder
	for _, e := range g.transcript {
		if e.Kind == EntryPlayer {
			b.WriteString("> ")
		}
		b.WriteString(e.Text)
		b.WriteString("\n")
	}
	return b.String()
}
