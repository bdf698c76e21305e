package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/jwebster45206/rok/internal/config"
	"github.com/jwebster45206/rok/internal/console"
	"github.com/jwebster45206/rok/internal/logger"
	"github.com/jwebster45206/rok/internal/storage"
	"github.com/jwebster45206/rok/pkg/telling"
	"github.com/jwebster45206/rok/pkg/textfilter"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [story.json|story.yaml]\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg, os.Stderr)

	storyPath := cfg.StoryFile
	if len(os.Args) == 2 {
		storyPath = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := storage.LoadFile(ctx, storyPath)
	if err != nil {
		log.Error("Failed to load story", "path", storyPath, "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	tell, err := telling.New(s)
	if err != nil {
		log.Error("Story cannot start", "path", storyPath, "intro", s.Intro(), "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Debug("Telling started", "path", storyPath, "scenes", len(s.SceneKeys()))

	game := console.NewGame(tell, textfilter.ForRating(cfg.ContentRating), log)

	if cfg.Plain || !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		if err := console.Play(ctx, game, os.Stdin, os.Stdout, console.DefaultWidth); err != nil {
			log.Error("Console loop failed", "error", err)
			os.Exit(1)
		}
		return
	}

	title := s.Name()
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(storyPath), filepath.Ext(storyPath))
	}

	p := tea.NewProgram(console.NewUI(game, strings.ToUpper(title)),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Error("Error running program", "error", err)
		os.Exit(1)
	}

	fmt.Println("Goodbye.")
}
