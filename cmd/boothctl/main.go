package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/boothctl/internal/archive"
	"github.com/csheth/boothctl/internal/booth"
	"github.com/csheth/boothctl/internal/config"
	"github.com/csheth/boothctl/internal/preview"
	"github.com/csheth/boothctl/internal/tui"
)

func main() {
	configPath := flag.String("config", "boothctl.yaml", "path to the kiosk config file")
	serverURL := flag.String("server", "", "override the booth server URL (eg. http://localhost:8000)")
	pollInterval := flag.Duration("poll-interval", 0, "override the status polling cadence")
	archiveDir := flag.String("archive-dir", "", "override the local collage archive directory")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	logFile := flag.String("log", "", "append debug logs to this file instead of discarding them")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *pollInterval > 0 {
		cfg.PollInterval = *pollInterval
	}
	if *archiveDir != "" {
		cfg.ArchiveDir = *archiveDir
	}
	if *noAltScreen {
		cfg.AltScreen = false
	}

	if *logFile != "" {
		f, err := tea.LogToFile(*logFile, "boothctl")
		if err != nil {
			fmt.Println("failed to open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	client, err := booth.NewClient(cfg.ServerURL, nil)
	if err != nil {
		fmt.Println("invalid booth server:", err)
		os.Exit(1)
	}

	var arch *archive.Archive
	arch, err = archive.New(cfg.ArchiveDir)
	if err != nil {
		fmt.Println("local archive disabled:", err)
		arch = nil
	}

	opts := []tea.ProgramOption{}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Client:       client,
			Archive:      arch,
			PollInterval: cfg.PollInterval,
		}),
		opts...,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := preview.NewChannel(cfg.ServerURL)
	go channel.Run(ctx)
	go func() {
		for event := range channel.Events() {
			program.Send(tui.PushEvent{Event: event})
		}
	}()
	go func() {
		for status := range channel.StatusNotes() {
			program.Send(tui.PushStatus{Status: status})
		}
	}()

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
