package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/placemarks/internal/bookmarks"
	"github.com/nikbrunner/placemarks/internal/engine"
	"github.com/nikbrunner/placemarks/internal/logging"
	"github.com/nikbrunner/placemarks/internal/model"
	"github.com/nikbrunner/placemarks/internal/storage"
	"github.com/nikbrunner/placemarks/internal/tui"
)

// runTUI runs the interactive browser. The Manager lives on the bubbletea
// event loop; the Store and the import dir watcher post to it through
// tui.Loop.
func runTUI(cmd *cobra.Command, args []string) error {
	logFile, err := logging.OpenFile(cfg.LogFile())
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger = logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: logFile})

	store, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	eng := engine.New(engine.Params{
		Storage:  store,
		ShareDir: cfg.ShareDir,
		Workers:  cfg.LoadWorkers,
		Logger:   logger,
	})
	defer eng.Wait()

	loop := tui.NewLoop()
	manager := bookmarks.NewManager(bookmarks.ManagerParams{
		Store:  eng,
		Poster: loop,
		Logger: logger,
	})

	var position *model.LatLon
	if cfg.Position.Known {
		position = &model.LatLon{Lat: cfg.Position.Lat, Lon: cfg.Position.Lon}
	}
	app := tui.NewApp(tui.AppParams{
		Manager:  manager,
		Logger:   logger,
		Position: position,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	loop.Attach(p)
	go loop.Run(ctx)

	loop.Post(manager.LoadBookmarks)

	// Files merged before the load finishes are added to the persisted
	// catalog; the engine reads it first.
	watcher, err := eng.WatchDir(cfg.ImportDir)
	if err != nil {
		logger.Warn("import dir not watched", "dir", cfg.ImportDir, "error", err)
	} else {
		go watcher.Run(ctx)
	}

	logger.Info("browser started", "data_dir", cfg.DataDir, "backend", cfg.Backend)
	final, err := p.Run()
	cancel()
	if err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	if finalApp, ok := final.(tui.App); ok {
		finalApp.Close()
	}
	return nil
}
