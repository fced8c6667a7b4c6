package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/coat-terminal/internal/app"
	"github.com/ngmaloney/coat-terminal/internal/config"
	"github.com/ngmaloney/coat-terminal/internal/logging"
	"github.com/ngmaloney/coat-terminal/internal/ui"
)

func main() {
	lat := flag.String("lat", "", "Latitude to check on startup (requires --lon)")
	lon := flag.String("lon", "", "Longitude to check on startup (requires --lat)")
	here := flag.Bool("here", false, "Check your current location on startup")
	flag.Parse()

	os.Exit(run(*lat, *lon, *here))
}

// run returns the process exit code so deferred cleanup happens before exit.
func run(lat, lon string, here bool) int {
	pos, err := app.ParsePosition(lat, lon)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		return 1
	}

	// The TUI owns the terminal, so logs go to a file.
	logOut, closeLog := logging.FileOrDiscard(cfg.LogFile, os.Stderr)
	defer closeLog()
	logger := logging.New(cfg, logOut, "coat-terminal")

	a, err := app.New(cfg, logger)
	if err != nil {
		fmt.Printf("Error starting application: %v\n", err)
		return 1
	}
	defer a.Close()

	if cfg.MetricsAddr != "" {
		srv := a.MetricsServer(cfg.MetricsAddr)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx) //nolint:errcheck
		}()
	}

	model := ui.NewModel(a.Advisor, a.Searcher, 0)
	switch {
	case pos != nil:
		model = model.StartAt(*pos)
	case here:
		model = model.StartHere()
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", "error", err)
		fmt.Printf("Error running application: %v\n", err)
		return 1
	}
	return 0
}
