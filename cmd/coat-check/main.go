package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/coat-terminal/internal/app"
	"github.com/ngmaloney/coat-terminal/internal/config"
	"github.com/ngmaloney/coat-terminal/internal/geocoding"
	"github.com/ngmaloney/coat-terminal/internal/logging"
	"github.com/ngmaloney/coat-terminal/internal/models"
	"github.com/ngmaloney/coat-terminal/internal/service"
	"github.com/ngmaloney/coat-terminal/internal/ui"
)

func main() {
	lat := flag.String("lat", "", "Latitude to check (requires --lon)")
	lon := flag.String("lon", "", "Longitude to check (requires --lat)")
	place := flag.String("place", "", "Place name or address to check (e.g. \"Oslo\")")
	flag.Parse()

	os.Exit(run(*lat, *lon, *place))
}

func run(lat, lon, place string) int {
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)

	pos, err := app.ParsePosition(lat, lon)
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Error: "+err.Error()))
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Error loading configuration: "+err.Error()))
		return 2
	}
	logger := logging.New(cfg, os.Stderr, "coat-check")

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return 1
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, ui.DefaultCheckTimeout)
	defer cancel()

	var report *models.Report
	switch {
	case pos != nil:
		report, err = a.Advisor.Check(ctx, *pos)
	case place != "":
		var loc *geocoding.Location
		loc, err = geocoding.Resolve(ctx, a.Searcher, place)
		if err != nil {
			err = fmt.Errorf("%w: searching %q: %w", service.ErrLocationUnavailable, place, err)
			break
		}
		report, err = a.Advisor.Check(ctx, loc.Position())
	default:
		report, err = a.Advisor.CheckHere(ctx)
	}

	if err != nil {
		logger.Debug("check failed", "error", err)
		fmt.Fprintln(os.Stderr, errStyle.Render("✗ "+service.UserMessage(err)))
		return 1
	}

	fmt.Println(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#4A90E2")).
		Padding(1, 2).
		Render(ui.RenderReport(report)))
	return 0
}
