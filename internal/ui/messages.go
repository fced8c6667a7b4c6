package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/coat-terminal/internal/geocoding"
	"github.com/ngmaloney/coat-terminal/internal/models"
	"github.com/ngmaloney/coat-terminal/internal/service"
)

// Checker produces coat reports. *service.Advisor implements it.
type Checker interface {
	Check(ctx context.Context, pos models.Position) (*models.Report, error)
	CheckHere(ctx context.Context) (*models.Report, error)
}

// reportMsg is sent when a check finishes. id identifies the trigger that
// started it; only the latest trigger's result is shown.
type reportMsg struct {
	id     int
	report *models.Report
	err    error
}

// checkHere locates the device and checks its position in the background
func checkHere(ctx context.Context, cancel context.CancelFunc, checker Checker, id int) tea.Cmd {
	return func() tea.Msg {
		defer cancel()

		report, err := checker.CheckHere(ctx)
		return reportMsg{id: id, report: report, err: err}
	}
}

// checkPosition checks a known position in the background
func checkPosition(ctx context.Context, cancel context.CancelFunc, checker Checker, id int, pos models.Position) tea.Cmd {
	return func() tea.Msg {
		defer cancel()

		report, err := checker.Check(ctx, pos)
		return reportMsg{id: id, report: report, err: err}
	}
}

// searchAndCheck resolves a query to a position and checks it
func searchAndCheck(ctx context.Context, cancel context.CancelFunc, checker Checker, searcher geocoding.Searcher, id int, query string) tea.Cmd {
	return func() tea.Msg {
		defer cancel()

		loc, err := geocoding.Resolve(ctx, searcher, query)
		if err != nil {
			return reportMsg{id: id, err: fmt.Errorf("%w: searching %q: %w", service.ErrLocationUnavailable, query, err)}
		}

		report, err := checker.Check(ctx, loc.Position())
		return reportMsg{id: id, report: report, err: err}
	}
}
