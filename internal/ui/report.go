package ui

import (
	"fmt"
	"strings"

	"github.com/ngmaloney/coat-terminal/internal/models"
)

// RenderReport renders a coat report without borders or width constraints.
// It is shared by the TUI and the one-shot CLI.
func RenderReport(r *models.Report) string {
	if r == nil {
		return mutedStyle.Render("No weather data available")
	}

	w := r.Weather
	var lines []string

	if r.Decision.TakeCoat {
		lines = append(lines, coatStyle.Render("🧥 "+r.Decision.Headline()))
	} else {
		lines = append(lines, noCoatStyle.Render("☀ "+r.Decision.Headline()))
	}
	lines = append(lines, titleStyle.Render("📍 "+r.Place.Name), "")

	lines = append(lines,
		field("Temperature", fmt.Sprintf("%d°C", w.Temperature)),
		field("Feels like", fmt.Sprintf("%d°C", w.PerceivedTemperature)),
		field("Wind", fmt.Sprintf("%d km/h", w.WindSpeed)),
		field("Humidity", fmt.Sprintf("%d%%", w.Humidity)),
		field("Rain", yesNo(w.IsRainy)),
		field("Time", formatHour(w.Hour)),
	)

	if len(r.Decision.Reasons) > 0 {
		lines = append(lines, "", labelStyle.Render("Why:"))
		for _, reason := range r.Decision.Reasons {
			lines = append(lines, "  • "+reason.Message())
		}
	}

	if !r.ObservedAt.IsZero() {
		lines = append(lines, "", mutedStyle.Render("Updated "+r.ObservedAt.Format("3:04 PM")))
	}

	return strings.Join(lines, "\n")
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-12s", label+":")) + " " + valueStyle.Render(value)
}

func formatHour(hour int) string {
	s := fmt.Sprintf("%02d:00", hour)
	if models.IsNightHour(hour) {
		s += " (night)"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
