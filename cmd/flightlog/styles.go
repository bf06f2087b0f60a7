package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/unklstewy/flightlog/pkg/stats"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	selStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// renderSummary formats stats for the terminal.
func renderSummary(s stats.Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("FLIGHTLOG"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("Flights", fmt.Sprintf("%d", s.Flights))
	row("Countries", fmt.Sprintf("%d", s.Countries))
	row("Distance", formatKm(s.DistanceKm))
	if s.Flights > 0 {
		// Equatorial circumference
		row("Around", fmt.Sprintf("%.1f× the Earth", s.DistanceKm/40075))
	}
	if s.TopCountry != "" {
		row("Top country", s.TopCountry)
	}
	if s.Longest != nil {
		row("Longest", fmt.Sprintf("%s  %s  %s", s.Longest.Route(), s.Longest.Date, formatKm(s.Longest.Distance)))
	}

	if len(s.ByYear) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("By year"))
		b.WriteString("\n")
		for _, y := range s.ByYear {
			fmt.Fprintf(&b, "  %d  %3d flights  %10s\n", y.Year, y.Flights, formatKm(y.DistanceKm))
		}
	}

	if len(s.CountryCodes) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Visited"))
		b.WriteString("\n  ")
		b.WriteString(strings.Join(s.CountryCodes, " "))
		b.WriteString("\n")
	}

	return b.String()
}
