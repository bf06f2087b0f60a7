package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unklstewy/flightlog/pkg/airports"
	"github.com/unklstewy/flightlog/pkg/flights"
)

// pickerStep is the field the picker is currently asking for.
type pickerStep int

const (
	stepOrigin pickerStep = iota
	stepDestination
	stepDate
	stepDone
)

// maxVisible is how many search results the picker lists at once.
const maxVisible = 10

// pickerModel walks the user through origin, destination and date for
// add -i, searching the catalog as they type.
type pickerModel struct {
	catalog *airports.Catalog
	today   string

	step     pickerStep
	input    string
	results  []airports.Airport
	selected int
	err      error

	origin      airports.Airport
	destination airports.Airport
	date        string
	cancelled   bool
}

func newPickerModel(catalog *airports.Catalog, now time.Time) pickerModel {
	return pickerModel{
		catalog: catalog,
		today:   now.Format(flights.DateLayout),
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "up", "ctrl+p":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.selected < min(len(m.results), maxVisible)-1 {
			m.selected++
		}
		return m, nil
	case "backspace":
		if len(m.input) > 0 {
			r := []rune(m.input)
			m.input = string(r[:len(r)-1])
			m.refresh()
		}
		return m, nil
	case "enter":
		return m.submit()
	}

	switch key.Type {
	case tea.KeyRunes:
		m.input += string(key.Runes)
		m.refresh()
	case tea.KeySpace:
		m.input += " "
		m.refresh()
	}
	return m, nil
}

// refresh reruns the search for the airport steps.
func (m *pickerModel) refresh() {
	m.err = nil
	m.selected = 0
	if m.step == stepOrigin || m.step == stepDestination {
		m.results = m.catalog.Search(m.input)
	}
}

func (m pickerModel) submit() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepOrigin, stepDestination:
		if len(m.results) == 0 {
			m.err = fmt.Errorf("no airport matches %q", m.input)
			return m, nil
		}
		picked := m.results[m.selected]
		if m.step == stepOrigin {
			m.origin = picked
			m.step = stepDestination
		} else {
			if picked.Code == m.origin.Code {
				m.err = fmt.Errorf("destination must differ from origin")
				return m, nil
			}
			m.destination = picked
			m.step = stepDate
		}
		m.input = ""
		m.results = nil
		m.selected = 0
		return m, nil

	case stepDate:
		date := strings.TrimSpace(m.input)
		if date == "" {
			date = m.today
		}
		if _, err := flights.ParseDate(date); err != nil {
			m.err = err
			return m, nil
		}
		m.date = date
		m.step = stepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.step == stepDone || m.cancelled {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("ADD FLIGHT"))
	s.WriteString("\n\n")

	if m.step > stepOrigin {
		s.WriteString(labelStyle.Render("From: "))
		s.WriteString(m.origin.String())
		s.WriteString("\n")
	}
	if m.step > stepDestination {
		s.WriteString(labelStyle.Render("To:   "))
		s.WriteString(m.destination.String())
		s.WriteString("\n")
	}
	if m.step > stepOrigin {
		s.WriteString("\n")
	}

	switch m.step {
	case stepOrigin:
		s.WriteString(promptStyle.Render("Origin airport (code, city or name):"))
	case stepDestination:
		s.WriteString(promptStyle.Render("Destination airport (code, city or name):"))
	case stepDate:
		s.WriteString(promptStyle.Render(fmt.Sprintf("Date YYYY-MM-DD (empty for %s):", m.today)))
	}
	s.WriteString("\n")
	s.WriteString(inputStyle.Render("> " + m.input + "_"))
	s.WriteString("\n\n")

	if m.step != stepDate {
		for i, a := range m.results {
			if i >= maxVisible {
				s.WriteString(helpStyle.Render(fmt.Sprintf("  … %d more", len(m.results)-maxVisible)))
				s.WriteString("\n")
				break
			}
			line := fmt.Sprintf("%s  %s, %s", a.Code, a.Name, a.Country)
			if i == m.selected {
				s.WriteString(selStyle.Render("▸ " + line))
			} else {
				s.WriteString("  " + line)
			}
			s.WriteString("\n")
		}
		if len(m.input) > 0 && len(m.input) < airports.MinQueryLength {
			s.WriteString(helpStyle.Render("Keep typing…"))
			s.WriteString("\n")
		}
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: Select  ENTER: Confirm  ESC: Cancel"))
	s.WriteString("\n")
	return s.String()
}
