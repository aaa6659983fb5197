// Package tui is a terminal front end for the dilution calculator.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/dilutionwise/internal/calculator"
	"github.com/mmynk/dilutionwise/internal/format"
	"github.com/mmynk/dilutionwise/internal/report"
)

// field is one labelled form input bound to a calculator input.
type field struct {
	name  string // matches calculator.InvalidInputError.Field
	label string
	input textinput.Model
	err   string
}

// reportSavedMsg reports the outcome of writing a PDF.
type reportSavedMsg struct {
	path string
	err  error
}

// Model is the bubbletea model of the calculator screen.
type Model struct {
	fields []field
	focus  int

	result    *calculator.DilutionResult
	fmt       format.Formatter
	outDir    string
	defaults  calculator.Input
	status    string
	statusErr bool

	keys   KeyMap
	help   help.Model
	styles styles
	width  int
	now    func() time.Time
}

// New creates the calculator screen. Reports are saved to outDir.
func New(f format.Formatter, outDir string, defaults calculator.Input) Model {
	m := Model{
		fmt:      f,
		outDir:   outDir,
		defaults: defaults,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		styles:   defaultStyles(),
		now:      time.Now,
	}

	m.fields = []field{
		newField("initialShares", "Total company shares", "1000000"),
		newField("yourShares", "Your shares", "50000"),
		newField("companyValuation", fmt.Sprintf("Pre-money valuation (%s)", f.Unit().Code), "100000000"),
		newField("investmentAmount", fmt.Sprintf("New investment (%s)", f.Unit().Code), "50000000"),
	}
	m.setValues(defaults)
	m.fields[0].input.Focus()
	return m
}

func newField(name, label, placeholder string) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 24
	ti.CharLimit = 24
	ti.Prompt = ""
	return field{name: name, label: label, input: ti}
}

func (m *Model) setValues(in calculator.Input) {
	for i, v := range []float64{in.InitialShares, in.YourShares, in.CompanyValuation, in.InvestmentAmount} {
		m.fields[i].input.SetValue(strconv.FormatFloat(v, 'f', -1, 64))
		m.fields[i].err = ""
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case reportSavedMsg:
		if msg.err != nil {
			slog.Error("Failed to save report", "error", msg.err)
			m.setStatus("Could not save report: "+msg.err.Error(), true)
		} else {
			slog.Info("Report saved", "path", msg.path)
			m.setStatus("Saved "+msg.path, false)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			return m, m.moveFocus(1)
		case key.Matches(msg, m.keys.Prev):
			return m, m.moveFocus(-1)
		case key.Matches(msg, m.keys.Calculate):
			m.calculate()
			return m, nil
		case key.Matches(msg, m.keys.Save):
			if m.result == nil {
				m.setStatus("Calculate a result before saving", true)
				return m, nil
			}
			return m, m.saveReport(*m.result)
		case key.Matches(msg, m.keys.Reset):
			m.setValues(m.defaults)
			m.result = nil
			m.setStatus("", false)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.fields[m.focus].input.Blur()
	m.focus = (m.focus + delta + len(m.fields)) % len(m.fields)
	return m.fields[m.focus].input.Focus()
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// calculate parses the form, flags every bad field and computes the result
// when all fields are valid.
func (m *Model) calculate() {
	m.result = nil
	m.setStatus("", false)

	values := make([]float64, len(m.fields))
	parsed := true
	for i := range m.fields {
		m.fields[i].err = ""
		v, err := parseNumber(m.fields[i].input.Value())
		if err != nil {
			m.fields[i].err = err.Error()
			parsed = false
			continue
		}
		values[i] = v
	}
	if !parsed {
		return
	}

	in := calculator.Input{
		InitialShares:    values[0],
		YourShares:       values[1],
		CompanyValuation: values[2],
		InvestmentAmount: values[3],
	}
	for _, verr := range calculator.ValidationErrors(in) {
		m.setFieldError(verr)
	}
	if m.hasErrors() {
		return
	}

	result, err := calculator.Calculate(in)
	if err != nil {
		var verr *calculator.InvalidInputError
		if errors.As(err, &verr) {
			m.setFieldError(verr)
		} else {
			m.setStatus(err.Error(), true)
		}
		return
	}
	m.result = &result
}

func (m *Model) setFieldError(verr *calculator.InvalidInputError) {
	for i := range m.fields {
		if m.fields[i].name == verr.Field && m.fields[i].err == "" {
			m.fields[i].err = verr.Reason
		}
	}
}

func (m *Model) hasErrors() bool {
	for _, f := range m.fields {
		if f.err != "" {
			return true
		}
	}
	return false
}

// saveReport renders the PDF off the update loop.
func (m Model) saveReport(result calculator.DilutionResult) tea.Cmd {
	rep := report.New(result, m.fmt, m.now())
	path := filepath.Join(m.outDir, rep.Filename())

	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return reportSavedMsg{err: fmt.Errorf("failed to create %s: %w", path, err)}
		}
		if err := rep.PDF(f); err != nil {
			f.Close()
			return reportSavedMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return reportSavedMsg{err: fmt.Errorf("failed to write %s: %w", path, err)}
		}
		return reportSavedMsg{path: path}
	}
}

var numberCleaner = strings.NewReplacer(",", "", "_", "", " ", "")

// parseNumber accepts grouped input such as 1,00,000 or 1_000_000.
func parseNumber(s string) (float64, error) {
	s = numberCleaner.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, errors.New("is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("must be a number")
	}
	return v, nil
}
