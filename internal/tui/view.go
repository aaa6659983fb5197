package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/dilutionwise/internal/chart"
	"github.com/mmynk/dilutionwise/internal/report"
)

const barWidth = 48

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render(report.Title))
	b.WriteString("\n")
	b.WriteString(m.formView())

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(m.resultView())
	}

	if m.status != "" {
		st := m.styles.status
		if m.statusErr {
			st = m.styles.statusError
		}
		b.WriteString("\n")
		b.WriteString(st.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) formView() string {
	var rows []string
	for i, f := range m.fields {
		box := m.styles.input
		if i == m.focus {
			box = m.styles.focusedInput
		}
		lines := []string{
			m.styles.label.Render(f.label),
			box.Render(f.input.View()),
		}
		if f.err != "" {
			lines = append(lines, m.styles.fieldError.Render("✗ "+f.err))
		}
		rows = append(rows, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	// Two columns of two fields each.
	left := lipgloss.JoinVertical(lipgloss.Left, rows[0], rows[1])
	right := lipgloss.JoinVertical(lipgloss.Left, rows[2], rows[3])
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().MarginRight(4).Render(left), right)
}

func (m Model) resultView() string {
	r := *m.result

	before := m.card("Before Investment", [][2]string{
		{"Your equity", m.fmt.Percentage(r.EquityPercentage)},
		{"Equity value", m.fmt.Currency(r.EquityValueBeforeDilution)},
		{"Company valuation", m.fmt.Currency(r.CompanyValuation)},
		{"Shares outstanding", m.fmt.Number(r.InitialShares)},
	})
	after := m.card("After Investment", [][2]string{
		{"Your equity", m.fmt.Percentage(r.NewEquityPercentage)},
		{"Equity value", m.fmt.Currency(r.EquityValueAfterDilution)},
		{"Post-money valuation", m.fmt.Currency(r.PostMoneyValuation)},
		{"Shares outstanding", m.fmt.Number(r.TotalSharesAfterDilution)},
		{"New shares issued", m.fmt.Number(r.NewSharesIssued)},
		{"Price per share", m.fmt.Currency(r.PricePerShare)},
	})

	data := chart.FromResult(r)
	bars := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.cardTitle.Render("Ownership"),
		m.styles.muted.Render("Before ")+ownershipBar(data.Before, barWidth),
		m.styles.muted.Render("After  ")+ownershipBar(data.After, barWidth),
		m.legend(data.After),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, before, after),
		"",
		bars,
	)
}

func (m Model) card(title string, rows [][2]string) string {
	lines := []string{m.styles.cardTitle.Render(title)}
	for _, row := range rows {
		key := m.styles.cardKey.Render(row[0])
		value := m.styles.cardValue.Render(row[1])
		gap := 34 - lipgloss.Width(key) - lipgloss.Width(value)
		if gap < 1 {
			gap = 1
		}
		lines = append(lines, key+strings.Repeat(" ", gap)+value)
	}
	return m.styles.card.Render(strings.Join(lines, "\n"))
}

func (m Model) legend(slices []chart.Slice) string {
	parts := make([]string, len(slices))
	for i, s := range slices {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("■")
		parts[i] = swatch + " " + m.styles.muted.Render(s.Name+" "+m.fmt.Percentage(s.Value))
	}
	return "       " + strings.Join(parts, "  ")
}

// ownershipBar draws slices as coloured segments whose widths are
// proportional to their share of the pie.
func ownershipBar(slices []chart.Slice, width int) string {
	widths := segmentWidths(slices, width)
	var b strings.Builder
	for i, s := range slices {
		if widths[i] == 0 {
			continue
		}
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Color)).
			Render(strings.Repeat("█", widths[i])))
	}
	return b.String()
}

// segmentWidths splits width cells across slices by value using largest
// remainders, so the segments always fill the bar exactly.
func segmentWidths(slices []chart.Slice, width int) []int {
	widths := make([]int, len(slices))
	total := chart.Total(slices)
	if total <= 0 || width <= 0 {
		return widths
	}

	remainders := make([]float64, len(slices))
	used := 0
	for i, s := range slices {
		exact := s.Value / total * float64(width)
		widths[i] = int(math.Floor(exact))
		remainders[i] = exact - float64(widths[i])
		used += widths[i]
	}

	for ; used < width; used++ {
		best := 0
		for i := range remainders {
			if remainders[i] > remainders[best] {
				best = i
			}
		}
		widths[best]++
		remainders[best] = -1
	}
	return widths
}
