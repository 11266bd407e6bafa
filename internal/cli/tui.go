package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/notationkit/stave/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SystemListModel - Interactive layout browsing
// =============================================================================

// SystemListModel is the bubbletea model for browsing the systems of a
// computed layout.
type SystemListModel struct {
	Layout     *layout.GlobalLayout
	Cursor     int
	Height     int
	Offset     int
	ShowDetail bool
}

// NewSystemListModel creates a new system list model.
func NewSystemListModel(l *layout.GlobalLayout) SystemListModel {
	return SystemListModel{
		Layout: l,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m SystemListModel) Init() tea.Cmd {
	return nil
}

func (m SystemListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.ShowDetail {
				m.ShowDetail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Layout.Systems)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.ShowDetail = !m.ShowDetail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SystemListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout Systems"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ detail  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Layout.Systems) {
		end = len(m.Layout.Systems)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		sys := m.Layout.Systems[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		measure := "—"
		if sys.MeasureNumber != nil {
			measure = fmt.Sprintf("%d", sys.MeasureNumber.Number)
		}

		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", sys.Index+1),
			measure,
			fmt.Sprintf("%d-%d", sys.TickRange.Start, sys.TickRange.End),
			fmt.Sprintf("%.0f×%.0f", sys.BoundingBox.Width, sys.BoundingBox.Height),
			fmt.Sprintf("%d", systemGlyphCount(sys)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "System", "Measure", "Ticks", "Size", "Glyphs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.ShowDetail && m.Cursor < len(m.Layout.Systems) {
		b.WriteString("\n")
		b.WriteString(m.detailView(m.Layout.Systems[m.Cursor]))
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %.0f×%.0f total",
		m.Cursor+1, len(m.Layout.Systems), m.Layout.TotalWidth, m.Layout.TotalHeight)))

	return b.String()
}

// detailView renders the per-staff breakdown of one system.
func (m SystemListModel) detailView(sys layout.System) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("System %d", sys.Index+1)))
	b.WriteString("\n")

	rows := [][]string{}
	for _, group := range sys.StaffGroups {
		for si, staff := range group.Staves {
			glyphs := len(staff.StructuralGlyphs)
			for _, run := range staff.GlyphRuns {
				glyphs += len(run.Glyphs)
			}
			rows = append(rows, []string{
				shortID(group.InstrumentID),
				fmt.Sprintf("%d", si+1),
				fmt.Sprintf("%d", glyphs),
				fmt.Sprintf("%d", len(staff.Stems)),
				fmt.Sprintf("%d", len(staff.Beams)),
				fmt.Sprintf("%d", len(staff.BarLines)),
			})
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Instrument", "Staff", "Glyphs", "Stems", "Beams", "Bars").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// systemGlyphCount counts every positioned glyph in a system.
func systemGlyphCount(sys layout.System) int {
	n := 0
	for _, group := range sys.StaffGroups {
		if group.BracketGlyph != nil {
			n++
		}
		for _, staff := range group.Staves {
			n += len(staff.StructuralGlyphs)
			for _, run := range staff.GlyphRuns {
				n += len(run.Glyphs)
			}
		}
	}
	return n
}

// shortID abbreviates a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
