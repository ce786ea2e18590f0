package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/architectures/pkg/icons"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// IconListModel - Interactive service selection
// =============================================================================

// IconListModel is the bubbletea model behind "icons browse".
type IconListModel struct {
	Services []icons.Service
	Cursor   int
	Offset   int
	Height   int
	Selected *icons.Service
}

// NewIconListModel creates a picker over services.
func NewIconListModel(services []icons.Service) IconListModel {
	return IconListModel{Services: services, Height: 15}
}

func (m IconListModel) Init() tea.Cmd {
	return nil
}

func (m IconListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Services)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Services); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		case "enter":
			if len(m.Services) == 0 {
				return m, nil
			}
			svc := m.Services[m.Cursor]
			m.Selected = &svc
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-6)
	}
	return m, nil
}

func (m IconListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Service"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Services))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		svc := m.Services[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, svc.Ref(), svc.DefaultLabel()})
	}

	t := iconTable(rows, "", "Service", "Label").StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == -1:
			return styleHeader
		case m.Offset+row == m.Cursor:
			return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
		case col == 2:
			return lipgloss.NewStyle().Foreground(colorGray)
		default:
			return lipgloss.NewStyle()
		}
	})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Services))))

	return b.String()
}

// iconTable returns the bordered service table shared by list and browse.
func iconTable(rows [][]string, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...)
}

// serviceSnippet returns an HCL service block for svc.
func serviceSnippet(svc icons.Service) string {
	name := strings.ReplaceAll(svc.Name(), "-", "_")
	return fmt.Sprintf("service %q {\n  icon = %q\n}\n", name, svc.Ref())
}
