package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canvaskit/pkg/service"
	"github.com/matzehuels/canvaskit/pkg/store"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CanvasListModel - Interactive canvas selection
// =============================================================================

// CanvasListModel is the bubbletea model for interactive canvas selection.
type CanvasListModel struct {
	Canvases []store.Summary
	Cursor   int
	Selected *store.Summary
	Height   int
	Offset   int
	Filter   string
	filtered []int
}

// NewCanvasListModel creates a new canvas list model.
func NewCanvasListModel(canvases []store.Summary) CanvasListModel {
	m := CanvasListModel{Canvases: canvases, Height: 15}
	m.applyFilter()
	return m
}

func (m CanvasListModel) Init() tea.Cmd {
	return nil
}

func (m CanvasListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.moveCursor(-1)
		case tea.KeyDown:
			m.moveCursor(1)
		case tea.KeyEnter:
			if len(m.filtered) == 0 {
				return m, nil
			}
			sel := m.Canvases[m.filtered[m.Cursor]]
			m.Selected = &sel
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.Filter = string(r[:len(r)-1])
				m.applyFilter()
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m *CanvasListModel) moveCursor(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.filtered) {
		return
	}
	m.Cursor = next
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// applyFilter keeps canvases whose name or id contains the filter text,
// case-insensitively, and resets the cursor.
func (m *CanvasListModel) applyFilter() {
	needle := strings.ToLower(m.Filter)
	m.filtered = nil
	for i, c := range m.Canvases {
		if needle == "" || strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(c.ID, needle) {
			m.filtered = append(m.filtered, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m CanvasListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Canvas"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(StyleHighlight.Render("filter: " + m.Filter))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.filtered))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Canvases[m.filtered[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor, c.Name, c.Kind.String(),
			fmt.Sprint(c.Nodes), formatRelativeTime(c.UpdatedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Canvas", "Type", "Nodes", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.filtered) == 0 {
		b.WriteString(listDimStyle.Render("  no canvas matches"))
	} else {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.filtered))))
	}

	return b.String()
}

// =============================================================================
// Command
// =============================================================================

func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a canvas interactively and show it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				sums, err := svc.List(ctx)
				if err != nil {
					return err
				}
				if len(sums) == 0 {
					printInfo("No canvases yet")
					return nil
				}

				final, err := tea.NewProgram(NewCanvasListModel(sums), tea.WithContext(ctx)).Run()
				if err != nil {
					return err
				}
				sel := final.(CanvasListModel).Selected
				if sel == nil {
					return nil
				}

				doc, err := svc.Get(ctx, sel.ID)
				if err != nil {
					return err
				}
				printDocument(doc)
				printNewline()
				printNextStep("Export it", fmt.Sprintf("canvaskit export %s", doc.ID))
				return nil
			})
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
