package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asanagraph/asana-deps-graph/pkg/asana"
	"github.com/asanagraph/asana-deps-graph/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickProject resolves a project interactively when no project_id was
// given: pick a workspace (unless configured or unambiguous), then pick
// one of its projects.
func (c *CLI) pickProject(ctx context.Context, client *asana.Client, workspaceGID string) (string, error) {
	if workspaceGID == "" {
		workspaces, err := client.Workspaces(ctx)
		if err != nil {
			return "", err
		}
		switch len(workspaces) {
		case 0:
			return "", errors.New(errors.ErrCodeNotFound, "token has no visible workspaces")
		case 1:
			workspaceGID = workspaces[0].GID
		default:
			items := make([]pickerItem, len(workspaces))
			for i, w := range workspaces {
				items[i] = pickerItem{GID: w.GID, Name: w.Name}
			}
			workspaceGID, err = runPicker("Select a workspace", items)
			if err != nil {
				return "", err
			}
		}
	}

	projects, err := client.Projects(ctx, workspaceGID)
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return "", errors.New(errors.ErrCodeNotFound, "workspace %s has no projects", workspaceGID)
	}

	items := make([]pickerItem, len(projects))
	for i, p := range projects {
		items[i] = pickerItem{GID: p.GID, Name: p.Name}
	}
	return runPicker("Select a project", items)
}

// =============================================================================
// ListModel - Interactive selection
// =============================================================================

// pickerItem is one selectable entry.
type pickerItem struct {
	GID  string
	Name string
}

// listModel is the bubbletea model for interactive selection.
type listModel struct {
	Title    string
	Items    []pickerItem
	Cursor   int
	Selected *pickerItem
	Height   int
	Offset   int
}

func newListModel(title string, items []pickerItem) listModel {
	return listModel{
		Title:  title,
		Items:  items,
		Height: 15,
	}
}

func (m listModel) Init() tea.Cmd {
	return nil
}

func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			item := m.Items[m.Cursor]
			m.Selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m listModel) View() string {
	var b []byte
	b = append(b, StyleTitle.Render(m.Title)...)
	b = append(b, '\n', '\n')

	end := min(m.Offset+m.Height, len(m.Items))
	for i := m.Offset; i < end; i++ {
		item := m.Items[i]
		line := fmt.Sprintf("%s %s", item.Name, listDimStyle.Render(item.GID))
		if i == m.Cursor {
			b = append(b, listSelectedStyle.Render("> "+line)...)
		} else {
			b = append(b, listNormalStyle.Render("  "+line)...)
		}
		b = append(b, '\n')
	}

	b = append(b, '\n')
	b = append(b, listDimStyle.Render("↑/↓ move · enter select · q quit")...)
	b = append(b, '\n')
	return string(b)
}

// runPicker shows the list on stderr (stdout stays clean for graph
// output) and returns the selected GID.
func runPicker(title string, items []pickerItem) (string, error) {
	prog := tea.NewProgram(newListModel(title, items), tea.WithOutput(os.Stderr))
	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("run picker: %w", err)
	}

	m, ok := final.(listModel)
	if !ok || m.Selected == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "selection cancelled")
	}
	return m.Selected.GID, nil
}
