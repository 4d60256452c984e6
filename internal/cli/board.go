package cli

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

type boardModel struct {
	columns []models.Status
	tasks   map[models.Status][]models.Task

	activeColumn int
	cursor       map[models.Status]int
	width        int
	height       int

	loading bool
	err     error
}

// boardLoadedMsg carries freshly loaded tasks back to the model.
type boardLoadedMsg struct {
	tasks map[models.Status][]models.Task
}

// boardMutatedMsg signals a store mutation finished; the board reloads.
type boardMutatedMsg struct {
	err error
}

var (
	boardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	columnStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeColumnStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62"))

	selectedCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62"))

	priorityCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	priorityHigh     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	priorityMedium   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	priorityLow      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	boardHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newBoardModel(columns []models.Status) boardModel {
	return boardModel{
		columns: columns,
		tasks:   make(map[models.Status][]models.Task),
		cursor:  make(map[models.Status]int),
		loading: true,
	}
}

func loadBoard() tea.Msg {
	byStatus := make(map[models.Status][]models.Task)
	for _, t := range Tasks.GetAll() {
		if t.Archived {
			continue
		}
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}
	for status := range byStatus {
		group := byStatus[status]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Order < group[j].Order })
	}
	return boardLoadedMsg{tasks: byStatus}
}

func (m boardModel) Init() tea.Cmd {
	return loadBoard
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			if m.activeColumn > 0 {
				m.activeColumn--
			}
			return m, nil
		case "right", "l":
			if m.activeColumn < len(m.columns)-1 {
				m.activeColumn++
			}
			return m, nil
		case "up", "k":
			col := m.columns[m.activeColumn]
			if m.cursor[col] > 0 {
				m.cursor[col]--
			}
			return m, nil
		case "down", "j":
			col := m.columns[m.activeColumn]
			if m.cursor[col] < len(m.tasks[col])-1 {
				m.cursor[col]++
			}
			return m, nil
		case "m":
			return m, m.moveSelected(1)
		case "M":
			return m, m.moveSelected(-1)
		case "x":
			return m, m.archiveSelected()
		case "r":
			m.loading = true
			return m, loadBoard
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		m.tasks = msg.tasks
		for _, col := range m.columns {
			if m.cursor[col] >= len(m.tasks[col]) {
				m.cursor[col] = max(0, len(m.tasks[col])-1)
			}
		}
		return m, nil

	case boardMutatedMsg:
		m.err = msg.err
		return m, loadBoard
	}

	return m, nil
}

// selectedTask returns the task under the cursor, if any.
func (m boardModel) selectedTask() *models.Task {
	col := m.columns[m.activeColumn]
	group := m.tasks[col]
	idx := m.cursor[col]
	if idx < 0 || idx >= len(group) {
		return nil
	}
	return &group[idx]
}

// moveSelected shifts the selected task delta columns to the right.
func (m boardModel) moveSelected(delta int) tea.Cmd {
	task := m.selectedTask()
	if task == nil {
		return nil
	}
	target := m.activeColumn + delta
	if target < 0 || target >= len(m.columns) {
		return nil
	}
	status := m.columns[target]
	id := task.ID
	return func() tea.Msg {
		_, err := Tasks.Update(id, models.TaskUpdate{Status: &status})
		return boardMutatedMsg{err: err}
	}
}

func (m boardModel) archiveSelected() tea.Cmd {
	task := m.selectedTask()
	if task == nil {
		return nil
	}
	id := task.ID
	return func() tea.Msg {
		_, err := Tasks.Archive(id)
		return boardMutatedMsg{err: err}
	}
}

func (m boardModel) View() string {
	if m.loading {
		return "Loading board..."
	}

	title := boardTitleStyle.Render("Boardly")

	columnWidth := 28
	if m.width > 0 {
		if w := m.width/len(m.columns) - 4; w > 16 {
			columnWidth = w
		}
	}

	rendered := make([]string, 0, len(m.columns))
	for i, col := range m.columns {
		rendered = append(rendered, m.renderColumn(i, col, columnWidth))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	help := boardHelpStyle.Render("←/→ column · ↑/↓ task · m/M move · x archive · r reload · q quit")

	out := title + "\n\n" + board + "\n" + help
	if m.err != nil {
		out += "\n" + priorityCritical.Render(fmt.Sprintf("error: %v", m.err))
	}
	return out
}

func (m boardModel) renderColumn(index int, col models.Status, width int) string {
	group := m.tasks[col]

	header := columnHeaderStyle.Render(fmt.Sprintf("%s (%d)", col, len(group)))
	lines := []string{header}

	for i, t := range group {
		label := fmt.Sprintf("%s %s", priorityGlyph(t.Priority), t.DisplayName())
		label = truncate(label, width)
		if index == m.activeColumn && i == m.cursor[col] {
			label = selectedCardStyle.Render(label)
		}
		lines = append(lines, label)
	}
	if len(group) == 0 {
		lines = append(lines, boardHelpStyle.Render("empty"))
	}

	style := columnStyle
	if index == m.activeColumn {
		style = activeColumnStyle
	}
	return style.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func priorityGlyph(p models.Priority) string {
	switch p {
	case models.PriorityCritical:
		return priorityCritical.Render("!!")
	case models.PriorityHigh:
		return priorityHigh.Render("!")
	case models.PriorityMedium:
		return priorityMedium.Render("·")
	default:
		return priorityLow.Render("·")
	}
}

func truncate(s string, width int) string {
	if width <= 1 || len(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive kanban board",
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}
		p := tea.NewProgram(newBoardModel(Cfg.Columns), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running board: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
