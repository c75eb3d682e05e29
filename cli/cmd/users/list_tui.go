package users

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/api"
	"github.com/usersystem/usersys/cli/cmd"
	"github.com/usersystem/usersys/cli/tui/components"
	"github.com/usersystem/usersys/cli/tui/models"
	"github.com/usersystem/usersys/pkg/logger"
)

// listTUI handles user listing in TUI mode: an interactive table with
// delete, enable/disable and refresh bound to keys.
func listTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	filter, err := cobraCmd.Flags().GetString("filter")
	if err != nil {
		return fmt.Errorf("failed to get filter flag: %w", err)
	}
	log.Debug("listing users in TUI mode", "filter", filter)
	m := newListModel(ctx, executor.Client(), executor.Toaster(), filter)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if model, ok := finalModel.(*listModel); ok && model.Error() != nil {
		return model.Error()
	}
	return nil
}

type listState int

const (
	stateLoading listState = iota
	stateBrowsing
	stateConfirmDelete
	stateConfirmToggle
	stateMutating
)

type usersLoadedMsg struct{ users []api.User }
type userDeletedMsg struct{ id int64 }
type userToggledMsg struct{ user *api.User }
type errMsg struct{ err error }

type userClient interface {
	ListUsers(ctx context.Context) ([]api.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ToggleUserStatus(ctx context.Context, id int64) (*api.User, error)
}

// listModel is the TUI model for the user management screen.
type listModel struct {
	models.BaseModel
	client   userClient
	toaster  *components.Toaster
	filter   string
	users    []api.User
	table    table.Model
	state    listState
	targetID int64
	spinner  spinner.Model
	toasts   []components.Toast
}

func newListModel(ctx context.Context, client userClient, toaster *components.Toaster, filter string) *listModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	return &listModel{
		BaseModel: models.NewBaseModel(ctx, models.ModeTUI),
		client:    client,
		toaster:   toaster,
		filter:    filter,
		state:     stateLoading,
		spinner:   s,
	}
}

func (m *listModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadUsers())
}

func (m *listModel) loadUsers() tea.Cmd {
	return func() tea.Msg {
		list, err := m.client.ListUsers(m.Context())
		if err != nil {
			return errMsg{err}
		}
		return usersLoadedMsg{users: filterUsers(list, m.filter)}
	}
}

func (m *listModel) deleteUser(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.DeleteUser(m.Context(), id); err != nil {
			return errMsg{err}
		}
		return userDeletedMsg{id: id}
	}
}

func (m *listModel) toggleUser(id int64) tea.Cmd {
	return func() tea.Msg {
		user, err := m.client.ToggleUserStatus(m.Context(), id)
		if err != nil {
			return errMsg{err}
		}
		return userToggledMsg{user: user}
	}
}

func (m *listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		if m.state != stateLoading {
			m.rebuildTable()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case usersLoadedMsg:
		m.users = msg.users
		m.state = stateBrowsing
		m.rebuildTable()
		return m, nil
	case userDeletedMsg:
		m.state = stateLoading
		m.drainToasts()
		return m, tea.Batch(m.spinner.Tick, m.loadUsers())
	case userToggledMsg:
		// Apply the record the backend returned instead of guessing the
		// resulting state locally.
		for i := range m.users {
			if m.users[i].ID == msg.user.ID {
				m.users[i] = *msg.user
			}
		}
		m.state = stateBrowsing
		m.drainToasts()
		m.rebuildTable()
		return m, nil
	case errMsg:
		m.drainToasts()
		// Notifications already describe the failure; keep browsing
		// unless nothing loaded yet.
		if m.state == stateLoading {
			m.SetError(msg.err)
			return m, tea.Quit
		}
		m.state = stateBrowsing
		return m, nil
	case spinner.TickMsg:
		if m.state == stateLoading || m.state == stateMutating {
			var tick tea.Cmd
			m.spinner, tick = m.spinner.Update(msg)
			return m, tick
		}
	}
	return m, nil
}

func (m *listModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateBrowsing:
		return m.handleBrowsingInput(msg)
	case stateConfirmDelete, stateConfirmToggle:
		return m.handleConfirmInput(msg)
	}
	return m, nil
}

func (m *listModel) handleBrowsingInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		m.state = stateLoading
		return m, tea.Batch(m.spinner.Tick, m.loadUsers())
	case "d":
		if id, ok := components.SelectedUserID(m.table); ok {
			m.targetID = id
			m.state = stateConfirmDelete
		}
		return m, nil
	case "t":
		if id, ok := components.SelectedUserID(m.table); ok {
			m.targetID = id
			m.state = stateConfirmToggle
		}
		return m, nil
	}
	var tableCmd tea.Cmd
	m.table, tableCmd = m.table.Update(msg)
	return m, tableCmd
}

func (m *listModel) handleConfirmInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "s":
		confirmed := m.state
		m.state = stateMutating
		if confirmed == stateConfirmDelete {
			return m, tea.Batch(m.spinner.Tick, m.deleteUser(m.targetID))
		}
		return m, tea.Batch(m.spinner.Tick, m.toggleUser(m.targetID))
	case "n", "esc":
		m.state = stateBrowsing
		return m, nil
	}
	return m, nil
}

func (m *listModel) rebuildTable() {
	width, height := m.Size()
	m.table = components.NewUserTable(m.users, width, height)
}

func (m *listModel) drainToasts() {
	if m.toaster == nil {
		return
	}
	m.toasts = append(m.toasts, m.toaster.Drain()...)
	const maxVisibleToasts = 3
	if len(m.toasts) > maxVisibleToasts {
		m.toasts = m.toasts[len(m.toasts)-maxVisibleToasts:]
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m *listModel) View() string {
	switch m.state {
	case stateLoading:
		return fmt.Sprintf("\n %s Cargando usuarios...\n", m.spinner.View())
	case stateMutating:
		return fmt.Sprintf("\n %s Aplicando cambios...\n", m.spinner.View())
	case stateConfirmDelete:
		return m.confirmView(fmt.Sprintf("¿Seguro que quieres eliminar al usuario %d?", m.targetID))
	case stateConfirmToggle:
		return m.confirmView(fmt.Sprintf("¿Cambiar el estado del usuario %d?", m.targetID))
	}
	view := titleStyle.Render("Gestión de Usuarios") + "\n\n"
	view += m.table.View() + "\n"
	for _, toast := range m.toasts {
		view += toast.Render() + "\n"
	}
	view += helpStyle.Render("↑/↓ navegar · d eliminar · t activar/desactivar · r recargar · q salir")
	return view
}

func (m *listModel) confirmView(question string) string {
	prompt := lipgloss.NewStyle().Bold(true).Render(question)
	return fmt.Sprintf("\n%s\n\n%s\n", prompt, helpStyle.Render("s/y confirmar · n/esc cancelar"))
}
