package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/usersystem/usersys/cli/api"
	"github.com/usersystem/usersys/cli/cmd"
	"github.com/usersystem/usersys/cli/guard"
	"github.com/usersystem/usersys/cli/helpers"
	"github.com/usersystem/usersys/cli/session"
	"github.com/usersystem/usersys/cli/tui/components"
	"github.com/usersystem/usersys/cli/tui/models"
	"github.com/usersystem/usersys/pkg/logger"
)

// Cmd returns the interactive dashboard command
func Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive admin console",
		Long:  "Full-screen console with login, user management, reports and profile screens",
		RunE:  runDashboard,
	}
}

func runDashboard(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: dashboardJSON,
		TUI:  dashboardTUI,
	}, args)
}

// dashboardJSON exists only to fail clearly: the dashboard is a
// full-screen program.
func dashboardJSON(_ context.Context, _ *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	return helpers.OutputJSONError("the dashboard requires an interactive terminal; use the subcommands in JSON mode")
}

func dashboardTUI(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	log.Debug("starting dashboard")
	m := newDashboardModel(ctx, executor)
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if model, ok := finalModel.(*dashboardModel); ok && model.Error() != nil {
		return model.Error()
	}
	return nil
}

type screen int

const (
	screenLogin screen = iota
	screenHome
	screenUsers
	screenReports
	screenLogs
	screenProfile
	screenNotFound
)

// screenRoutes maps screens to guard routes so every navigation is
// re-evaluated against the live session.
var screenRoutes = map[screen]string{
	screenHome:    guard.RouteDashboard,
	screenUsers:   guard.RouteUsers,
	screenReports: guard.RouteReports,
	screenLogs:    guard.RouteLogs,
	screenProfile: guard.RouteProfile,
}

type hydratedMsg struct{}
type loggedInMsg struct{ result session.LoginResult }
type dashUsersLoadedMsg struct{ users []api.User }
type exportDoneMsg struct{ count int }
type dashErrMsg struct{ err error }

type dashboardModel struct {
	models.BaseModel
	executor *cmd.CommandExecutor
	screen   screen
	loading  bool
	spinner  spinner.Model

	// login form state
	form      *huh.Form
	email     string
	password  string
	loginBusy bool

	// per-screen data
	users   []api.User
	table   table.Model
	profile *api.Profile

	toasts []components.Toast
}

func newDashboardModel(ctx context.Context, executor *cmd.CommandExecutor) *dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	m := &dashboardModel{
		BaseModel: models.NewBaseModel(ctx, models.ModeTUI),
		executor:  executor,
		screen:    screenLogin,
		loading:   true,
		spinner:   s,
	}
	m.resetLoginForm()
	return m
}

func (m *dashboardModel) resetLoginForm() {
	m.email = ""
	m.password = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&m.email),
			huh.NewInput().Title("Contraseña").EchoMode(huh.EchoModePassword).Value(&m.password),
		),
	)
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.form.Init(), m.hydrate())
}

// hydrate restores a persisted session before showing the login screen.
func (m *dashboardModel) hydrate() tea.Cmd {
	return func() tea.Msg {
		m.executor.Session().Hydrate(m.Context())
		return hydratedMsg{}
	}
}

func (m *dashboardModel) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		result := m.executor.Session().Login(m.Context(), email, password)
		return loggedInMsg{result: result}
	}
}

func (m *dashboardModel) loadUsers() tea.Cmd {
	return func() tea.Msg {
		list, err := m.executor.Client().ListUsers(m.Context())
		if err != nil {
			return dashErrMsg{err}
		}
		return dashUsersLoadedMsg{users: list}
	}
}

func (m *dashboardModel) exportUsers() tea.Cmd {
	return func() tea.Msg {
		count, err := exportUsersCSV(m.Context(), m.executor.Client())
		if err != nil {
			return dashErrMsg{err}
		}
		return exportDoneMsg{count: count}
	}
}

// navigate re-evaluates the guard for the target screen. Navigation is
// never trusted: the session may have expired since the last keypress.
func (m *dashboardModel) navigate(target screen) tea.Cmd {
	route, known := screenRoutes[target]
	if !known {
		m.screen = screenNotFound
		return nil
	}
	snapshot := m.executor.Session().Snapshot()
	switch guard.Evaluate(guard.DefaultPolicy(), route, snapshot.Token, snapshot.Role) {
	case guard.RedirectLogin:
		m.screen = screenLogin
		m.resetLoginForm()
		return m.form.Init()
	case guard.RedirectDashboard:
		m.pushToast(components.Toast{
			Level:   components.ToastWarn,
			Message: "No tienes permiso para acceder a esta sección.",
		})
		m.screen = screenHome
		return nil
	}
	m.screen = target
	switch target {
	case screenUsers, screenReports:
		m.loading = true
		return tea.Batch(m.spinner.Tick, m.loadUsers())
	case screenProfile:
		m.profile = m.executor.Session().Snapshot().User
	}
	return nil
}

func (m *dashboardModel) rebuildTable() {
	width, height := m.Size()
	m.table = components.NewUserTable(m.users, width, height)
}

func (m *dashboardModel) pushToast(t components.Toast) {
	m.toasts = append(m.toasts, t)
	const maxVisibleToasts = 3
	if len(m.toasts) > maxVisibleToasts {
		m.toasts = m.toasts[len(m.toasts)-maxVisibleToasts:]
	}
}

func (m *dashboardModel) drainToasts() {
	for _, t := range m.executor.Toaster().Drain() {
		m.pushToast(t)
	}
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		if m.screen == screenUsers {
			m.rebuildTable()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKeyMsg(msg)
	case hydratedMsg:
		m.loading = false
		if m.executor.Session().Snapshot().IsAuthenticated() {
			return m, m.navigate(screenHome)
		}
		return m, nil
	case loggedInMsg:
		m.loginBusy = false
		m.drainToasts()
		if !msg.result.Success {
			m.pushToast(components.Toast{Level: components.ToastError, Message: msg.result.Message})
			m.resetLoginForm()
			return m, m.form.Init()
		}
		return m, m.navigate(screenHome)
	case dashUsersLoadedMsg:
		m.loading = false
		m.users = msg.users
		m.drainToasts()
		if m.screen == screenUsers {
			m.rebuildTable()
		}
		return m, nil
	case exportDoneMsg:
		m.loading = false
		m.pushToast(components.Toast{
			Level:   components.ToastWarn,
			Message: fmt.Sprintf("Exportados %d usuarios a reporte_usuarios.csv", msg.count),
		})
		return m, nil
	case dashErrMsg:
		m.loading = false
		m.drainToasts()
		// A rejected session already emptied the store through the
		// client hooks; all that is left is showing the login screen.
		if errors.Is(msg.err, api.ErrUnauthorized) {
			m.screen = screenLogin
			m.resetLoginForm()
			return m, m.form.Init()
		}
		return m, nil
	case spinner.TickMsg:
		if m.loading || m.loginBusy {
			var tick tea.Cmd
			m.spinner, tick = m.spinner.Update(msg)
			return m, tick
		}
		return m, nil
	}
	if m.screen == screenLogin {
		return m.updateLoginForm(msg)
	}
	return m, nil
}

func (m *dashboardModel) updateLoginForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, formCmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted && !m.loginBusy {
		m.loginBusy = true
		return m, tea.Batch(m.spinner.Tick, m.login(m.email, m.password))
	}
	return m, formCmd
}

func (m *dashboardModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screen == screenLogin {
		return m.updateLoginForm(msg)
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "h", "esc":
		return m, m.navigate(screenHome)
	case "u":
		return m, m.navigate(screenUsers)
	case "r":
		return m, m.navigate(screenReports)
	case "l":
		return m, m.navigate(screenLogs)
	case "p":
		return m, m.navigate(screenProfile)
	case "x":
		m.executor.Session().Logout(m.Context())
		m.screen = screenLogin
		m.resetLoginForm()
		return m, m.form.Init()
	case "e":
		if m.screen == screenReports {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.exportUsers())
		}
	}
	if m.screen == screenUsers && !m.loading {
		var tableCmd tea.Cmd
		m.table, tableCmd = m.table.Update(msg)
		return m, tableCmd
	}
	return m, nil
}
