package dashboard

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/usersystem/usersys/cli/api"
	"github.com/usersystem/usersys/cli/cmd/users"
	"github.com/usersystem/usersys/cli/session"
)

const exportFileName = "reporte_usuarios.csv"

// exportUsersCSV fetches the listing and writes the report next to the
// working directory, mirroring the export subcommand's default.
func exportUsersCSV(ctx context.Context, client *api.Client) (int, error) {
	list, err := client.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	f, err := os.Create(exportFileName)
	if err != nil {
		return 0, fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	if err := users.WriteUsersCSV(f, list); err != nil {
		return 0, err
	}
	return len(list), nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
	menuStyle  = lipgloss.NewStyle().Padding(1, 2)
)

func (m *dashboardModel) View() string {
	var body string
	switch m.screen {
	case screenLogin:
		body = m.loginView()
	case screenHome:
		body = m.homeView()
	case screenUsers:
		body = m.usersView()
	case screenReports:
		body = m.reportsView()
	case screenLogs:
		body = m.placeholderView("Registro de Actividad")
	case screenProfile:
		body = m.profileView()
	default:
		body = m.placeholderView("Página no encontrada")
	}
	for _, toast := range m.toasts {
		body += "\n" + toast.Render()
	}
	return body
}

func (m *dashboardModel) loginView() string {
	if m.loading {
		return fmt.Sprintf("\n %s Restaurando sesión...\n", m.spinner.View())
	}
	if m.loginBusy {
		return fmt.Sprintf("\n %s Iniciando sesión...\n", m.spinner.View())
	}
	return titleStyle.Render("Iniciar Sesión") + "\n\n" + m.form.View()
}

func (m *dashboardModel) homeView() string {
	snapshot := m.executor.Session().Snapshot()
	who := snapshot.Role
	if snapshot.User != nil {
		who = fmt.Sprintf("%s (%s)", snapshot.User.FullName(), session.FriendlyRoleName(snapshot.Role))
	}
	menu := menuStyle.Render(
		"u  Gestión de Usuarios\n" +
			"r  Reportes\n" +
			"l  Registro de Actividad\n" +
			"p  Mi Perfil\n" +
			"x  Cerrar sesión\n" +
			"q  Salir",
	)
	return titleStyle.Render("Panel de Administración") + "\n" +
		helpStyle.Render("Conectado como "+who) + "\n" + menu
}

func (m *dashboardModel) usersView() string {
	if m.loading {
		return fmt.Sprintf("\n %s Cargando usuarios...\n", m.spinner.View())
	}
	return titleStyle.Render("Gestión de Usuarios") + "\n\n" +
		m.table.View() + "\n" +
		helpStyle.Render("↑/↓ navegar · esc volver · q salir")
}

func (m *dashboardModel) reportsView() string {
	if m.loading {
		return fmt.Sprintf("\n %s Preparando reporte...\n", m.spinner.View())
	}
	total := len(m.users)
	active := 0
	for _, u := range m.users {
		if u.Enabled {
			active++
		}
	}
	stats := fmt.Sprintf(
		"%s %d\n%s %d\n%s %d\n",
		labelStyle.Render("Usuarios"), total,
		labelStyle.Render("Activos"), active,
		labelStyle.Render("Inactivos"), total-active,
	)
	return titleStyle.Render("Reportes") + "\n\n" + stats + "\n" +
		helpStyle.Render("e exportar CSV · esc volver")
}

func (m *dashboardModel) profileView() string {
	if m.profile == nil {
		return titleStyle.Render("Mi Perfil") + "\n\n" +
			helpStyle.Render("Perfil no disponible. esc volver")
	}
	body := titleStyle.Render("Mi Perfil") + "\n\n"
	rows := []struct{ label, value string }{
		{"Nombre", m.profile.FullName()},
		{"Email", m.profile.Email},
		{"Usuario", m.profile.Username},
		{"DNI", m.profile.DNI},
		{"Teléfono", m.profile.PhoneNumber},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		body += fmt.Sprintf("%s %s\n", labelStyle.Render(row.label), row.value)
	}
	for _, role := range m.profile.RoleNames() {
		body += fmt.Sprintf("%s %s\n", labelStyle.Render("Rol"), session.FriendlyRoleName(role))
	}
	return body + "\n" + helpStyle.Render("esc volver")
}

func (m *dashboardModel) placeholderView(title string) string {
	return titleStyle.Render(title) + "\n\n" +
		helpStyle.Render("En construcción. esc volver")
}
