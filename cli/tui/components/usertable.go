package components

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/usersystem/usersys/cli/api"
	"github.com/usersystem/usersys/cli/session"
)

// NewUserTable builds the user management table from a user list,
// already filtered by the caller.
func NewUserTable(users []api.User, width, height int) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Nombre", Width: 14},
		{Title: "Apellido", Width: 14},
		{Title: "Email", Width: 28},
		{Title: "Rol", Width: 14},
		{Title: "Estado", Width: 10},
	}
	rows := make([]table.Row, 0, len(users))
	for _, u := range users {
		rows = append(rows, table.Row{
			strconv.FormatInt(u.ID, 10),
			u.FirstName,
			u.LastName,
			u.Email,
			session.FriendlyRoleName(u.RoleName()),
			u.StatusLabel(),
		})
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
	)
	if height > 8 {
		tbl.SetHeight(height - 8)
	}
	if width > 0 {
		tbl.SetWidth(width)
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	tbl.SetStyles(styles)
	return tbl
}

// SelectedUserID returns the ID of the highlighted row, or false when
// the table is empty.
func SelectedUserID(tbl table.Model) (int64, bool) {
	row := tbl.SelectedRow()
	if row == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
