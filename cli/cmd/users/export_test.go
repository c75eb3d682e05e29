package users

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usersystem/usersys/cli/api"
)

func sampleUsers() []api.User {
	return []api.User{
		{ID: 1, FirstName: "Ana", LastName: "Ruiz", Email: "ana@x.com", Enabled: true,
			Role: &api.Role{ID: 1, Name: "ROLE_ADMIN"}},
		{ID: 2, FirstName: "Luis", LastName: "Pérez", Email: "luis@x.com", Enabled: false,
			Role: &api.Role{ID: 3, Name: "ROLE_EMPLOYEE"}},
		{ID: 3, FirstName: "Marta", LastName: "Gómez", Email: "marta@x.com", Enabled: true},
	}
}

func TestWriteUsersCSV(t *testing.T) {
	t.Run("Should write the console's columns with friendly values", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteUsersCSV(&buf, sampleUsers()))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "ID,Nombre,Apellido,Email,Rol,Estado", lines[0])
		assert.Equal(t, "1,Ana,Ruiz,ana@x.com,Administrador,Activo", lines[1])
		assert.Equal(t, "2,Luis,Pérez,luis@x.com,Empleado,Inactivo", lines[2])
	})
	t.Run("Should write only the header for an empty listing", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteUsersCSV(&buf, nil))
		assert.Equal(t, "ID,Nombre,Apellido,Email,Rol,Estado", strings.TrimSpace(buf.String()))
	})
}

func TestFilterUsers(t *testing.T) {
	users := sampleUsers()
	t.Run("Should return everything for an empty filter", func(t *testing.T) {
		assert.Len(t, filterUsers(users, ""), 3)
	})
	t.Run("Should match names case-insensitively", func(t *testing.T) {
		filtered := filterUsers(users, "ana")
		require.Len(t, filtered, 1)
		assert.Equal(t, int64(1), filtered[0].ID)
	})
	t.Run("Should match by email and role", func(t *testing.T) {
		assert.Len(t, filterUsers(users, "luis@x.com"), 1)
		assert.Len(t, filterUsers(users, "ROLE_ADMIN"), 1)
	})
	t.Run("Should return empty for no matches", func(t *testing.T) {
		assert.Empty(t, filterUsers(users, "nope"))
	})
}

func TestParseUserID(t *testing.T) {
	t.Run("Should parse a positive ID", func(t *testing.T) {
		id, err := parseUserID([]string{"42"})
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})
	t.Run("Should reject non-numeric and non-positive IDs", func(t *testing.T) {
		_, err := parseUserID([]string{"abc"})
		assert.Error(t, err)
		_, err = parseUserID([]string{"0"})
		assert.Error(t, err)
		_, err = parseUserID([]string{"-5"})
		assert.Error(t, err)
	})
}
