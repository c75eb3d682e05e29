package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usersystem/usersys/cli/api"
	"github.com/usersystem/usersys/pkg/config"
)

type fakeBackend struct {
	loginResp  *api.LoginResponse
	loginErr   error
	meResp     *api.Profile
	meErr      error
	loginCalls int
	meCalls    int
}

func (f *fakeBackend) Login(_ context.Context, _, _ string) (*api.LoginResponse, error) {
	f.loginCalls++
	return f.loginResp, f.loginErr
}

func (f *fakeBackend) Me(_ context.Context) (*api.Profile, error) {
	f.meCalls++
	return f.meResp, f.meErr
}

func newTestManager(t *testing.T, backend Backend) (*Manager, *Store) {
	t.Helper()
	cfg := config.Default()
	store := NewStore(afero.NewMemMapFs(), "/data/credentials.json")
	return NewManager(cfg, store, backend), store
}

func TestManager_Login(t *testing.T) {
	t.Run("Should persist token and resolved role on success", func(t *testing.T) {
		backend := &fakeBackend{
			loginResp: &api.LoginResponse{AccessToken: "tok-1", Roles: []string{RoleEmployee, RoleAdmin}},
			meResp:    &api.Profile{ID: 7, Email: "a@b.com", Roles: []api.Role{{Name: RoleAdmin}}},
		}
		manager, store := newTestManager(t, backend)
		result := manager.Login(context.Background(), "a@b.com", "secret")
		require.True(t, result.Success)
		assert.Equal(t, RoleAdmin, result.Role)
		assert.Equal(t, "tok-1", store.Token())
		assert.Equal(t, RoleAdmin, store.Role())
		snapshot := manager.Snapshot()
		assert.True(t, snapshot.IsAuthenticated())
		require.NotNil(t, snapshot.User)
		assert.Equal(t, int64(7), snapshot.User.ID)
	})
	t.Run("Should leave store and session untouched on failure", func(t *testing.T) {
		backend := &fakeBackend{loginErr: fmt.Errorf("rejected: %w", api.ErrRequest)}
		manager, store := newTestManager(t, backend)
		result := manager.Login(context.Background(), "a@b.com", "wrong")
		require.False(t, result.Success)
		assert.Equal(t, "Credenciales inválidas.", result.Message)
		assert.Empty(t, store.Token())
		assert.Empty(t, store.Role())
		assert.False(t, manager.Snapshot().IsAuthenticated())
		assert.Zero(t, backend.meCalls)
	})
	t.Run("Should default the role when the response has none", func(t *testing.T) {
		backend := &fakeBackend{
			loginResp: &api.LoginResponse{AccessToken: "tok-2"},
			meResp:    &api.Profile{ID: 1},
		}
		manager, store := newTestManager(t, backend)
		result := manager.Login(context.Background(), "a@b.com", "secret")
		require.True(t, result.Success)
		assert.Equal(t, RoleEmployee, result.Role)
		assert.Equal(t, RoleEmployee, store.Role())
	})
}

func TestManager_FetchUserDetails(t *testing.T) {
	t.Run("Should skip the network entirely without a token", func(t *testing.T) {
		backend := &fakeBackend{}
		manager, _ := newTestManager(t, backend)
		err := manager.FetchUserDetails(context.Background(), "")
		require.NoError(t, err)
		assert.Zero(t, backend.meCalls)
		snapshot := manager.Snapshot()
		assert.Nil(t, snapshot.User)
		assert.Empty(t, snapshot.Role)
	})
	t.Run("Should leave stored credentials alone on 401", func(t *testing.T) {
		backend := &fakeBackend{meErr: fmt.Errorf("profile: %w", api.ErrUnauthorized)}
		manager, store := newTestManager(t, backend)
		require.NoError(t, store.Set(KeyToken, "stale"))
		require.NoError(t, store.Set(KeyRole, RoleAdmin))
		err := manager.FetchUserDetails(context.Background(), "stale")
		require.Error(t, err)
		assert.True(t, errors.Is(err, api.ErrUnauthorized))
		// The HTTP client's hooks own the 401 cleanup.
		assert.Equal(t, "stale", store.Token())
	})
	t.Run("Should tear the session down on any other failure", func(t *testing.T) {
		backend := &fakeBackend{meErr: fmt.Errorf("boom: %w", api.ErrServer)}
		manager, store := newTestManager(t, backend)
		require.NoError(t, store.Set(KeyToken, "tok"))
		require.NoError(t, store.Set(KeyRole, RoleAdmin))
		err := manager.FetchUserDetails(context.Background(), "tok")
		require.Error(t, err)
		assert.Empty(t, store.Token())
		assert.Empty(t, store.Role())
		assert.False(t, manager.Snapshot().IsAuthenticated())
	})
	t.Run("Should re-resolve the role from the profile", func(t *testing.T) {
		backend := &fakeBackend{
			meResp: &api.Profile{ID: 2, Roles: []api.Role{{Name: RoleSupervisor}}},
		}
		manager, store := newTestManager(t, backend)
		require.NoError(t, store.Set(KeyToken, "tok"))
		require.NoError(t, manager.FetchUserDetails(context.Background(), "tok"))
		assert.Equal(t, RoleSupervisor, store.Role())
		assert.Equal(t, RoleSupervisor, manager.Snapshot().Role)
	})
}

func TestManager_Logout(t *testing.T) {
	t.Run("Should clear store and session", func(t *testing.T) {
		backend := &fakeBackend{
			loginResp: &api.LoginResponse{AccessToken: "tok", Roles: []string{RoleAdmin}},
			meResp:    &api.Profile{ID: 1, Roles: []api.Role{{Name: RoleAdmin}}},
		}
		manager, store := newTestManager(t, backend)
		require.True(t, manager.Login(context.Background(), "a@b.com", "pw").Success)
		manager.Logout(context.Background())
		assert.Empty(t, store.Token())
		assert.Empty(t, store.Role())
		assert.False(t, manager.Snapshot().IsAuthenticated())
	})
	t.Run("Should be safe to call without a session", func(t *testing.T) {
		manager, _ := newTestManager(t, &fakeBackend{})
		manager.Logout(context.Background())
		assert.False(t, manager.Snapshot().IsAuthenticated())
	})
}

func TestManager_Hydrate(t *testing.T) {
	t.Run("Should restore the session from persisted credentials", func(t *testing.T) {
		backend := &fakeBackend{
			meResp: &api.Profile{ID: 3, Roles: []api.Role{{Name: RoleAdmin}}},
		}
		manager, store := newTestManager(t, backend)
		require.NoError(t, store.Set(KeyToken, "persisted"))
		require.NoError(t, store.Set(KeyRole, RoleAdmin))
		manager.Hydrate(context.Background())
		snapshot := manager.Snapshot()
		assert.True(t, snapshot.IsAuthenticated())
		require.NotNil(t, snapshot.User)
		assert.Equal(t, int64(3), snapshot.User.ID)
	})
	t.Run("Should do nothing without persisted credentials", func(t *testing.T) {
		backend := &fakeBackend{}
		manager, _ := newTestManager(t, backend)
		manager.Hydrate(context.Background())
		assert.Zero(t, backend.meCalls)
		assert.False(t, manager.Snapshot().IsAuthenticated())
	})
}
