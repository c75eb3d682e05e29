package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usersystem/usersys/pkg/config"
)

type fakeCreds struct {
	mu    sync.Mutex
	token string
}

func (f *fakeCreds) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeCreds) clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
}

type recordingNotifier struct {
	mu     sync.Mutex
	warns  []string
	errors []string
}

func (r *recordingNotifier) Warn(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, message)
}

func (r *recordingNotifier) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func newTestClient(t *testing.T, serverURL, token string, opts ...Option) (*Client, *fakeCreds) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.BaseURL = serverURL
	creds := &fakeCreds{token: token}
	client, err := NewClient(cfg, creds, opts...)
	require.NoError(t, err)
	return client, creds
}

func TestNewClient(t *testing.T) {
	t.Run("Should reject a relative base URL", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.BaseURL = "/api"
		_, err := NewClient(cfg, &fakeCreds{})
		assert.Error(t, err)
	})
	t.Run("Should reject a non-http scheme", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.BaseURL = "ftp://example.com"
		_, err := NewClient(cfg, &fakeCreds{})
		assert.Error(t, err)
	})
	t.Run("Should require a credential source", func(t *testing.T) {
		_, err := NewClient(config.Default(), nil)
		assert.Error(t, err)
	})
}

func TestClient_BearerAttachment(t *testing.T) {
	t.Run("Should attach the stored token to authenticated calls", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()
		client, _ := newTestClient(t, server.URL, "tok-abc")
		_, err := client.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-abc", gotAuth)
	})
	t.Run("Should omit the header when no token is stored", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()
		client, _ := newTestClient(t, server.URL, "")
		_, err := client.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Empty(t, gotAuth)
	})
	t.Run("Should never send a stale token on login", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"accessToken":"fresh","roles":["ROLE_ADMIN"]}`))
		}))
		defer server.Close()
		client, _ := newTestClient(t, server.URL, "stale-token")
		resp, err := client.Login(context.Background(), "a@b.com", "pw")
		require.NoError(t, err)
		assert.Empty(t, gotAuth)
		assert.Equal(t, "fresh", resp.AccessToken)
		assert.Equal(t, []string{"ROLE_ADMIN"}, resp.Roles)
	})
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	newServerWithStatus := func(status int, body string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
	}
	t.Run("Should run the logout hooks exactly on 401", func(t *testing.T) {
		server := newServerWithStatus(http.StatusUnauthorized, `{"message":"expired"}`)
		defer server.Close()
		notifier := &recordingNotifier{}
		var loggedOut, navigated bool
		client, creds := newTestClient(t, server.URL, "tok", WithNotifier(notifier))
		client.SetAuthHooks(AuthHooks{
			Logout: func(context.Context) {
				creds.clear()
				loggedOut = true
			},
			NavigateToLogin: func() { navigated = true },
		})
		_, err := client.ListUsers(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnauthorized))
		assert.True(t, loggedOut)
		assert.True(t, navigated)
		assert.Empty(t, creds.Token())
		require.Len(t, notifier.warns, 1)
		assert.Contains(t, notifier.warns[0], "sesión ha expirado")
	})
	t.Run("Should treat a rejected login as bad credentials, not an expired session", func(t *testing.T) {
		server := newServerWithStatus(http.StatusUnauthorized, `{"message":"Credenciales inválidas"}`)
		defer server.Close()
		notifier := &recordingNotifier{}
		var loggedOut bool
		client, _ := newTestClient(t, server.URL, "", WithNotifier(notifier))
		client.SetAuthHooks(AuthHooks{Logout: func(context.Context) { loggedOut = true }})
		_, err := client.Login(context.Background(), "a@b.com", "wrong")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRequest))
		assert.False(t, errors.Is(err, ErrUnauthorized))
		assert.False(t, loggedOut)
		assert.Empty(t, notifier.warns)
		assert.Equal(t, "Credenciales inválidas", ServerMessage(err))
	})
	t.Run("Should classify 403 without touching the session", func(t *testing.T) {
		server := newServerWithStatus(http.StatusForbidden, `{}`)
		defer server.Close()
		notifier := &recordingNotifier{}
		var loggedOut bool
		client, creds := newTestClient(t, server.URL, "tok", WithNotifier(notifier))
		client.SetAuthHooks(AuthHooks{Logout: func(context.Context) { loggedOut = true }})
		err := client.DeleteUser(context.Background(), 4)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrForbidden))
		assert.False(t, loggedOut)
		assert.Equal(t, "tok", creds.Token())
		require.Len(t, notifier.errors, 1)
		assert.Contains(t, notifier.errors[0], "No tienes permiso")
	})
	t.Run("Should classify 5xx as server errors", func(t *testing.T) {
		server := newServerWithStatus(http.StatusBadGateway, `{}`)
		defer server.Close()
		notifier := &recordingNotifier{}
		client, _ := newTestClient(t, server.URL, "tok", WithNotifier(notifier))
		_, err := client.ListUsers(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrServer))
		require.Len(t, notifier.errors, 1)
		assert.Contains(t, notifier.errors[0], "error en el servidor")
	})
	t.Run("Should surface the server message on other 4xx", func(t *testing.T) {
		server := newServerWithStatus(http.StatusConflict, `{"message":"El email ya existe"}`)
		defer server.Close()
		notifier := &recordingNotifier{}
		client, _ := newTestClient(t, server.URL, "tok", WithNotifier(notifier))
		_, err := client.CreateUser(context.Background(), CreateUserRequest{
			Username: "u", Email: "a@b.com", Password: "secret1",
			FirstName: "A", LastName: "B",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRequest))
		assert.Equal(t, "El email ya existe", ServerMessage(err))
		require.Len(t, notifier.errors, 1)
		assert.Equal(t, "El email ya existe", notifier.errors[0])
	})
	t.Run("Should classify an unreachable server as a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()
		notifier := &recordingNotifier{}
		client, _ := newTestClient(t, server.URL, "tok", WithNotifier(notifier))
		_, err := client.ListUsers(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNetwork))
		require.Len(t, notifier.errors, 1)
		assert.Contains(t, notifier.errors[0], "conectar con el servidor")
	})
	t.Run("Should pass context cancellation through unclassified", func(t *testing.T) {
		server := newServerWithStatus(http.StatusOK, `[]`)
		defer server.Close()
		client, _ := newTestClient(t, server.URL, "tok")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.ListUsers(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.False(t, errors.Is(err, ErrNetwork))
	})
}

func TestParseLoginResponse(t *testing.T) {
	t.Run("Should require an access token", func(t *testing.T) {
		_, err := parseLoginResponse([]byte(`{"roles":["ROLE_ADMIN"]}`))
		assert.Error(t, err)
	})
	t.Run("Should normalize the legacy singular role field", func(t *testing.T) {
		resp, err := parseLoginResponse([]byte(`{"accessToken":"t","role":"ROLE_SUPERVISOR"}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"ROLE_SUPERVISOR"}, resp.Roles)
	})
	t.Run("Should tolerate a missing roles field", func(t *testing.T) {
		resp, err := parseLoginResponse([]byte(`{"accessToken":"t"}`))
		require.NoError(t, err)
		assert.Empty(t, resp.Roles)
	})
}

func TestClient_Me(t *testing.T) {
	t.Run("Should decode a roles collection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":9,"firstName":"Ana","lastName":"Ruiz","email":"ana@x.com","roles":[{"id":1,"name":"ROLE_ADMIN"}]}`))
		}))
		defer server.Close()
		client, _ := newTestClient(t, server.URL, "tok")
		profile, err := client.Me(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Ana Ruiz", profile.FullName())
		assert.Equal(t, []string{"ROLE_ADMIN"}, profile.RoleNames())
	})
	t.Run("Should normalize a legacy singular role object", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":9,"email":"ana@x.com","role":{"id":2,"name":"ROLE_EMPLOYEE"}}`))
		}))
		defer server.Close()
		client, _ := newTestClient(t, server.URL, "tok")
		profile, err := client.Me(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"ROLE_EMPLOYEE"}, profile.RoleNames())
	})
}

func TestClient_CreateUserValidation(t *testing.T) {
	t.Run("Should reject an invalid payload before any request", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))
		defer server.Close()
		client, _ := newTestClient(t, server.URL, "tok")
		_, err := client.CreateUser(context.Background(), CreateUserRequest{
			Username: "u", Email: "not-an-email", Password: "123",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRequest))
		assert.False(t, called)
	})
}
