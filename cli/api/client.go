package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/usersystem/usersys/pkg/config"
	"github.com/usersystem/usersys/pkg/logger"
)

// CredentialSource supplies the bearer token attached to outbound
// requests. The token is read fresh on every request so a login that
// persisted new credentials is picked up immediately.
type CredentialSource interface {
	Token() string
}

// AuthHooks are invoked when the backend rejects the session (HTTP 401).
// They are injected at composition time; the defaults only log a warning
// so a miswired client is visible instead of silent.
type AuthHooks struct {
	Logout          func(ctx context.Context)
	NavigateToLogin func()
}

// Notifier surfaces user-visible notifications for failed calls. The
// default implementation logs them.
type Notifier interface {
	Warn(message string)
	Error(message string)
}

type logNotifier struct {
	log logger.Logger
}

func (n logNotifier) Warn(message string)  { n.log.Warn(message) }
func (n logNotifier) Error(message string) { n.log.Error(message) }

// Client is the single outbound channel to the backend. Outbound
// middleware attaches the bearer token, inbound middleware classifies
// failures and side-effects the 401 logout.
type Client struct {
	client   *resty.Client
	cfg      *config.Config
	baseURL  string
	creds    CredentialSource
	hooks    AuthHooks
	notifier Notifier
	validate *validator.Validate
}

// Option customizes client construction.
type Option func(*Client)

// WithAuthHooks injects the 401 logout/navigate callbacks.
func WithAuthHooks(hooks AuthHooks) Option {
	return func(c *Client) {
		c.setAuthHooks(hooks)
	}
}

// WithNotifier injects the notification surface.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// NewClient creates the configured API client.
func NewClient(cfg *config.Config, creds CredentialSource, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credential source is required")
	}
	baseURL, err := validateBaseURL(cfg.Server.BaseURL)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(context.Background())
	c := &Client{
		cfg:      cfg,
		baseURL:  baseURL,
		creds:    creds,
		notifier: logNotifier{log: log},
		validate: validator.New(),
		hooks: AuthHooks{
			Logout: func(context.Context) {
				log.Warn("logout hook not set for API client")
			},
			NavigateToLogin: func() {
				log.Warn("navigate hook not set for API client")
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Server.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	rc.OnBeforeRequest(c.attachAuth)
	rc.OnAfterResponse(c.classifyResponse)
	c.client = rc
	return c, nil
}

// SetAuthHooks rebinds the 401 callbacks after construction. The TUI
// needs this because its navigation surface outlives the client setup.
func (c *Client) SetAuthHooks(hooks AuthHooks) {
	c.setAuthHooks(hooks)
}

func (c *Client) setAuthHooks(hooks AuthHooks) {
	if hooks.Logout != nil {
		c.hooks.Logout = hooks.Logout
	}
	if hooks.NavigateToLogin != nil {
		c.hooks.NavigateToLogin = hooks.NavigateToLogin
	}
}

// SetNotifier rebinds the notification surface after construction.
func (c *Client) SetNotifier(n Notifier) {
	if n != nil {
		c.notifier = n
	}
}

// BaseURL returns the validated backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func validateBaseURL(baseURL string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("base URL must be absolute with a host, got: %s", baseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	return baseURL, nil
}

// skipAuthKey marks requests that must go out without a bearer header,
// i.e. login, which runs before any token exists.
type skipAuthKey struct{}

func withoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipAuthKey{}, true)
}

// attachAuth is the outbound middleware: request ID plus bearer token
// when one is stored.
func (c *Client) attachAuth(_ *resty.Client, req *resty.Request) error {
	req.SetHeader("X-Request-ID", uuid.NewString())
	if skip, _ := req.Context().Value(skipAuthKey{}).(bool); skip {
		return nil
	}
	if token := c.creds.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return nil
}

// classifyResponse is the inbound middleware implementing the error
// taxonomy. On 401 it triggers the injected logout and navigation before
// rejecting; callers must not retry.
func (c *Client) classifyResponse(_ *resty.Client, resp *resty.Response) error {
	status := resp.StatusCode()
	if status < http.StatusBadRequest {
		return nil
	}
	message := gjson.GetBytes(resp.Body(), "message").String()
	skip, _ := resp.Request.Context().Value(skipAuthKey{}).(bool)
	switch {
	case status == http.StatusUnauthorized && skip:
		// A rejected login is bad credentials, not an expired session;
		// the caller reports it inline and no logout side effects run.
		return newError(ErrRequest, status, message, nil)
	case status == http.StatusUnauthorized:
		c.notifier.Warn("Tu sesión ha expirado o es inválida. Por favor, inicia sesión de nuevo.")
		c.hooks.Logout(resp.Request.Context())
		c.hooks.NavigateToLogin()
		return newError(ErrUnauthorized, status, message, nil)
	case status == http.StatusForbidden:
		c.notifier.Error("No tienes permiso para realizar esta acción.")
		return newError(ErrForbidden, status, message, nil)
	case status >= http.StatusInternalServerError:
		c.notifier.Error("Ha ocurrido un error en el servidor. Inténtalo de nuevo más tarde.")
		return newError(ErrServer, status, message, nil)
	default:
		if message == "" {
			message = "Error en la solicitud."
		}
		c.notifier.Error(message)
		return newError(ErrRequest, status, message, nil)
	}
}

// execute runs a prepared request and normalizes transport failures.
func (c *Client) execute(ctx context.Context, req *resty.Request, method, path string) (*resty.Response, error) {
	log := logger.FromContext(ctx)
	resp, err := req.Execute(method, path)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return resp, apiErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return resp, err
		}
		c.notifier.Error("No se pudo conectar con el servidor. Verifica tu conexión a internet.")
		return resp, newError(ErrNetwork, 0, "no response received", err)
	}
	log.Debug("api request completed", "method", method, "path", path, "status", resp.StatusCode())
	return resp, nil
}

// do performs a JSON request with optional body and result decoding.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	_, err := c.execute(ctx, req, method, path)
	return err
}
