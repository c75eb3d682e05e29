package components

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ToastLevel classifies a notification for styling.
type ToastLevel int

const (
	ToastWarn ToastLevel = iota
	ToastError
)

// Toast is a single user-facing notification.
type Toast struct {
	Level   ToastLevel
	Message string
}

// Toaster collects notifications emitted while API calls run. The HTTP
// layer fires notifications from whatever goroutine executes the
// request, so access is serialized; models drain the queue when they
// handle the call's result message.
type Toaster struct {
	mu     sync.Mutex
	toasts []Toast
}

func NewToaster() *Toaster {
	return &Toaster{}
}

// Warn records an advisory notification.
func (t *Toaster) Warn(message string) {
	t.push(Toast{Level: ToastWarn, Message: message})
}

// Error records a failure notification.
func (t *Toaster) Error(message string) {
	t.push(Toast{Level: ToastError, Message: message})
}

func (t *Toaster) push(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.toasts = append(t.toasts, toast)
}

// Drain returns all pending toasts and empties the queue.
func (t *Toaster) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.toasts
	t.toasts = nil
	return out
}

var (
	warnToastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C")).
			Bold(true)
	errorToastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

// Render returns the styled text for a toast.
func (t Toast) Render() string {
	if t.Level == ToastError {
		return errorToastStyle.Render(t.Message)
	}
	return warnToastStyle.Render(t.Message)
}
