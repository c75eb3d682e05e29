package helpers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/usersystem/usersys/cli/tui/models"
)

// CliError represents a CLI-specific error with enhanced context
type CliError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCliError creates a new CLI error
func NewCliError(code, message string, details ...string) *CliError {
	err := &CliError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// FormatError formats errors based on output mode
func FormatError(err error, mode models.Mode) string {
	if err == nil {
		return ""
	}
	switch mode {
	case models.ModeJSON:
		return formatErrorJSON(err)
	case models.ModeTUI:
		return formatErrorTUI(err)
	default:
		return err.Error()
	}
}

func formatErrorJSON(err error) string {
	var errorResponse map[string]any
	if cliErr, ok := err.(*CliError); ok {
		errorResponse = map[string]any{
			"error":   cliErr.Message,
			"details": cliErr.Details,
		}
	} else {
		errorResponse = map[string]any{
			"error":   err.Error(),
			"details": "",
		}
	}
	jsonBytes, marshalErr := json.MarshalIndent(errorResponse, "", "  ")
	if marshalErr != nil {
		return `{"error": "JSON marshaling failed", "details": ""}`
	}
	return string(jsonBytes)
}

func formatErrorTUI(err error) string {
	message, details := extractErrorInfo(err)
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B")).
		Bold(true)
	result := style.Render(message)
	if details != "" {
		detailStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)
		result += "\n" + detailStyle.Render(fmt.Sprintf("Details: %s", details))
	}
	return result
}

func extractErrorInfo(err error) (message, details string) {
	if cliErr, ok := err.(*CliError); ok && cliErr != nil {
		return cliErr.Message, cliErr.Details
	}
	return err.Error(), ""
}

// OutputError outputs an error to stderr in the appropriate format
func OutputError(err error, mode models.Mode) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err, mode))
}

// OutputJSON writes data as indented JSON to stdout.
func OutputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// OutputJSONError outputs an error in JSON format and returns it as a
// Go error so command exit codes stay non-zero.
func OutputJSONError(message string) error {
	if err := OutputJSON(map[string]any{"error": message}); err != nil {
		return err
	}
	return fmt.Errorf("%s", message)
}

// ValidateRequired validates that a required string value is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewCliError("REQUIRED_FIELD", fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}
