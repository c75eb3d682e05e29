package models

import (
	"context"
)

// Mode represents the output mode for CLI commands
type Mode string

const (
	// ModeTUI represents interactive TUI mode
	ModeTUI Mode = "tui"
	// ModeJSON represents non-interactive JSON output mode
	ModeJSON Mode = "json"
)

// BaseModel provides common functionality for all TUI models
type BaseModel struct {
	ctx    context.Context
	mode   Mode
	width  int
	height int
	err    error
}

// NewBaseModel creates a new base model
func NewBaseModel(ctx context.Context, mode Mode) BaseModel {
	return BaseModel{
		ctx:  ctx,
		mode: mode,
	}
}

// Context returns the context
func (m BaseModel) Context() context.Context {
	return m.ctx
}

// Mode returns the current mode
func (m BaseModel) Mode() Mode {
	return m.mode
}

// Size returns the terminal size
func (m BaseModel) Size() (width, height int) {
	return m.width, m.height
}

// Error returns any error that occurred
func (m BaseModel) Error() error {
	return m.err
}

// SetSize sets the terminal size
func (m *BaseModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetError sets an error
func (m *BaseModel) SetError(err error) {
	m.err = err
}
