package registry

import "fmt"

// SettingsIOError represents a failure to load or save the settings record.
type SettingsIOError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *SettingsIOError) Error() string {
	return fmt.Sprintf("settings %s failed: %v", e.Op, e.Err)
}

func (e *SettingsIOError) Unwrap() error {
	return e.Err
}

// NewSettingsIOError creates a new SettingsIOError.
func NewSettingsIOError(op string, err error) *SettingsIOError {
	return &SettingsIOError{Op: op, Err: err}
}
