package manifest

import (
	"fmt"

	"github.com/xy-planning-network/signpost"
)

// A ConfigurationError reports a manifest that could not be loaded.
// It wraps signpost.ErrBadConfig.
type ConfigurationError struct {
	Source string
	Msg    string
	Err    error
}

func newConfigurationError(src, msg string, err error) *ConfigurationError {
	return &ConfigurationError{Source: src, Msg: msg, Err: err}
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s: %s", signpost.ErrBadConfig, e.Msg)
	if e.Source != "" {
		msg += " " + e.Source
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{signpost.ErrBadConfig}
	}

	return []error{signpost.ErrBadConfig, e.Err}
}
