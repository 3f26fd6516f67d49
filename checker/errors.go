package checker

import "errors"

var (
	ErrInvalidNetworkConfig   = errors.New("invalid network configuration")
	ErrUnsupportedSpecVersion = errors.New("unsupported node spec version")
	ErrWrongNetwork           = errors.New("node serves a different network")
)

// ConfigurationError is returned by New when no node endpoint can be resolved.
// It is never turned into a classification result.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return "configuration: " + e.Reason
	}
	return "configuration: " + e.Reason + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidNetworkConfig
}
