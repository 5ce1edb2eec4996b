package exceptions

import "errors"

// DefaultInternalMessage is the internal message recorded when a ConfigError
// is built without one.
const DefaultInternalMessage = ""

// ConfigError signals that the user's connector configuration is invalid or unusable.
// DisplayMessage is the only text meant for end users, it is also what Error returns.
// InternalMessage and the wrapped cause are for logs.
type ConfigError struct {
	cause           error
	displayMessage  string
	internalMessage string
}

func NewConfigError(displayMessage string) *ConfigError {
	return &ConfigError{
		displayMessage:  displayMessage,
		internalMessage: DefaultInternalMessage,
	}
}

func NewConfigErrorWithInternal(displayMessage string, internalMessage string) *ConfigError {
	return &ConfigError{
		displayMessage:  displayMessage,
		internalMessage: internalMessage,
	}
}

// NewConfigErrorWithCause keeps cause in the chain. At most one internal message is used,
// DefaultInternalMessage when none is passed.
func NewConfigErrorWithCause(displayMessage string, cause error, internalMessage ...string) *ConfigError {
	e := &ConfigError{
		cause:           cause,
		displayMessage:  displayMessage,
		internalMessage: DefaultInternalMessage,
	}
	if len(internalMessage) > 0 {
		e.internalMessage = internalMessage[0]
	}
	return e
}

func (e *ConfigError) Error() string {
	return e.displayMessage
}

func (e *ConfigError) Unwrap() error {
	return e.cause
}

func (e *ConfigError) DisplayMessage() string {
	return e.displayMessage
}

func (e *ConfigError) InternalMessage() string {
	return e.internalMessage
}

func AsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}
