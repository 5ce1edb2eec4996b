package alerting

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PeerDB-io/destkit/shared/exceptions"
)

type FailureType string

const (
	FailureTypeConfig FailureType = "config_error"
	FailureTypeSystem FailureType = "system_error"
)

// GenericFailureMessage is shown to users for anything that is not a ConfigError.
const GenericFailureMessage = "Something went wrong in the destination connector. See the logs for more details."

// TraceMessage is the user-facing record of a failure. Message never carries internal detail.
type TraceMessage struct {
	EmittedAt       time.Time   `json:"emitted_at"`
	ID              string      `json:"id"`
	FailureType     FailureType `json:"failure_type"`
	Message         string      `json:"message"`
	InternalMessage string      `json:"internal_message,omitempty"`
	ErrorClass      string      `json:"error_class"`
	ErrorSource     string      `json:"error_source"`
	ErrorCode       string      `json:"error_code"`
	// Attributes identify the object the failure is about, such as the missing table.
	Attributes map[string]string `json:"attributes,omitempty"`
}

func NewTraceMessage(err error) *TraceMessage {
	errorClass, errorInfo := GetErrorClass(context.Background(), err)
	return newTraceMessage(err, errorClass, errorInfo)
}

func newTraceMessage(err error, errorClass ErrorClass, errorInfo ErrorInfo) *TraceMessage {
	msg := &TraceMessage{
		EmittedAt:   time.Now().UTC(),
		ID:          uuid.NewString(),
		FailureType: FailureTypeSystem,
		Message:     GenericFailureMessage,
		ErrorClass:  errorClass.String(),
		ErrorSource: errorInfo.Source.String(),
		ErrorCode:   errorInfo.Code,
	}
	if len(errorInfo.AdditionalAttributes) > 0 {
		msg.Attributes = make(map[string]string, len(errorInfo.AdditionalAttributes))
		for key, value := range errorInfo.AdditionalAttributes {
			msg.Attributes[key.String()] = value
		}
	}
	if configErr, ok := exceptions.AsConfigError(err); ok {
		msg.FailureType = FailureTypeConfig
		msg.Message = configErr.DisplayMessage()
		msg.InternalMessage = configErr.InternalMessage()
	} else if err != nil {
		msg.InternalMessage = err.Error()
	}
	return msg
}

func (m *TraceMessage) Title() string {
	if m.FailureType == FailureTypeConfig {
		return "Configuration error"
	}
	return "Destination connector failure"
}

// dedupKey treats two failures as the same alert only when they agree on class, code,
// attributes and both messages.
func (m *TraceMessage) dedupKey() string {
	var key strings.Builder
	key.WriteString(m.ErrorClass + "|" + m.ErrorCode)
	for _, attr := range slices.Sorted(maps.Keys(m.Attributes)) {
		key.WriteString("|" + attr + "=" + m.Attributes[attr])
	}
	key.WriteString("|" + m.Message + "|" + m.InternalMessage)
	return key.String()
}
