package alerting

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeerDB-io/destkit/shared/exceptions"
)

func TestTraceMessageShowsDisplayMessageExactly(t *testing.T) {
	t.Parallel()

	msg := NewTraceMessage(exceptions.NewConfigError("Invalid API key"))
	assert.Equal(t, FailureTypeConfig, msg.FailureType)
	assert.Equal(t, "Invalid API key", msg.Message)
	assert.Empty(t, msg.InternalMessage)
	assert.Equal(t, ErrorNotifyConfig.String(), msg.ErrorClass)
	_, err := uuid.Parse(msg.ID)
	require.NoError(t, err)
	assert.False(t, msg.EmittedAt.IsZero())
}

func TestTraceMessageNeverLeaksInternalDetail(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp 10.0.0.3:5432: connection refused")
	configErr := exceptions.NewConfigErrorWithCause("Could not reach the destination", cause, "host=10.0.0.3 user=etl")
	msg := NewTraceMessage(fmt.Errorf("describe: %w", configErr))
	assert.Equal(t, "Could not reach the destination", msg.Message)
	assert.Equal(t, "host=10.0.0.3 user=etl", msg.InternalMessage)
	assert.NotContains(t, msg.Message, "10.0.0.3")
}

func TestTraceMessageForSystemErrorIsGeneric(t *testing.T) {
	t.Parallel()

	msg := NewTraceMessage(errors.New("nil pointer in buffer flush"))
	assert.Equal(t, FailureTypeSystem, msg.FailureType)
	assert.Equal(t, GenericFailureMessage, msg.Message)
	assert.Equal(t, "nil pointer in buffer flush", msg.InternalMessage)
	assert.Equal(t, "Destination connector failure", msg.Title())
}

func TestTraceMessageIDsAreUnique(t *testing.T) {
	t.Parallel()

	err := exceptions.NewConfigError("x")
	assert.NotEqual(t, NewTraceMessage(err).ID, NewTraceMessage(err).ID)
}
