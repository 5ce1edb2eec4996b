package connectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared/exceptions"
)

func TestGetConnectorRejectsInvalidConfigWithoutDialing(t *testing.T) {
	t.Parallel()

	_, err := GetConnector(context.Background(), &model.PeerConfig{Name: "dw", Type: "oracle", Host: "h", User: "u"})
	configErr, ok := exceptions.AsConfigError(err)
	require.True(t, ok)
	assert.Contains(t, configErr.DisplayMessage(), "oracle")

	_, err = GetConnector(context.Background(), &model.PeerConfig{Name: "dw", Type: model.PeerTypePostgres, User: "u"})
	configErr, ok = exceptions.AsConfigError(err)
	require.True(t, ok)
	assert.Equal(t, `Host must be set for peer "dw"`, configErr.DisplayMessage())
}

func TestReadTableDefinitionSurfacesConfigError(t *testing.T) {
	t.Parallel()

	_, err := ReadTableDefinition(context.Background(), &model.PeerConfig{Name: "dw", Type: model.PeerTypeMySQL},
		"shop", "orders", nil)
	_, ok := exceptions.AsConfigError(err)
	assert.True(t, ok)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCloseConnectorToleratesNil(t *testing.T) {
	t.Parallel()

	CloseConnector(context.Background(), nil)
	closed := false
	CloseConnector(context.Background(), closerFunc(func() error {
		closed = true
		return nil
	}))
	assert.True(t, closed)
}
