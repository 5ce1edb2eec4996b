package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeerDB-io/destkit/shared/exceptions"
)

func TestParsePeerType(t *testing.T) {
	t.Parallel()

	for input, expected := range map[string]PeerType{
		"postgres":   PeerTypePostgres,
		" MySQL ":    PeerTypeMySQL,
		"ClickHouse": PeerTypeClickHouse,
	} {
		p, err := ParsePeerType(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, p)
	}

	_, err := ParsePeerType("oracle")
	configErr, ok := exceptions.AsConfigError(err)
	require.True(t, ok)
	assert.Contains(t, configErr.DisplayMessage(), `"oracle"`)
	assert.NotEmpty(t, configErr.InternalMessage())
}

func TestPeerConfigValidate(t *testing.T) {
	t.Parallel()

	valid := PeerConfig{Name: "dw", Type: PeerTypePostgres, Host: "localhost", User: "etl", Password: "hunter2"}
	require.NoError(t, valid.Validate())
	assert.Equal(t, uint32(5432), valid.PortOrDefault())

	tests := []struct {
		name    string
		mutate  func(*PeerConfig)
		display string
	}{
		{"missing host", func(c *PeerConfig) { c.Host = " " }, `Host must be set for peer "dw"`},
		{"missing user", func(c *PeerConfig) { c.User = "" }, `User must be set for peer "dw"`},
		{"bad port", func(c *PeerConfig) { c.Port = 70000 }, `Port 70000 is out of range for peer "dw"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := valid
			tc.mutate(&config)
			err := config.Validate()
			configErr, ok := exceptions.AsConfigError(err)
			require.True(t, ok)
			assert.Equal(t, tc.display, configErr.DisplayMessage())
			assert.NotContains(t, configErr.Error(), "hunter2")
		})
	}

	var missing *PeerConfig
	_, ok := exceptions.AsConfigError(missing.Validate())
	assert.True(t, ok)
}
