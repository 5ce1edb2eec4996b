package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinHostPort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "db.internal:5432", JoinHostPort("db.internal", uint32(5432)))
	assert.Equal(t, "[::1]:9000", JoinHostPort("::1", 9000))
}

func TestQualifiedTableRoundTrip(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name   string
		schema string
		table  string
	}{
		{"public.users", "public", "users"},
		{"users", "", "users"},
		{"analytics.events.v2", "analytics", "events.v2"},
	} {
		schema, table := ParseQualifiedTable(tc.name)
		assert.Equal(t, tc.schema, schema, tc.name)
		assert.Equal(t, tc.table, table, tc.name)
		assert.Equal(t, tc.name, QualifiedTable(schema, table))
	}
}
