package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared/exceptions"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expected.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTableFileKeepsColumnOrder(t *testing.T) {
	t.Parallel()

	td := model.NewTableDefinitionFromColumns(
		model.ColumnDefinition{Name: "zeta", Type: "int4"},
		model.ColumnDefinition{Name: "alpha", Type: "varchar", ColumnSize: 255, Nullable: true},
		model.ColumnDefinition{Name: "mid", Type: "timestamptz", Nullable: true},
	)
	var buf bytes.Buffer
	require.NoError(t, writeTableFile(&buf, newTableFile("public", "events", td)))

	path := writeTemp(t, buf.String())
	f, err := readTableFile(path)
	require.NoError(t, err)
	assert.Equal(t, "public", f.Schema)
	assert.Equal(t, "events", f.Table)
	assert.True(t, td.Equal(f.definition()))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, f.definition().ColumnNames())
}

func TestReadTableFileErrorsAreConfigErrors(t *testing.T) {
	t.Parallel()

	for name, path := range map[string]string{
		"missing":   filepath.Join(t.TempDir(), "nope.json"),
		"malformed": writeTemp(t, `{"table": "events", "columns": [`),
		"duplicate": writeTemp(t, `{"table":"events","columns":[{"name":"id","type":"int"},{"name":"id","type":"int"}]}`),
	} {
		_, err := readTableFile(path)
		configErr, ok := exceptions.AsConfigError(err)
		require.True(t, ok, name)
		assert.Contains(t, configErr.DisplayMessage(), path, name)
	}
}
