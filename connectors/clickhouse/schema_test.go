package connclickhouse

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared/exceptions"
)

func TestColumnFromType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		chType   string
		nullable bool
		size     int32
	}{
		{"String", false, 0},
		{"Nullable(String)", true, 0},
		{"LowCardinality(Nullable(String))", true, 0},
		{"FixedString(16)", false, 16},
		{"Nullable(Decimal(38, 9))", true, 38},
		{"DateTime64(6)", false, 6},
		{"Array(Nullable(Int32))", false, 0},
	}
	for _, tc := range tests {
		t.Run(tc.chType, func(t *testing.T) {
			column := columnFromType("c", tc.chType)
			assert.Equal(t, model.ColumnDefinition{Name: "c", Type: tc.chType, ColumnSize: tc.size, Nullable: tc.nullable}, column)
		})
	}
}

func TestGetTableDefinitionAgainstClickHouse(t *testing.T) {
	host := os.Getenv("DESTKIT_TEST_CH_HOST")
	if host == "" {
		t.Skip("DESTKIT_TEST_CH_HOST not set")
	}
	ctx := context.Background()
	connector, err := NewClickHouseConnector(ctx, &model.PeerConfig{
		Name:     "test",
		Type:     model.PeerTypeClickHouse,
		Host:     host,
		User:     os.Getenv("DESTKIT_TEST_CH_USER"),
		Password: os.Getenv("DESTKIT_TEST_CH_PASSWORD"),
		Database: os.Getenv("DESTKIT_TEST_CH_DATABASE"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = connector.Close() })

	require.NoError(t, connector.database.Exec(ctx, "DROP TABLE IF EXISTS destkit_td_test"))
	require.NoError(t, connector.database.Exec(ctx,
		"CREATE TABLE destkit_td_test(zeta UInt64, alpha Nullable(String)) ENGINE = MergeTree ORDER BY zeta"))
	t.Cleanup(func() { _ = connector.database.Exec(context.Background(), "DROP TABLE IF EXISTS destkit_td_test") })

	td, err := connector.GetTableDefinition(ctx, "", "destkit_td_test")
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, td.ColumnNames())
	alpha, _ := td.Column("alpha")
	assert.True(t, alpha.Nullable)

	_, err = connector.GetTableDefinition(ctx, "", "destkit_td_missing")
	var notFound *exceptions.TableNotFoundError
	require.ErrorAs(t, err, &notFound)
}
