package schemadelta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared/exceptions"
)

var (
	idColumn    = model.ColumnDefinition{Name: "id", Type: "int8"}
	nameColumn  = model.ColumnDefinition{Name: "name", Type: "text", Nullable: true}
	emailColumn = model.ColumnDefinition{Name: "email", Type: "varchar", ColumnSize: 255, Nullable: true}
)

func TestCompareIdenticalTablesMatch(t *testing.T) {
	t.Parallel()

	expected := model.NewTableDefinitionFromColumns(idColumn, nameColumn)
	actual := model.NewTableDefinitionFromColumns(idColumn, nameColumn)
	delta := Compare(expected, actual, CompareOptions{StrictOrder: true})
	assert.True(t, delta.Matches())
	assert.Empty(t, delta.Problems())
	assert.NoError(t, delta.ConfigError("public.users"))
}

func TestCompareTypeIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	expected := model.NewTableDefinitionFromColumns(model.ColumnDefinition{Name: "id", Type: "INT8"})
	actual := model.NewTableDefinitionFromColumns(idColumn)
	assert.True(t, Compare(expected, actual, CompareOptions{}).Matches())
}

func TestCompareReportsEveryKind(t *testing.T) {
	t.Parallel()

	expected := model.NewTableDefinitionFromColumns(idColumn, nameColumn, emailColumn)
	actual := model.NewTableDefinitionFromColumns(
		model.ColumnDefinition{Name: "id", Type: "int4"},
		model.ColumnDefinition{Name: "name", Type: "text"},
		model.ColumnDefinition{Name: "legacy", Type: "bool"},
	)

	delta := Compare(expected, actual, CompareOptions{})
	require.False(t, delta.Matches())
	assert.Equal(t, []string{"email"}, delta.MissingColumns)
	assert.Equal(t, []string{"legacy"}, delta.ExtraColumns)
	assert.Equal(t, []TypeMismatch{{Column: "id", Expected: "int8", Actual: "int4"}}, delta.TypeMismatches)
	assert.Equal(t, []NullabilityMismatch{{Column: "name", ExpectedNullable: true}}, delta.NullabilityMismatches)
	assert.Equal(t, []string{
		"missing columns: email",
		"unexpected columns: legacy",
		"column id has type int4, expected int8",
		"column name is NOT NULL, expected nullable",
	}, delta.Problems())
}

func TestCompareIgnoreOptions(t *testing.T) {
	t.Parallel()

	expected := model.NewTableDefinitionFromColumns(idColumn, nameColumn)
	actual := model.NewTableDefinitionFromColumns(idColumn, model.ColumnDefinition{Name: "name", Type: "text"}, emailColumn)

	assert.False(t, Compare(expected, actual, CompareOptions{IgnoreExtraColumns: true}).Matches())
	delta := Compare(expected, actual, CompareOptions{IgnoreExtraColumns: true, IgnoreNullability: true})
	assert.True(t, delta.Matches())
	assert.Equal(t, []string{"email"}, delta.ExtraColumns, "extras are still recorded")
}

func TestCompareStrictOrder(t *testing.T) {
	t.Parallel()

	expected := model.NewTableDefinitionFromColumns(idColumn, nameColumn)
	actual := model.NewTableDefinitionFromColumns(nameColumn, idColumn)

	assert.True(t, Compare(expected, actual, CompareOptions{}).Matches())
	delta := Compare(expected, actual, CompareOptions{StrictOrder: true})
	assert.True(t, delta.OrderMismatch)
	assert.False(t, delta.Matches())

	// extras in between do not count as reordering
	withExtra := model.NewTableDefinitionFromColumns(idColumn, emailColumn, nameColumn)
	assert.False(t, Compare(expected, withExtra, CompareOptions{StrictOrder: true}).OrderMismatch)
}

func TestCompareEmptyDefinitions(t *testing.T) {
	t.Parallel()

	empty := model.NewTableDefinition(nil)
	assert.True(t, Compare(empty, empty, CompareOptions{StrictOrder: true}).Matches())

	delta := Compare(model.NewTableDefinitionFromColumns(idColumn), empty, CompareOptions{})
	assert.Equal(t, []string{"id"}, delta.MissingColumns)
}

func TestDeltaConfigErrorSplitsAudiences(t *testing.T) {
	t.Parallel()

	expected := model.NewTableDefinitionFromColumns(idColumn, emailColumn)
	actual := model.NewTableDefinitionFromColumns(idColumn)
	err := Compare(expected, actual, CompareOptions{}).ConfigError("public.users")

	configErr, ok := exceptions.AsConfigError(err)
	require.True(t, ok)
	assert.Equal(t,
		"Destination table public.users does not match the expected schema: missing columns: email",
		configErr.DisplayMessage())
	assert.Contains(t, configErr.InternalMessage(), "missing=[email]")
}
