package connmysql

import (
	"context"
	"fmt"
	"log/slog"

	gomysql "github.com/go-mysql-org/go-mysql/mysql"

	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared/exceptions"
)

func columnsQuery(schema string, table string) string {
	return fmt.Sprintf(`
		SELECT column_name, column_type, COALESCE(character_maximum_length, numeric_precision, 0), is_nullable
		FROM information_schema.columns
		WHERE table_schema = '%s'
		  AND table_name = '%s'
		ORDER BY ordinal_position`,
		gomysql.Escape(schema), gomysql.Escape(table))
}

func columnsFromResult(rs *gomysql.Result) ([]model.ColumnDefinition, error) {
	columns := make([]model.ColumnDefinition, 0, rs.RowNumber())
	for idx := range rs.RowNumber() {
		columnName, err := rs.GetString(idx, 0)
		if err != nil {
			return nil, err
		}
		columnType, err := rs.GetString(idx, 1)
		if err != nil {
			return nil, err
		}
		columnSize, err := rs.GetInt(idx, 2)
		if err != nil {
			return nil, err
		}
		isNullable, err := rs.GetString(idx, 3)
		if err != nil {
			return nil, err
		}
		columns = append(columns, model.ColumnDefinition{
			Name:       columnName,
			Type:       columnType,
			ColumnSize: int32(min(columnSize, 1<<31-1)),
			Nullable:   isNullable == "YES",
		})
	}
	return columns, nil
}

// GetTableDefinition treats an empty schema as the connection's database.
func (c *MySqlConnector) GetTableDefinition(ctx context.Context, schema string, table string) (*model.TableDefinition, error) {
	if schema == "" {
		schema = c.config.Database
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rs, err := c.conn.Execute(columnsQuery(schema, table))
	if err != nil {
		return nil, exceptions.NewCatalogError(fmt.Errorf("failed to query columns of %s.%s: %w", schema, table, err))
	}
	defer rs.Close()

	columns, err := columnsFromResult(rs)
	if err != nil {
		return nil, exceptions.NewCatalogError(fmt.Errorf("failed to read columns of %s.%s: %w", schema, table, err))
	}
	if len(columns) == 0 {
		return nil, exceptions.NewTableNotFoundError(schema, table)
	}
	c.logger.Info("read table definition",
		slog.String("schema", schema), slog.String("table", table), slog.Int("columns", len(columns)))
	return model.NewTableDefinitionFromColumns(columns...), nil
}
