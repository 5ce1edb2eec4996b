package connpostgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared/exceptions"
)

const defaultSchema = "public"

type columnRow struct {
	ColumnName string `db:"column_name"`
	TypeName   string `db:"type_name"`
	ColumnSize int32  `db:"column_size"`
	IsNullable bool   `db:"is_nullable"`
}

func columnFromRow(row columnRow) model.ColumnDefinition {
	return model.ColumnDefinition{
		Name:       row.ColumnName,
		Type:       row.TypeName,
		ColumnSize: row.ColumnSize,
		Nullable:   row.IsNullable,
	}
}

// GetTableDefinition reads columns in ordinal order. Array columns report their element udt name with a leading underscore, as Postgres does.
func (c *PostgresConnector) GetTableDefinition(ctx context.Context, schema string, table string) (*model.TableDefinition, error) {
	if schema == "" {
		schema = defaultSchema
	}
	rows, err := c.conn.Query(ctx, `SELECT
		column_name::text AS column_name,
		udt_name::text AS type_name,
		COALESCE(character_maximum_length, numeric_precision, datetime_precision, 0)::int4 AS column_size,
		is_nullable::text = 'YES' AS is_nullable
	FROM information_schema.columns
	WHERE table_schema = $1 AND table_name = $2
	ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, exceptions.NewCatalogError(fmt.Errorf("failed to query columns of %s.%s: %w", schema, table, err))
	}

	columnRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[columnRow])
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, exceptions.NewCatalogError(fmt.Errorf("failed to read columns of %s.%s: %w", schema, table, err))
	}
	if len(columnRows) == 0 {
		return nil, exceptions.NewTableNotFoundError(schema, table)
	}

	columns := make([]model.ColumnDefinition, 0, len(columnRows))
	for _, row := range columnRows {
		columns = append(columns, columnFromRow(row))
	}
	c.logger.Info("read table definition",
		slog.String("schema", schema), slog.String("table", table), slog.Int("columns", len(columns)))
	return model.NewTableDefinitionFromColumns(columns...), nil
}
