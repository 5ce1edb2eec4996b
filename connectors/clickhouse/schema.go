package connclickhouse

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared/exceptions"
)

// columnFromType derives nullability and size from the ClickHouse type string,
// e.g. Nullable(FixedString(16)) or LowCardinality(Nullable(String)).
func columnFromType(name string, chType string) model.ColumnDefinition {
	inner := strings.TrimSpace(chType)
	if trimmed, ok := unwrapType(inner, "LowCardinality"); ok {
		inner = trimmed
	}
	nullable := false
	if trimmed, ok := unwrapType(inner, "Nullable"); ok {
		inner = trimmed
		nullable = true
	}

	var size int32
	for _, sized := range []string{"FixedString", "Decimal", "DateTime64"} {
		if args, ok := unwrapType(inner, sized); ok {
			first, _, _ := strings.Cut(args, ",")
			if n, err := strconv.ParseInt(strings.TrimSpace(first), 10, 32); err == nil {
				size = int32(n)
			}
			break
		}
	}

	return model.ColumnDefinition{
		Name:       name,
		Type:       chType,
		ColumnSize: size,
		Nullable:   nullable,
	}
}

func unwrapType(chType string, wrapper string) (string, bool) {
	if strings.HasPrefix(chType, wrapper+"(") && strings.HasSuffix(chType, ")") {
		return chType[len(wrapper)+1 : len(chType)-1], true
	}
	return chType, false
}

// GetTableDefinition uses the connection's database when schema is empty.
func (c *ClickHouseConnector) GetTableDefinition(ctx context.Context, schema string, table string) (*model.TableDefinition, error) {
	query := "SELECT name, type FROM system.columns WHERE database = ? AND table = ? ORDER BY position"
	args := []any{schema, table}
	if schema == "" {
		query = "SELECT name, type FROM system.columns WHERE database = currentDatabase() AND table = ? ORDER BY position"
		args = []any{table}
	}

	rows, err := c.database.Query(ctx, query, args...)
	if err != nil {
		return nil, exceptions.NewCatalogError(fmt.Errorf("failed to query columns of %s: %w", table, err))
	}
	defer rows.Close()

	var columns []model.ColumnDefinition
	for rows.Next() {
		var name, chType string
		if err := rows.Scan(&name, &chType); err != nil {
			return nil, exceptions.NewCatalogError(fmt.Errorf("failed to scan column of %s: %w", table, err))
		}
		columns = append(columns, columnFromType(name, chType))
	}
	if err := rows.Err(); err != nil {
		return nil, exceptions.NewCatalogError(fmt.Errorf("failed to read columns of %s: %w", table, err))
	}
	if len(columns) == 0 {
		return nil, exceptions.NewTableNotFoundError(schema, table)
	}

	c.logger.Info("read table definition",
		slog.String("database", schema), slog.String("table", table), slog.Int("columns", len(columns)))
	return model.NewTableDefinitionFromColumns(columns...), nil
}
