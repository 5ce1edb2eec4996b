package connectors

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	connclickhouse "github.com/PeerDB-io/destkit/connectors/clickhouse"
	connmysql "github.com/PeerDB-io/destkit/connectors/mysql"
	connpostgres "github.com/PeerDB-io/destkit/connectors/postgres"
	"github.com/PeerDB-io/destkit/internal"
	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/otel_metrics"
	"github.com/PeerDB-io/destkit/shared"
	"github.com/PeerDB-io/destkit/shared/exceptions"
)

type Connector interface {
	io.Closer
	ConnectionActive(context.Context) error
}

type TableDefinitionConnector interface {
	Connector

	// GetTableDefinition returns columns in the table's declared order.
	// A table without visible columns yields *exceptions.TableNotFoundError.
	GetTableDefinition(ctx context.Context, schema string, table string) (*model.TableDefinition, error)
}

var (
	_ TableDefinitionConnector = &connpostgres.PostgresConnector{}
	_ TableDefinitionConnector = &connmysql.MySqlConnector{}
	_ TableDefinitionConnector = &connclickhouse.ClickHouseConnector{}
)

// GetConnector validates config before dialing. An invalid config comes back as *exceptions.ConfigError,
// a dial failure as *exceptions.PeerCreateError.
func GetConnector(ctx context.Context, config *model.PeerConfig) (TableDefinitionConnector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var conn TableDefinitionConnector
	var err error
	switch config.Type {
	case model.PeerTypePostgres:
		conn, err = connpostgres.NewPostgresConnector(ctx, config)
	case model.PeerTypeMySQL:
		conn, err = connmysql.NewMySqlConnector(ctx, config)
	case model.PeerTypeClickHouse:
		conn, err = connclickhouse.NewClickHouseConnector(ctx, config)
	default:
		return nil, exceptions.NewConfigError(fmt.Sprintf("Unsupported peer type %q", config.Type))
	}
	if err != nil {
		return nil, exceptions.NewPeerCreateError(err)
	}
	return conn, nil
}

func CloseConnector(ctx context.Context, conn io.Closer) {
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		internal.LoggerFromCtx(ctx).Error("error closing connector", slog.Any("error", err))
	}
}

// ReadTableDefinition opens a connector for config, reads one table, and closes the connector.
// otelManager may be nil.
func ReadTableDefinition(
	ctx context.Context,
	config *model.PeerConfig,
	schema string,
	table string,
	otelManager *otel_metrics.OtelManager,
) (*model.TableDefinition, error) {
	ctx = internal.WithTableName(internal.WithPeerName(ctx, config.Name), shared.QualifiedTable(schema, table))
	conn, err := GetConnector(ctx, config)
	if err != nil {
		return nil, err
	}
	defer CloseConnector(ctx, conn)

	td, err := conn.GetTableDefinition(ctx, schema, table)
	if err != nil {
		return nil, err
	}
	if otelManager != nil {
		otelManager.Metrics.TablesIntrospectedCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String(otel_metrics.PeerTypeKey, string(config.Type))))
	}
	return td, nil
}
