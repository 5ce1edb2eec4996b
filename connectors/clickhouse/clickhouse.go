package connclickhouse

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/PeerDB-io/destkit/internal"
	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared"
)

type ClickHouseConnector struct {
	database clickhouse.Conn
	config   *model.PeerConfig
	logger   *slog.Logger
}

func Connect(ctx context.Context, config *model.PeerConfig) (clickhouse.Conn, error) {
	var tlsSetting *tls.Config
	if config.RequireTls {
		tlsSetting = &tls.Config{MinVersion: tls.VersionTLS13, ServerName: config.Host}
	}
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{shared.JoinHostPort(config.Host, config.PortOrDefault())},
		Auth: clickhouse.Auth{
			Database: config.Database,
			Username: config.User,
			Password: config.Password,
		},
		TLS:         tlsSetting,
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{
				{Name: "destkit"},
			},
		},
		DialTimeout: internal.DestkitConnectTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse peer: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping to ClickHouse peer: %w", err)
	}

	return conn, nil
}

func NewClickHouseConnector(ctx context.Context, config *model.PeerConfig) (*ClickHouseConnector, error) {
	logger := internal.LoggerFromCtx(ctx)
	database, err := Connect(ctx, config)
	if err != nil {
		logger.Error("failed to open connection to ClickHouse peer", slog.Any("error", err))
		return nil, err
	}

	return &ClickHouseConnector{
		database: database,
		config:   config,
		logger:   logger,
	}, nil
}

func (c *ClickHouseConnector) ConnectionActive(ctx context.Context) error {
	return c.database.Ping(ctx)
}

func (c *ClickHouseConnector) Close() error {
	if c == nil || c.database == nil {
		return nil
	}
	if err := c.database.Close(); err != nil {
		return fmt.Errorf("error while closing connection to ClickHouse peer: %w", err)
	}
	return nil
}
