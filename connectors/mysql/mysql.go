package connmysql

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"

	"github.com/go-mysql-org/go-mysql/client"

	"github.com/PeerDB-io/destkit/internal"
	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared"
)

type MySqlConnector struct {
	conn   *client.Conn
	config *model.PeerConfig
	logger *slog.Logger
}

func NewMySqlConnector(ctx context.Context, config *model.PeerConfig) (*MySqlConnector, error) {
	logger := internal.LoggerFromCtx(ctx)
	dialer := &net.Dialer{Timeout: internal.DestkitConnectTimeout()}

	var argF []client.Option
	if config.RequireTls {
		argF = append(argF, func(conn *client.Conn) error {
			conn.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12, ServerName: config.Host})
			return nil
		})
	}

	conn, err := client.ConnectWithDialer(ctx, "", shared.JoinHostPort(config.Host, config.PortOrDefault()),
		config.User, config.Password, config.Database, dialer.DialContext, argF...)
	if err != nil {
		logger.Error("failed to connect to MySQL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	return &MySqlConnector{
		conn:   conn,
		config: config,
		logger: logger,
	}, nil
}

func (c *MySqlConnector) ConnectionActive(context.Context) error {
	return c.conn.Ping()
}

func (c *MySqlConnector) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	c.logger.Info("Closing MySQL connector")
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("failed to close MySQL connection: %w", err)
	}
	return nil
}
