package model

import (
	"fmt"
	"strings"

	"github.com/PeerDB-io/destkit/shared/exceptions"
)

type PeerType string

const (
	PeerTypePostgres   PeerType = "postgres"
	PeerTypeMySQL      PeerType = "mysql"
	PeerTypeClickHouse PeerType = "clickhouse"
)

func (p PeerType) DefaultPort() uint32 {
	switch p {
	case PeerTypePostgres:
		return 5432
	case PeerTypeMySQL:
		return 3306
	case PeerTypeClickHouse:
		return 9000
	default:
		return 0
	}
}

func ParsePeerType(s string) (PeerType, error) {
	switch p := PeerType(strings.ToLower(strings.TrimSpace(s))); p {
	case PeerTypePostgres, PeerTypeMySQL, PeerTypeClickHouse:
		return p, nil
	default:
		return "", exceptions.NewConfigErrorWithInternal(
			fmt.Sprintf("Unsupported peer type %q, expected one of postgres, mysql, clickhouse", s),
			"ParsePeerType: no connector registered for "+s)
	}
}

// PeerConfig is what a user supplies to reach a destination.
type PeerConfig struct {
	Name       string
	Type       PeerType
	Host       string
	Port       uint32
	User       string
	Password   string
	Database   string
	RequireTls bool
}

// Validate reports the first problem as a ConfigError. Password is never echoed.
func (c *PeerConfig) Validate() error {
	if c == nil {
		return exceptions.NewConfigError("Peer configuration is missing")
	}
	if _, err := ParsePeerType(string(c.Type)); err != nil {
		return err
	}
	if strings.TrimSpace(c.Host) == "" {
		return exceptions.NewConfigError(fmt.Sprintf("Host must be set for peer %q", c.Name))
	}
	if c.Port > 65535 {
		return exceptions.NewConfigErrorWithInternal(
			fmt.Sprintf("Port %d is out of range for peer %q", c.Port, c.Name),
			fmt.Sprintf("port=%d exceeds 65535", c.Port))
	}
	if strings.TrimSpace(c.User) == "" {
		return exceptions.NewConfigError(fmt.Sprintf("User must be set for peer %q", c.Name))
	}
	return nil
}

// PortOrDefault substitutes the peer type's well-known port for 0.
func (c *PeerConfig) PortOrDefault() uint32 {
	if c.Port == 0 {
		return c.Type.DefaultPort()
	}
	return c.Port
}
