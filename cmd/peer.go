package cmd

import (
	"fmt"
	"math"

	"github.com/PeerDB-io/destkit/model"
	"github.com/PeerDB-io/destkit/shared"
	"github.com/PeerDB-io/destkit/shared/exceptions"
)

type PeerOptions struct {
	Name       string
	Type       string
	Host       string
	User       string
	Password   string
	Database   string
	Port       uint64
	RequireTls bool
}

func (o *PeerOptions) peerConfig() (*model.PeerConfig, error) {
	peerType, err := model.ParsePeerType(o.Type)
	if err != nil {
		return nil, err
	}
	if o.Port > math.MaxUint16 {
		return nil, exceptions.NewConfigErrorWithInternal(
			fmt.Sprintf("Port %d is out of range", o.Port),
			fmt.Sprintf("port=%d exceeds 65535", o.Port))
	}
	name := o.Name
	if name == "" {
		name = string(peerType) + "@" + shared.JoinHostPort(o.Host, o.Port)
	}
	return &model.PeerConfig{
		Name:       name,
		Type:       peerType,
		Host:       o.Host,
		Port:       uint32(o.Port),
		User:       o.User,
		Password:   o.Password,
		Database:   o.Database,
		RequireTls: o.RequireTls,
	}, nil
}

// resolveTable splits a "schema.table" argument when no schema was given separately.
func resolveTable(schema string, table string) (string, string) {
	if schema != "" {
		return schema, table
	}
	return shared.ParseQualifiedTable(table)
}
