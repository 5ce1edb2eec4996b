package shared

type ContextKey string

const (
	PeerNameKey      ContextKey = "peerName"
	TableNameKey     ContextKey = "tableName"
	StreamNameKey    ContextKey = "streamName"
	DeploymentUIDKey ContextKey = "deploymentUID"
)
