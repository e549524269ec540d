package types

type ServiceMode string

// Map Service - subscribes to the bin telemetry topic, keeps the live markers and serves the map
// Archive Service - consumes marker events and keeps the durable reading history
const (
	MapService     ServiceMode = "map-service"
	ArchiveService ServiceMode = "archive-service"
)

func (m ServiceMode) String() string {
	return string(m)
}

// UserRole is the role claim of an operator token
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	RoleOperator UserRole = "OPERATOR"
	RoleViewer   UserRole = "VIEWER"
)

// MessageType tags the frames pushed to map clients
type MessageType string

const (
	MessageSnapshot MessageType = "snapshot"
	MessageMarker   MessageType = "marker"
	MessageRemoved  MessageType = "removed"
)

// ReadingSource tells where a reading entered the pipeline
type ReadingSource string

const (
	SourceMQTT     ReadingSource = "mqtt"
	SourceOperator ReadingSource = "operator"
)
