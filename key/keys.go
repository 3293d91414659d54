// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 13

// Bridge Core - these keys shape the in-process handle registry and its event loop.
const (
	BridgePlatform  = "bridge.platform"
	BridgeQueueSize = "bridge.queue_size"
)

// Native Host - these keys locate or spawn the process that owns the native media engine.
const (
	HostBinary = "host.binary"
	HostSocket = "host.socket"
)

// IPC Transport - these keys tune the socket client used as the command channel.
const (
	IPCRetries      = "ipc.retries"
	IPCRetryDelayMs = "ipc.retry_delay_ms"
)

// Session Journal - these keys govern persistence of live handle ids for later re-attachment.
const (
	SessionPersist = "session.persist"
)

// Metrics - exposition of bridge counters.
const (
	MetricsAddress = "metrics.address"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored = "cli.colored"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)
