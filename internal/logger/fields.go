package logger

// Standard field keys for structured logging. Use these consistently across
// the session manager, router, and facade so log aggregation can query by key.
const (
	// Distributed tracing
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// Registry / session identity
	KeyRegistry   = "registry"
	KeyHost       = "host"
	KeyServerID   = "server_id"
	KeyState      = "state"
	KeyPrevState  = "prev_state"
	KeySubordOf   = "subordinate_of"
	KeySubordKind = "subordinate_kind"

	// Command / transaction correlation
	KeyCommand      = "command"
	KeyClientTxnID  = "client_txn_id"
	KeyServerTxnID  = "server_txn_id"
	KeyResultCode   = "result_code"
	KeyResultClass  = "result_class"
	KeyPending      = "pending"

	// Networking
	KeyRemoteAddr = "remote_addr"
	KeyLocalAddr  = "local_addr"
	KeyFrameBytes = "frame_bytes"

	// Domain / router
	KeyDomain = "domain"
	KeyZone   = "zone"

	// Errors
	KeyError = "error"
)
