// Package wire contains the sans-I/O codec primitives shared by every
// backend parser and frontend builder: the message type byte enums, the
// Oid registry, and the big-endian/length-prefixed framing helpers.
package wire

import "github.com/lib/pq/oid"

// Oid is a PostgreSQL type identifier, reused directly from lib/pq's
// well-known pg_type registry (spec §3).
type Oid = oid.Oid

// Well-known type OIDs used throughout the value codec.
const (
	Bool        = oid.T_bool
	Int2        = oid.T_int2
	Int4        = oid.T_int4
	Int8        = oid.T_int8
	Float4      = oid.T_float4
	Float8      = oid.T_float8
	Text        = oid.T_text
	Varchar     = oid.T_varchar
	Bpchar      = oid.T_bpchar
	Name        = oid.T_name
	Bytea       = oid.T_bytea
	Numeric     = oid.T_numeric
	UUID        = oid.T_uuid
	Date        = oid.T_date
	Time        = oid.T_time
	Timestamp   = oid.T_timestamp
	TimestampTZ = oid.T_timestamptz
	JSON        = oid.T_json
	JSONB       = oid.T_jsonb
)

// FormatCode represents the wire encoding format of a given value: text or
// binary. Unknown values decode as Text (spec §3).
type FormatCode int16

const (
	TextFormat   FormatCode = 0
	BinaryFormat FormatCode = 1
)

func (f FormatCode) String() string {
	switch f {
	case TextFormat:
		return "Text"
	case BinaryFormat:
		return "Binary"
	default:
		return "Text"
	}
}

// ClientMessage represents a message type byte the frontend writes.
type ClientMessage byte

// ServerMessage represents a message type byte the backend sends, which the
// frontend (this engine) parses.
type ServerMessage byte

// DescribeMessage represents the subtype byte of a Describe message.
type DescribeMessage byte

// http://www.postgresql.org/docs/current/static/protocol-message-formats.html
const (
	ClientBind        ClientMessage = 'B'
	ClientClose       ClientMessage = 'C'
	ClientCopyData    ClientMessage = 'd'
	ClientCopyDone    ClientMessage = 'c'
	ClientCopyFail    ClientMessage = 'f'
	ClientDescribe    ClientMessage = 'D'
	ClientExecute     ClientMessage = 'E'
	ClientFlush       ClientMessage = 'H'
	ClientParse       ClientMessage = 'P'
	ClientPassword    ClientMessage = 'p'
	ClientSimpleQuery ClientMessage = 'Q'
	ClientSync        ClientMessage = 'S'
	ClientTerminate   ClientMessage = 'X'

	ServerAuth                   ServerMessage = 'R'
	ServerBackendKeyData         ServerMessage = 'K'
	ServerBindComplete           ServerMessage = '2'
	ServerCommandComplete        ServerMessage = 'C'
	ServerCloseComplete          ServerMessage = '3'
	ServerCopyData               ServerMessage = 'd'
	ServerCopyDone               ServerMessage = 'c'
	ServerCopyInResponse         ServerMessage = 'G'
	ServerCopyOutResponse        ServerMessage = 'H'
	ServerCopyBothResponse       ServerMessage = 'W'
	ServerDataRow                ServerMessage = 'D'
	ServerEmptyQuery             ServerMessage = 'I'
	ServerErrorResponse          ServerMessage = 'E'
	ServerNoticeResponse         ServerMessage = 'N'
	ServerNoData                 ServerMessage = 'n'
	ServerNotificationResponse   ServerMessage = 'A'
	ServerNegotiateProtoVersion  ServerMessage = 'v'
	ServerParameterDescription   ServerMessage = 't'
	ServerParameterStatus        ServerMessage = 'S'
	ServerParseComplete          ServerMessage = '1'
	ServerPortalSuspended        ServerMessage = 's'
	ServerReady                  ServerMessage = 'Z'
	ServerRowDescription         ServerMessage = 'T'

	DescribePortal    DescribeMessage = 'P'
	DescribeStatement DescribeMessage = 'S'
)

func (m ClientMessage) String() string {
	switch m {
	case ClientBind:
		return "Bind"
	case ClientClose:
		return "Close"
	case ClientCopyData:
		return "CopyData"
	case ClientCopyDone:
		return "CopyDone"
	case ClientCopyFail:
		return "CopyFail"
	case ClientDescribe:
		return "Describe"
	case ClientExecute:
		return "Execute"
	case ClientFlush:
		return "Flush"
	case ClientParse:
		return "Parse"
	case ClientPassword:
		return "Password"
	case ClientSimpleQuery:
		return "SimpleQuery"
	case ClientSync:
		return "Sync"
	case ClientTerminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}

func (m ServerMessage) String() string {
	switch m {
	case ServerAuth:
		return "Auth"
	case ServerBackendKeyData:
		return "BackendKeyData"
	case ServerBindComplete:
		return "BindComplete"
	case ServerCommandComplete:
		return "CommandComplete"
	case ServerCloseComplete:
		return "CloseComplete"
	case ServerCopyData:
		return "CopyData"
	case ServerCopyDone:
		return "CopyDone"
	case ServerCopyInResponse:
		return "CopyInResponse"
	case ServerCopyOutResponse:
		return "CopyOutResponse"
	case ServerCopyBothResponse:
		return "CopyBothResponse"
	case ServerDataRow:
		return "DataRow"
	case ServerEmptyQuery:
		return "EmptyQuery"
	case ServerErrorResponse:
		return "ErrorResponse"
	case ServerNoticeResponse:
		return "NoticeResponse"
	case ServerNoData:
		return "NoData"
	case ServerNotificationResponse:
		return "NotificationResponse"
	case ServerNegotiateProtoVersion:
		return "NegotiateProtocolVersion"
	case ServerParameterDescription:
		return "ParameterDescription"
	case ServerParameterStatus:
		return "ParameterStatus"
	case ServerParseComplete:
		return "ParseComplete"
	case ServerPortalSuspended:
		return "PortalSuspended"
	case ServerReady:
		return "ReadyForQuery"
	case ServerRowDescription:
		return "RowDescription"
	default:
		return "Unknown"
	}
}

func (m DescribeMessage) String() string {
	switch m {
	case DescribePortal:
		return "Portal"
	case DescribeStatement:
		return "Statement"
	default:
		return "Unknown"
	}
}

// Version represents a connection version presented inside the startup
// header. See https://www.postgresql.org/docs/current/protocol-message-formats.html
type Version uint32

const (
	Version30         Version = 196608   // (3 << 16) + 0
	VersionCancel     Version = 80877102 // (1234 << 16) + 5678
	VersionSSLRequest Version = 80877103 // (1234 << 16) + 5679
	VersionGSSENC     Version = 80877104 // (1234 << 16) + 5680
)

// TransactionStatus is derived from the single byte inside ReadyForQuery.
type TransactionStatus byte

const (
	TransactionIdle   TransactionStatus = 'I'
	TransactionInTx   TransactionStatus = 'T'
	TransactionFailed TransactionStatus = 'E'
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionIdle:
		return "Idle"
	case TransactionInTx:
		return "InTransaction"
	case TransactionFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
