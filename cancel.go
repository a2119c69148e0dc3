package pgwire

import (
	"github.com/pgwire/pgwire/frontend"
	"github.com/pgwire/pgwire/wire"
)

// BuildCancelRequest builds the single packet a second, short-lived
// connection writes and then closes without awaiting a reply: PostgreSQL
// defines no response to CancelRequest (spec §5, §6). pid and secretKey
// come from the target session's BackendKeyData.
func BuildCancelRequest(pid, secretKey uint32) []byte {
	return frontend.WriteCancelRequest(wire.NewWriter(nil), pid, secretKey)
}
