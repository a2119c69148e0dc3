package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pgwire/pgwire/wire"
)

// CommandComplete is the parsed form of a CommandComplete message: the raw
// command tag. RowsAffected extracts the affected row count where the tag
// encodes one.
type CommandComplete struct {
	Tag string
}

// ParseCommandComplete parses a CommandComplete message payload.
func ParseCommandComplete(payload []byte) (CommandComplete, error) {
	r := wire.NewReader(payload)
	tag, err := r.GetCString()
	if err != nil {
		return CommandComplete{}, fmt.Errorf("command complete tag: %w", err)
	}

	return CommandComplete{Tag: tag}, nil
}

// RowsAffected extracts the row count from a command tag, per spec §4.2:
// SELECT n, INSERT oid n, UPDATE n, DELETE n, COPY n, MOVE n, FETCH n. It
// returns (0, false) for tags that carry no row count (e.g. "BEGIN", "SET").
func (c CommandComplete) RowsAffected() (int64, bool) {
	fields := strings.Fields(c.Tag)
	if len(fields) == 0 {
		return 0, false
	}

	switch fields[0] {
	case "INSERT":
		if len(fields) != 3 {
			return 0, false
		}
		n, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case "SELECT", "UPDATE", "DELETE", "COPY", "MOVE", "FETCH":
		if len(fields) != 2 {
			return 0, false
		}
		n, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
