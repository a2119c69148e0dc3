package pgwire

import (
	"log/slog"

	"github.com/pgwire/pgwire/wire"
)

// debugWrite logs one outbound message at Debug, matching the teacher's
// buffer.Writer.End, which logs every message a server writes to a client.
// Here it is the frontend state machines logging what they write to the
// server.
func debugWrite(logger *slog.Logger, msgType string) {
	logger.Debug("-> writing message", slog.String("type", msgType))
}

// debugRead logs one inbound message at Debug, matching the teacher's
// command.go dispatch loop ("<- incoming command").
func debugRead(logger *slog.Logger, msgType wire.ServerMessage) {
	logger.Debug("<- incoming message", slog.String("type", msgType.String()))
}
