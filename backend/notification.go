package backend

import (
	"fmt"

	"github.com/pgwire/pgwire/wire"
)

// NotificationResponse is the parsed form of an asynchronous LISTEN/NOTIFY
// delivery (spec §4.2).
type NotificationResponse struct {
	PID     uint32
	Channel string
	Payload string
}

// ParseNotificationResponse parses a NotificationResponse message payload.
func ParseNotificationResponse(payload []byte) (NotificationResponse, error) {
	r := wire.NewReader(payload)

	pid, err := r.GetUint32()
	if err != nil {
		return NotificationResponse{}, fmt.Errorf("notification pid: %w", err)
	}

	channel, err := r.GetCString()
	if err != nil {
		return NotificationResponse{}, fmt.Errorf("notification channel: %w", err)
	}

	notifyPayload, err := r.GetCString()
	if err != nil {
		return NotificationResponse{}, fmt.Errorf("notification payload: %w", err)
	}

	return NotificationResponse{PID: pid, Channel: channel, Payload: notifyPayload}, nil
}

// IsAsyncType reports whether t is one of the message types that can arrive
// unsolicited, at any point in the session (spec §4.5, §5): NoticeResponse,
// NotificationResponse, and ParameterStatus.
func IsAsyncType(t wire.ServerMessage) bool {
	switch t {
	case wire.ServerNoticeResponse, wire.ServerNotificationResponse, wire.ServerParameterStatus:
		return true
	default:
		return false
	}
}
