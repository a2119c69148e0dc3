package pgwire

import (
	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/wire"
)

// stepAsync recognizes the three message types that may arrive unsolicited
// at any point in a session (spec §4.5, §5: Notice, Notification,
// ParameterStatus) and, when msgType matches one, returns the corresponding
// Action. ok is false for every other message type, meaning the caller
// should continue with its own state-specific dispatch.
func stepAsync(msgType wire.ServerMessage, payload []byte) (action Action, ok bool, err error) {
	switch msgType {
	case wire.ServerNoticeResponse:
		notice, perr := backend.ParseErrorResponse(payload)
		if perr != nil {
			return Action{}, true, protocolErrorf("%v", perr)
		}
		return asyncAction(AsyncMessage{Kind: AsyncNotice, Notice: notice}), true, nil
	case wire.ServerNotificationResponse:
		n, perr := backend.ParseNotificationResponse(payload)
		if perr != nil {
			return Action{}, true, protocolErrorf("%v", perr)
		}
		return asyncAction(AsyncMessage{
			Kind:                AsyncNotification,
			NotificationPID:     n.PID,
			NotificationChannel: n.Channel,
			NotificationPayload: n.Payload,
		}), true, nil
	case wire.ServerParameterStatus:
		ps, perr := backend.ParseParameterStatus(payload)
		if perr != nil {
			return Action{}, true, protocolErrorf("%v", perr)
		}
		return asyncAction(AsyncMessage{
			Kind:           AsyncParameterChanged,
			ParameterName:  ps.Name,
			ParameterValue: ps.Value,
		}), true, nil
	default:
		return Action{}, false, nil
	}
}
