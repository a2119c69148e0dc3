package backend

import "fmt"

// ParseComplete, BindComplete, CloseComplete, NoData, PortalSuspended,
// EmptyQueryResponse, and CopyDone all carry an empty payload; parsing them
// is an existence check (spec §4.2). checkEmpty is shared by all of them.
func checkEmpty(name string, payload []byte) error {
	if len(payload) != 0 {
		return fmt.Errorf("%w: %s expects an empty payload, got %d bytes", ErrProtocol, name, len(payload))
	}
	return nil
}

func ParseParseComplete(payload []byte) error       { return checkEmpty("ParseComplete", payload) }
func ParseBindComplete(payload []byte) error         { return checkEmpty("BindComplete", payload) }
func ParseCloseComplete(payload []byte) error        { return checkEmpty("CloseComplete", payload) }
func ParseNoData(payload []byte) error               { return checkEmpty("NoData", payload) }
func ParsePortalSuspended(payload []byte) error      { return checkEmpty("PortalSuspended", payload) }
func ParseEmptyQueryResponse(payload []byte) error   { return checkEmpty("EmptyQueryResponse", payload) }
func ParseCopyDone(payload []byte) error             { return checkEmpty("CopyDone", payload) }
