package backend

import (
	"fmt"

	"github.com/pgwire/pgwire/wire"
)

// CopyResponse is the parsed form of CopyInResponse, CopyOutResponse, and
// CopyBothResponse, which all share the same payload shape: an overall
// format byte followed by one format code per column (spec §4.2).
type CopyResponse struct {
	OverallFormat wire.FormatCode
	ColumnFormats []wire.FormatCode
}

// ParseCopyResponse parses a CopyInResponse/CopyOutResponse/CopyBothResponse
// message payload.
func ParseCopyResponse(payload []byte) (CopyResponse, error) {
	r := wire.NewReader(payload)

	format, err := r.GetByte()
	if err != nil {
		return CopyResponse{}, fmt.Errorf("copy response format: %w", err)
	}

	count, err := r.GetUint16()
	if err != nil {
		return CopyResponse{}, fmt.Errorf("copy response column count: %w", err)
	}

	resp := CopyResponse{
		OverallFormat: wire.FormatCode(format),
		ColumnFormats: make([]wire.FormatCode, 0, count),
	}

	for i := uint16(0); i < count; i++ {
		colFormat, err := r.GetInt16()
		if err != nil {
			return CopyResponse{}, fmt.Errorf("copy response column format %d: %w", i, err)
		}
		resp.ColumnFormats = append(resp.ColumnFormats, wire.FormatCode(colFormat))
	}

	return resp, nil
}

// CopyData is the parsed form of a CopyData message: an opaque chunk of the
// COPY stream, borrowed from the message payload.
type CopyData struct {
	Data []byte
}

// ParseCopyData parses a CopyData message payload.
func ParseCopyData(payload []byte) CopyData {
	return CopyData{Data: payload}
}
