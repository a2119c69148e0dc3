package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInsufficientData is returned when a parser attempts to read more bytes
// than remain in the current message payload.
var ErrInsufficientData = errors.New("insufficient data")

// ErrMissingNulTerminator is returned when GetCString does not find a NUL
// byte inside the remaining payload.
var ErrMissingNulTerminator = errors.New("missing NUL terminator")

// FrameHeaderSize is the size, in bytes, of a length-prefixed message header
// (the 4-byte big-endian, self-inclusive length field).
const FrameHeaderSize = 4

// PayloadSize decodes the length field of a framed message header and
// returns the size of the payload that follows it (the length field is
// self-inclusive, so the payload is 4 bytes shorter than the encoded value).
// header must be exactly FrameHeaderSize bytes.
func PayloadSize(header []byte) (int, error) {
	if len(header) != FrameHeaderSize {
		return 0, fmt.Errorf("%w: frame header must be %d bytes, got %d", ErrInsufficientData, FrameHeaderSize, len(header))
	}

	size := int(binary.BigEndian.Uint32(header)) - FrameHeaderSize
	if size < 0 {
		return 0, fmt.Errorf("invalid frame length field")
	}

	return size, nil
}

// Reader parses a single message payload zero-copy: every Get* method
// returns a slice into (or a value decoded from) the bytes the caller
// handed to Reset, advancing the read cursor. Parsers must never read
// beyond the payload the host supplied (spec invariant, §3).
type Reader struct {
	msg []byte
}

// NewReader constructs a Reader over the given message payload. The payload
// must remain valid and unmodified for the lifetime of the Reader.
func NewReader(payload []byte) *Reader {
	return &Reader{msg: payload}
}

// Reset rebinds the reader to a new payload, discarding any remaining bytes
// from the previous message.
func (r *Reader) Reset(payload []byte) {
	r.msg = payload
}

// Remaining returns the number of unread bytes in the current payload.
func (r *Reader) Remaining() int {
	return len(r.msg)
}

// Bytes returns the remaining unread bytes without advancing the cursor.
func (r *Reader) Bytes() []byte {
	return r.msg
}

// GetByte reads a single byte.
func (r *Reader) GetByte() (byte, error) {
	if len(r.msg) < 1 {
		return 0, ErrInsufficientData
	}

	v := r.msg[0]
	r.msg = r.msg[1:]
	return v, nil
}

// GetBytes reads exactly n bytes. GetBytes(-1) returns (nil, nil) to match
// the wire's convention for encoding a NULL column/parameter value as a -1
// length prefix (spec §4.2, §4.3).
func (r *Reader) GetBytes(n int) ([]byte, error) {
	if n == -1 {
		return nil, nil
	}

	if n < 0 || len(r.msg) < n {
		return nil, fmt.Errorf("%w: wanted %d bytes, have %d", ErrInsufficientData, n, len(r.msg))
	}

	v := r.msg[:n]
	r.msg = r.msg[n:]
	return v, nil
}

// GetCString reads a NUL-terminated string, returning it without the
// terminator. The returned string is a copy and does not alias the payload.
func (r *Reader) GetCString() (string, error) {
	pos := bytes.IndexByte(r.msg, 0)
	if pos == -1 {
		return "", ErrMissingNulTerminator
	}

	s := string(r.msg[:pos])
	r.msg = r.msg[pos+1:]
	return s, nil
}

// GetUint16 reads a big-endian uint16.
func (r *Reader) GetUint16() (uint16, error) {
	if len(r.msg) < 2 {
		return 0, ErrInsufficientData
	}

	v := binary.BigEndian.Uint16(r.msg[:2])
	r.msg = r.msg[2:]
	return v, nil
}

// GetInt16 reads a big-endian int16.
func (r *Reader) GetInt16() (int16, error) {
	v, err := r.GetUint16()
	return int16(v), err
}

// GetUint32 reads a big-endian uint32.
func (r *Reader) GetUint32() (uint32, error) {
	if len(r.msg) < 4 {
		return 0, ErrInsufficientData
	}

	v := binary.BigEndian.Uint32(r.msg[:4])
	r.msg = r.msg[4:]
	return v, nil
}

// GetInt32 reads a big-endian int32.
func (r *Reader) GetInt32() (int32, error) {
	v, err := r.GetUint32()
	return int32(v), err
}

// GetUint64 reads a big-endian uint64.
func (r *Reader) GetUint64() (uint64, error) {
	if len(r.msg) < 8 {
		return 0, ErrInsufficientData
	}

	v := binary.BigEndian.Uint64(r.msg[:8])
	r.msg = r.msg[8:]
	return v, nil
}

// GetInt64 reads a big-endian int64.
func (r *Reader) GetInt64() (int64, error) {
	v, err := r.GetUint64()
	return int64(v), err
}
