package wire

import (
	"encoding/binary"
)

// Writer builds a single frontend message into a caller-owned byte buffer:
// Start reserves the type byte and a 4-byte length placeholder, the Add*
// methods append the payload, and End back-patches the length field. It is
// sans-I/O: the caller is responsible for writing the message End returns to
// the transport
// (spec §4.1, §4.3).
//
// Startup-class messages (SSLRequest, StartupMessage, CancelRequest) have no
// type byte; use StartUntyped for those.
type Writer struct {
	buf     []byte
	typed   bool
	started bool
}

// NewWriter constructs a Writer that appends onto buf (which may be nil or
// reused from a buffer pool). The returned Writer owns buf until End/Reset.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf[:0]}
}

// Reset clears the buffer for reuse, retaining its capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.started = false
}

// Start begins a new typed message: the type byte followed by a 4-byte
// length placeholder.
func (w *Writer) Start(t ClientMessage) {
	w.buf = append(w.buf, byte(t), 0, 0, 0, 0)
	w.typed = true
	w.started = true
}

// StartUntyped begins a new startup-class message: only the 4-byte length
// placeholder, no type byte.
func (w *Writer) StartUntyped() {
	w.buf = append(w.buf, 0, 0, 0, 0)
	w.typed = false
	w.started = true
}

// AddByte appends a single byte.
func (w *Writer) AddByte(b byte) {
	w.buf = append(w.buf, b)
}

// AddBytes appends raw bytes.
func (w *Writer) AddBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// AddString appends a string without a terminator.
func (w *Writer) AddString(s string) {
	w.buf = append(w.buf, s...)
}

// AddCString appends a string followed by a NUL terminator.
func (w *Writer) AddCString(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// AddNullTerminate appends a bare NUL byte (used to close a repeated-field
// list, e.g. the startup parameter list or a SASL mechanism list).
func (w *Writer) AddNullTerminate() {
	w.buf = append(w.buf, 0)
}

// AddInt16 appends a big-endian int16.
func (w *Writer) AddInt16(v int16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(v))
}

// AddUint16 appends a big-endian uint16.
func (w *Writer) AddUint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// AddInt32 appends a big-endian int32.
func (w *Writer) AddInt32(v int32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(v))
}

// AddUint32 appends a big-endian uint32.
func (w *Writer) AddUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// AddInt64 appends a big-endian int64.
func (w *Writer) AddInt64(v int64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, uint64(v))
}

// AddInt32PrefixedBytes appends a 4-byte length prefix followed by data, or
// a -1 length prefix with no data when data is nil (the wire's NULL
// encoding for column/parameter values, spec §4.3, §4.4).
func (w *Writer) AddInt32PrefixedBytes(data []byte) {
	if data == nil {
		w.AddInt32(-1)
		return
	}

	w.AddInt32(int32(len(data)))
	w.AddBytes(data)
}

// End back-patches the reserved length field (self-inclusive: it covers the
// length field itself plus everything after it, but not the leading type
// byte when present) and returns the completed message. End does not clear
// the buffer: call Reset before building another message with the same
// Writer, since the length field patched is always the one at the start of
// the buffer.
func (w *Writer) End() []byte {
	offset := 0
	if w.typed {
		offset = 1
	}

	length := uint32(len(w.buf) - offset)
	binary.BigEndian.PutUint32(w.buf[offset:offset+4], length)
	w.started = false
	return w.buf
}

// Len returns the number of bytes written to the current message so far.
func (w *Writer) Len() int {
	return len(w.buf)
}
