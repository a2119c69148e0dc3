package pgwire

// BufferSet is pooled read/write scratch space for a host (spec §3, §5): a
// read buffer, a write buffer, a column buffer and a type byte. The state
// machines in this package do not take a BufferSet: Step receives the
// message type and payload as arguments, outgoing packets are built with
// their own wire.Writer and returned in Action.Packet, and prepared
// statements cache their parsed RowDescription on PreparedStatement rather
// than in ColumnBuffer.
type BufferSet struct {
	Read         []byte
	Write        []byte
	ColumnBuffer []byte
	TypeByte     byte
}

// Reset clears Read/Write for reuse without releasing their capacity.
// ColumnBuffer is left untouched.
func (b *BufferSet) Reset() {
	b.Read = b.Read[:0]
	b.Write = b.Write[:0]
	b.TypeByte = 0
}

// bufferPoolCapacity bounds the process-wide buffer pool (spec §5: "a
// bounded lock-free queue with capacity 128; exceeding capacity drops the
// returning buffer").
const bufferPoolCapacity = 128

// bufferPool is a process-wide, multi-producer/multi-consumer pool of
// BufferSets. A buffered channel is Go's idiomatic bounded concurrent
// queue: Get never blocks (it falls back to allocating), and Put drops the
// buffer silently once the channel is full, matching the "GC by the
// allocator" overflow policy spec §5 describes.
var bufferPool = make(chan *BufferSet, bufferPoolCapacity)

// GetBufferSet returns a BufferSet from the pool, or a freshly allocated one
// if the pool is empty.
func GetBufferSet() *BufferSet {
	select {
	case b := <-bufferPool:
		return b
	default:
		return &BufferSet{}
	}
}

// PutBufferSet returns b to the pool after resetting it, dropping it
// instead if the pool is already at capacity.
func PutBufferSet(b *BufferSet) {
	b.Reset()
	select {
	case bufferPool <- b:
	default:
	}
}
