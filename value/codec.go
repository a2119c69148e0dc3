// Package value implements the per-OID text/binary value codec: decoding
// wire bytes into host Go types and encoding host Go types into wire bytes,
// plus the row-to-tuple and tuple-to-params bridges used by the query state
// machines in the root package.
package value

import (
	"errors"
	"fmt"

	"github.com/pgwire/pgwire/wire"
)

// ErrArity is returned by FromRow when the number of destinations does not
// match the number of row columns.
var ErrArity = errors.New("value: row arity mismatch")

// ErrUnsupportedOid is returned when a decoder is asked to decode a value
// whose OID it does not accept.
var ErrUnsupportedOid = errors.New("value: unsupported oid")

// FromWireValue decodes a single column value into a host type. Exactly one
// of FromNull, FromText, or FromBinary is called per column, chosen by
// whether the value is SQL NULL and by the column's reported format code.
type FromWireValue interface {
	FromNull() error
	FromText(oid wire.Oid, data []byte) error
	FromBinary(oid wire.Oid, data []byte) error
}

// ToWireValue encodes a host value as a bind parameter. NaturalOid reports
// the OID the value would use absent a target OID from ParameterDescription;
// EncodeValue returns the raw parameter bytes for the given target OID,
// choosing text or binary form itself, or nil to mean SQL NULL.
type ToWireValue interface {
	NaturalOid() wire.Oid
	EncodeValue(targetOid wire.Oid) ([]byte, error)
}

// PreferredFormat reports the wire format a client should request for the
// given OID when binding parameters or describing result columns. Every OID
// prefers binary except NUMERIC, whose binary encoder the engine does not
// implement (spec §4.3 — text is the official preferred NUMERIC form).
func PreferredFormat(o wire.Oid) wire.FormatCode {
	if o == wire.Numeric {
		return wire.TextFormat
	}
	return wire.BinaryFormat
}

func decodeErr(oid wire.Oid, kind string, err error) error {
	return fmt.Errorf("value: decode oid %d as %s: %w", oid, kind, err)
}

func unsupportedOid(oid wire.Oid, kind string) error {
	return fmt.Errorf("%w: oid %d not valid for %s", ErrUnsupportedOid, oid, kind)
}

// isTextOid reports whether o is one of the string-bearing OIDs accepted by
// the str/String codec (spec §4.4).
func isTextOid(o wire.Oid) bool {
	switch o {
	case wire.Text, wire.Varchar, wire.Bpchar, wire.Name:
		return true
	default:
		return false
	}
}
