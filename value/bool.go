package value

import (
	"fmt"

	"github.com/pgwire/pgwire/wire"
)

// Bool is a nullable boolean column/parameter value (spec §4.4).
type Bool struct {
	Value bool
	Valid bool
}

func (b *Bool) FromNull() error {
	*b = Bool{}
	return nil
}

func (b *Bool) FromText(oid wire.Oid, data []byte) error {
	if oid != wire.Bool {
		return unsupportedOid(oid, "bool")
	}

	switch string(data) {
	case "t":
		*b = Bool{Value: true, Valid: true}
	case "f":
		*b = Bool{Value: false, Valid: true}
	default:
		return decodeErr(oid, "bool", fmt.Errorf("unexpected text %q", data))
	}
	return nil
}

func (b *Bool) FromBinary(oid wire.Oid, data []byte) error {
	if oid != wire.Bool {
		return unsupportedOid(oid, "bool")
	}
	if len(data) != 1 {
		return decodeErr(oid, "bool", fmt.Errorf("want 1 byte, got %d", len(data)))
	}

	*b = Bool{Value: data[0] != 0, Valid: true}
	return nil
}

func (b Bool) NaturalOid() wire.Oid { return wire.Bool }

func (b Bool) EncodeValue(targetOid wire.Oid) ([]byte, error) {
	if targetOid != wire.Bool {
		return nil, unsupportedOid(targetOid, "bool")
	}
	if !b.Valid {
		return nil, nil
	}

	if b.Value {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}
