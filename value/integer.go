package value

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pgwire/pgwire/wire"
	"github.com/shopspring/decimal"
)

// Int is a nullable integer column/parameter value backed by int64
// regardless of wire width (spec §4.4). Its natural OID is INT8; encoding
// to a narrower target OID range-checks the value.
type Int struct {
	Value int64
	Valid bool
}

func (i *Int) FromNull() error {
	*i = Int{}
	return nil
}

func (i *Int) FromText(oid wire.Oid, data []byte) error {
	switch oid {
	case wire.Int2, wire.Int4, wire.Int8:
	default:
		return unsupportedOid(oid, "integer")
	}

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return decodeErr(oid, "integer", err)
	}

	*i = Int{Value: d.IntPart(), Valid: true}
	return nil
}

func (i *Int) FromBinary(oid wire.Oid, data []byte) error {
	r := wire.NewReader(data)

	switch oid {
	case wire.Int2:
		v, err := r.GetInt16()
		if err != nil {
			return decodeErr(oid, "integer", err)
		}
		*i = Int{Value: int64(v), Valid: true}
	case wire.Int4:
		v, err := r.GetInt32()
		if err != nil {
			return decodeErr(oid, "integer", err)
		}
		*i = Int{Value: int64(v), Valid: true}
	case wire.Int8:
		v, err := r.GetInt64()
		if err != nil {
			return decodeErr(oid, "integer", err)
		}
		*i = Int{Value: v, Valid: true}
	default:
		return unsupportedOid(oid, "integer")
	}
	return nil
}

func (i Int) NaturalOid() wire.Oid { return wire.Int8 }

func (i Int) EncodeValue(targetOid wire.Oid) ([]byte, error) {
	if !i.Valid {
		return nil, nil
	}

	switch targetOid {
	case wire.Int2:
		if i.Value < math.MinInt16 || i.Value > math.MaxInt16 {
			return nil, fmt.Errorf("value: %d overflows int2", i.Value)
		}
		return binary.BigEndian.AppendUint16(nil, uint16(int16(i.Value))), nil
	case wire.Int4:
		if i.Value < math.MinInt32 || i.Value > math.MaxInt32 {
			return nil, fmt.Errorf("value: %d overflows int4", i.Value)
		}
		return binary.BigEndian.AppendUint32(nil, uint32(int32(i.Value))), nil
	case wire.Int8:
		return binary.BigEndian.AppendUint64(nil, uint64(i.Value)), nil
	default:
		return nil, unsupportedOid(targetOid, "integer")
	}
}
