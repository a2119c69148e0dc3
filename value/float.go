package value

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/pgwire/pgwire/wire"
)

// Float is a nullable floating-point column/parameter value backed by
// float64 regardless of wire width (spec §4.4).
type Float struct {
	Value float64
	Valid bool
}

func (f *Float) FromNull() error {
	*f = Float{}
	return nil
}

func parseFloatText(data []byte) (float64, error) {
	switch string(data) {
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	default:
		return strconv.ParseFloat(string(data), 64)
	}
}

func (f *Float) FromText(oid wire.Oid, data []byte) error {
	switch oid {
	case wire.Float4, wire.Float8:
	default:
		return unsupportedOid(oid, "float")
	}

	v, err := parseFloatText(data)
	if err != nil {
		return decodeErr(oid, "float", err)
	}

	*f = Float{Value: v, Valid: true}
	return nil
}

func (f *Float) FromBinary(oid wire.Oid, data []byte) error {
	r := wire.NewReader(data)

	switch oid {
	case wire.Float4:
		bits, err := r.GetUint32()
		if err != nil {
			return decodeErr(oid, "float", err)
		}
		*f = Float{Value: float64(math.Float32frombits(bits)), Valid: true}
	case wire.Float8:
		bits, err := r.GetUint64()
		if err != nil {
			return decodeErr(oid, "float", err)
		}
		*f = Float{Value: math.Float64frombits(bits), Valid: true}
	default:
		return unsupportedOid(oid, "float")
	}
	return nil
}

func (f Float) NaturalOid() wire.Oid { return wire.Float8 }

func (f Float) EncodeValue(targetOid wire.Oid) ([]byte, error) {
	if !f.Valid {
		return nil, nil
	}

	switch targetOid {
	case wire.Float4:
		return binary.BigEndian.AppendUint32(nil, math.Float32bits(float32(f.Value))), nil
	case wire.Float8:
		return binary.BigEndian.AppendUint64(nil, math.Float64bits(f.Value)), nil
	default:
		return nil, unsupportedOid(targetOid, "float")
	}
}
