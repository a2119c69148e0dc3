package value

import (
	"fmt"

	"github.com/pgwire/pgwire/frontend"
	"github.com/pgwire/pgwire/wire"
)

// NaturalOids returns the natural OID of each param, in order — the OID a
// Parse message should advertise when the caller does not pin param types
// explicitly (spec §4.4 "natural_oids").
func NaturalOids(params []ToWireValue) []wire.Oid {
	oids := make([]wire.Oid, len(params))
	for i, p := range params {
		oids[i] = p.NaturalOid()
	}
	return oids
}

// EncodeParams encodes params into Bind-ready EncodedParams, one per
// element, choosing each target OID from paramOids when provided (e.g. from
// a DescribeStatement response) and falling back to the value's natural OID
// otherwise. The wire format used per parameter is its preferred format
// (spec §4.3): binary for everything except NUMERIC, which is always text.
func EncodeParams(params []ToWireValue, paramOids []wire.Oid) ([]frontend.EncodedParam, error) {
	out := make([]frontend.EncodedParam, len(params))

	for i, p := range params {
		target := p.NaturalOid()
		if i < len(paramOids) && paramOids[i] != 0 {
			target = paramOids[i]
		}

		raw, err := p.EncodeValue(target)
		if err != nil {
			return nil, fmt.Errorf("value: param %d: %w", i, err)
		}

		out[i] = frontend.EncodedParam{Format: PreferredFormat(target), Value: raw}
	}

	return out, nil
}
