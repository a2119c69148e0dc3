package value

import (
	"github.com/pgwire/pgwire/wire"
)

// Text is a nullable string column/parameter value. It decodes TEXT,
// VARCHAR, BPCHAR, NAME, JSON, and JSONB in either format, and NUMERIC in
// text format only (the server always returns NUMERIC as a decimal string,
// spec §4.4). Encoding accepts the same OIDs except NUMERIC, always written
// as the string's bytes.
type Text struct {
	Value string
	Valid bool
}

func (t *Text) FromNull() error {
	*t = Text{}
	return nil
}

func (t *Text) FromText(oid wire.Oid, data []byte) error {
	if !isTextOid(oid) && oid != wire.Numeric && oid != wire.JSON && oid != wire.JSONB {
		return unsupportedOid(oid, "string")
	}

	*t = Text{Value: string(data), Valid: true}
	return nil
}

func (t *Text) FromBinary(oid wire.Oid, data []byte) error {
	if !isTextOid(oid) && oid != wire.JSON && oid != wire.JSONB {
		return unsupportedOid(oid, "string")
	}

	*t = Text{Value: string(data), Valid: true}
	return nil
}

func (t Text) NaturalOid() wire.Oid { return wire.Text }

func (t Text) EncodeValue(targetOid wire.Oid) ([]byte, error) {
	if !isTextOid(targetOid) && targetOid != wire.JSON && targetOid != wire.JSONB {
		return nil, unsupportedOid(targetOid, "string")
	}
	if !t.Valid {
		return nil, nil
	}

	return []byte(t.Value), nil
}
