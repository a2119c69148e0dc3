package value

import (
	"fmt"
	"strings"

	"github.com/pgwire/pgwire/wire"
	"github.com/shopspring/decimal"
)

// NUMERIC sign markers (spec §4.4).
const (
	numericPositive uint16 = 0x0000
	numericNegative uint16 = 0x4000
	numericNaN      uint16 = 0xC000
	numericPosInf   uint16 = 0xD000
	numericNegInf   uint16 = 0xF000
)

// Numeric is a nullable NUMERIC column/parameter value. The server's special
// values (NaN, Infinity, -Infinity) have no shopspring/decimal
// representation, so they surface through Special rather than Value.
type Numeric struct {
	Value   decimal.Decimal
	Special string
	Valid   bool
}

func (n *Numeric) FromNull() error {
	*n = Numeric{}
	return nil
}

// FromText parses the decimal string representation the server sends for
// NUMERIC in text mode (spec §4.4); it is also how Text-codec consumers read
// NUMERIC, since the str/String codec only accepts NUMERIC as text.
func (n *Numeric) FromText(oid wire.Oid, data []byte) error {
	if oid != wire.Numeric {
		return unsupportedOid(oid, "numeric")
	}

	s := string(data)
	switch s {
	case "NaN", "Infinity", "-Infinity":
		*n = Numeric{Special: s, Valid: true}
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decodeErr(oid, "numeric", err)
	}

	*n = Numeric{Value: d, Valid: true}
	return nil
}

// FromBinary decodes PostgreSQL's base-10000 binary NUMERIC wire format,
// following the textual reconstruction algorithm from get_str_from_var() in
// PostgreSQL's numeric.c (spec §4.4).
func (n *Numeric) FromBinary(oid wire.Oid, data []byte) error {
	if oid != wire.Numeric {
		return unsupportedOid(oid, "numeric")
	}

	s, err := numericBinaryToString(data)
	if err != nil {
		return decodeErr(oid, "numeric", err)
	}

	switch s {
	case "NaN", "Infinity", "-Infinity":
		*n = Numeric{Special: s, Valid: true}
		return nil
	}

	d, parseErr := decimal.NewFromString(s)
	if parseErr != nil {
		return decodeErr(oid, "numeric", parseErr)
	}

	*n = Numeric{Value: d, Valid: true}
	return nil
}

func (n Numeric) NaturalOid() wire.Oid { return wire.Numeric }

// EncodeValue always writes NUMERIC parameters in text form: the engine
// never implements the base-10000 binary encoder, since the server accepts
// a decimal string for any NUMERIC parameter (spec §4.3, "preferred
// format").
func (n Numeric) EncodeValue(targetOid wire.Oid) ([]byte, error) {
	if targetOid != wire.Numeric {
		return nil, unsupportedOid(targetOid, "numeric")
	}
	if !n.Valid {
		return nil, nil
	}

	text := n.Special
	if text == "" {
		text = n.Value.String()
	}

	return []byte(text), nil
}

func numericBinaryToString(data []byte) (string, error) {
	r := wire.NewReader(data)

	ndigits, err := r.GetUint16()
	if err != nil {
		return "", fmt.Errorf("ndigits: %w", err)
	}
	weightRaw, err := r.GetInt16()
	if err != nil {
		return "", fmt.Errorf("weight: %w", err)
	}
	sign, err := r.GetUint16()
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	dscaleRaw, err := r.GetUint16()
	if err != nil {
		return "", fmt.Errorf("dscale: %w", err)
	}

	switch sign {
	case numericNaN:
		return "NaN", nil
	case numericPosInf:
		return "Infinity", nil
	case numericNegInf:
		return "-Infinity", nil
	}

	weight := int(weightRaw)
	dscale := int(dscaleRaw)

	if ndigits == 0 {
		if dscale > 0 {
			return "0." + strings.Repeat("0", dscale), nil
		}
		return "0", nil
	}

	digits := make([]int16, ndigits)
	for i := range digits {
		d, derr := r.GetInt16()
		if derr != nil {
			return "", fmt.Errorf("digit %d: %w", i, derr)
		}
		digits[i] = d
	}

	var sb strings.Builder
	if sign == numericNegative {
		sb.WriteByte('-')
	}

	intDigits := (weight + 1) * 4

	if intDigits <= 0 {
		sb.WriteString("0.")
		for i := 0; i < -intDigits; i++ {
			sb.WriteByte('0')
		}

		fracWritten := -intDigits
		for i, d := range digits {
			group := fmt.Sprintf("%04d", d)
			if i == len(digits)-1 && dscale > 0 {
				for _, c := range group {
					if fracWritten < dscale {
						sb.WriteRune(c)
						fracWritten++
					}
				}
			} else {
				sb.WriteString(group)
				fracWritten += 4
			}
		}
		for fracWritten < dscale {
			sb.WriteByte('0')
			fracWritten++
		}
	} else {
		dIdx := 0

		if dIdx < len(digits) {
			sb.WriteString(fmt.Sprintf("%d", digits[dIdx]))
			dIdx++
		}

		fullIntGroups := weight
		for dIdx <= fullIntGroups && dIdx < len(digits) {
			sb.WriteString(fmt.Sprintf("%04d", digits[dIdx]))
			dIdx++
		}
		for dIdx <= fullIntGroups {
			sb.WriteString("0000")
			dIdx++
		}

		if dscale > 0 {
			sb.WriteByte('.')

			fracWritten := 0
			for dIdx < len(digits) && fracWritten < dscale {
				group := fmt.Sprintf("%04d", digits[dIdx])
				for _, c := range group {
					if fracWritten < dscale {
						sb.WriteRune(c)
						fracWritten++
					}
				}
				dIdx++
			}
			for fracWritten < dscale {
				sb.WriteByte('0')
				fracWritten++
			}
		}
	}

	return sb.String(), nil
}
