package value

import (
	"fmt"

	"github.com/pgwire/pgwire/backend"
	"github.com/pgwire/pgwire/wire"
)

// FromRow decodes one DataRow into dest, one FromWireValue per column, in
// column order. It supports any row arity the caller needs (spec §4.4 names
// arity 1..12 as the idiomatic tuple range; Go expresses that range as a
// variadic destination list rather than per-arity generated functions).
// Arity mismatch between fields/row and dest returns ErrArity.
func FromRow(fields []backend.FieldDescription, row *backend.DataRow, dest ...FromWireValue) error {
	if len(fields) != len(dest) {
		return fmt.Errorf("%w: %d columns, %d destinations", ErrArity, len(fields), len(dest))
	}
	if row.Len() != len(dest) {
		return fmt.Errorf("%w: %d columns, %d destinations", ErrArity, row.Len(), len(dest))
	}

	for i := range dest {
		raw, ok, err := row.Next()
		if err != nil {
			return fmt.Errorf("value: column %d: %w", i, err)
		}
		if !ok {
			return fmt.Errorf("%w: row exhausted at column %d", ErrArity, i)
		}

		field := fields[i]
		switch {
		case raw == nil:
			if err := dest[i].FromNull(); err != nil {
				return fmt.Errorf("value: column %d (%s): %w", i, field.Name, err)
			}
		case field.Format == wire.BinaryFormat:
			if err := dest[i].FromBinary(field.TypeOid, raw); err != nil {
				return fmt.Errorf("value: column %d (%s): %w", i, field.Name, err)
			}
		default:
			if err := dest[i].FromText(field.TypeOid, raw); err != nil {
				return fmt.Errorf("value: column %d (%s): %w", i, field.Name, err)
			}
		}
	}

	return nil
}
