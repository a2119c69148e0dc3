package backend

import (
	"fmt"

	"github.com/pgwire/pgwire/wire"
)

// FieldDescription describes a single result column, as carried inside a
// RowDescription message (spec §3, §4.2). Name is copied out of the
// RowDescription payload (wire.Reader.GetCString copies), so a
// FieldDescription stays valid after that payload's buffer is reused.
type FieldDescription struct {
	Name         string
	TableOid     wire.Oid
	ColumnID     int16
	TypeOid      wire.Oid
	TypeSize     int16
	TypeModifier int32
	Format       wire.FormatCode
}

// RowDescription is the parsed form of a RowDescription message: a list of
// FieldDescriptions, one per result column.
type RowDescription struct {
	Fields []FieldDescription
}

// ParseRowDescription parses a RowDescription message payload.
func ParseRowDescription(payload []byte) (RowDescription, error) {
	r := wire.NewReader(payload)

	count, err := r.GetUint16()
	if err != nil {
		return RowDescription{}, fmt.Errorf("row description count: %w", err)
	}

	desc := RowDescription{Fields: make([]FieldDescription, 0, count)}
	for i := uint16(0); i < count; i++ {
		name, err := r.GetCString()
		if err != nil {
			return RowDescription{}, fmt.Errorf("row description field %d name: %w", i, err)
		}

		tableOid, err := r.GetUint32()
		if err != nil {
			return RowDescription{}, fmt.Errorf("row description field %d table oid: %w", i, err)
		}

		columnID, err := r.GetInt16()
		if err != nil {
			return RowDescription{}, fmt.Errorf("row description field %d column id: %w", i, err)
		}

		typeOid, err := r.GetUint32()
		if err != nil {
			return RowDescription{}, fmt.Errorf("row description field %d type oid: %w", i, err)
		}

		typeSize, err := r.GetInt16()
		if err != nil {
			return RowDescription{}, fmt.Errorf("row description field %d type size: %w", i, err)
		}

		typeMod, err := r.GetInt32()
		if err != nil {
			return RowDescription{}, fmt.Errorf("row description field %d type modifier: %w", i, err)
		}

		format, err := r.GetInt16()
		if err != nil {
			return RowDescription{}, fmt.Errorf("row description field %d format: %w", i, err)
		}

		desc.Fields = append(desc.Fields, FieldDescription{
			Name:         name,
			TableOid:     wire.Oid(tableOid),
			ColumnID:     columnID,
			TypeOid:      wire.Oid(typeOid),
			TypeSize:     typeSize,
			TypeModifier: typeMod,
			Format:       wire.FormatCode(format),
		})
	}

	return desc, nil
}

// Clone returns a RowDescription with its own Fields slice, so the copy
// retained on a PreparedStatement shares no storage with d (spec §9 "cached
// column descriptions").
func (d RowDescription) Clone() RowDescription {
	cloned := RowDescription{Fields: make([]FieldDescription, len(d.Fields))}
	for i, f := range d.Fields {
		f.Name = string([]byte(f.Name))
		cloned.Fields[i] = f
	}
	return cloned
}

// DataRow is a cursor over the column values of a single result row. Each
// column is either NULL (Value == nil) or a byte slice of stated length;
// iteration via Next is lazy and zero-copy.
type DataRow struct {
	r     wire.Reader
	count uint16
	index uint16
}

// ParseDataRow begins parsing a DataRow message payload, reading only the
// column count up front.
func ParseDataRow(payload []byte) (DataRow, error) {
	r := wire.NewReader(payload)
	count, err := r.GetUint16()
	if err != nil {
		return DataRow{}, fmt.Errorf("data row count: %w", err)
	}

	return DataRow{r: *r, count: count}, nil
}

// Len returns the number of columns in the row.
func (d *DataRow) Len() int {
	return int(d.count)
}

// Next returns the next column value, or (nil, false, nil) once all columns
// have been consumed. A NULL column is reported as (nil, true, nil).
func (d *DataRow) Next() (value []byte, ok bool, err error) {
	if d.index >= d.count {
		return nil, false, nil
	}

	length, err := d.r.GetInt32()
	if err != nil {
		return nil, false, fmt.Errorf("data row column %d length: %w", d.index, err)
	}

	d.index++

	if length == -1 {
		return nil, true, nil
	}

	value, err = d.r.GetBytes(int(length))
	if err != nil {
		return nil, false, fmt.Errorf("data row column %d value: %w", d.index-1, err)
	}

	return value, true, nil
}

// Values drains the remaining columns into a slice, mainly useful in tests.
func (d *DataRow) Values() ([][]byte, error) {
	out := make([][]byte, 0, d.count-d.index)
	for {
		v, ok, err := d.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
