package value

import (
	"encoding/binary"
	"time"

	"github.com/pgwire/pgwire/wire"
)

// pgEpoch is the reference instant PostgreSQL's binary date/timestamp wire
// formats count from (spec §4.4).
var pgEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Date is a nullable DATE column/parameter value, truncated to whole days.
type Date struct {
	Value time.Time
	Valid bool
}

func (d *Date) FromNull() error {
	*d = Date{}
	return nil
}

func (d *Date) FromText(oid wire.Oid, data []byte) error {
	if oid != wire.Date {
		return unsupportedOid(oid, "date")
	}

	t, err := time.Parse("2006-01-02", string(data))
	if err != nil {
		return decodeErr(oid, "date", err)
	}

	*d = Date{Value: t, Valid: true}
	return nil
}

func (d *Date) FromBinary(oid wire.Oid, data []byte) error {
	if oid != wire.Date {
		return unsupportedOid(oid, "date")
	}

	r := wire.NewReader(data)
	days, err := r.GetInt32()
	if err != nil {
		return decodeErr(oid, "date", err)
	}

	*d = Date{Value: pgEpoch.AddDate(0, 0, int(days)), Valid: true}
	return nil
}

func (d Date) NaturalOid() wire.Oid { return wire.Date }

func (d Date) EncodeValue(targetOid wire.Oid) ([]byte, error) {
	if targetOid != wire.Date {
		return nil, unsupportedOid(targetOid, "date")
	}
	if !d.Valid {
		return nil, nil
	}

	days := int32(d.Value.UTC().Sub(pgEpoch).Hours() / 24)
	return binary.BigEndian.AppendUint32(nil, uint32(days)), nil
}

// Time is a nullable TIME-of-day column/parameter value with microsecond
// precision.
type Time struct {
	Value time.Duration
	Valid bool
}

func (t *Time) FromNull() error {
	*t = Time{}
	return nil
}

func (t *Time) FromText(oid wire.Oid, data []byte) error {
	if oid != wire.Time {
		return unsupportedOid(oid, "time")
	}

	layout := "15:04:05"
	if len(data) > 8 {
		layout = "15:04:05.999999"
	}

	parsed, err := time.Parse(layout, string(data))
	if err != nil {
		return decodeErr(oid, "time", err)
	}

	*t = Time{Value: parsed.Sub(parsed.Truncate(24 * time.Hour)), Valid: true}
	return nil
}

func (t *Time) FromBinary(oid wire.Oid, data []byte) error {
	if oid != wire.Time {
		return unsupportedOid(oid, "time")
	}

	r := wire.NewReader(data)
	micros, err := r.GetInt64()
	if err != nil {
		return decodeErr(oid, "time", err)
	}

	*t = Time{Value: time.Duration(micros) * time.Microsecond, Valid: true}
	return nil
}

func (t Time) NaturalOid() wire.Oid { return wire.Time }

func (t Time) EncodeValue(targetOid wire.Oid) ([]byte, error) {
	if targetOid != wire.Time {
		return nil, unsupportedOid(targetOid, "time")
	}
	if !t.Valid {
		return nil, nil
	}

	return binary.BigEndian.AppendUint64(nil, uint64(t.Value.Microseconds())), nil
}

// Timestamp is a nullable TIMESTAMP or TIMESTAMPTZ column/parameter value.
// TimestampTZ values are always normalized to UTC (spec §4.4).
type Timestamp struct {
	Value    time.Time
	Valid    bool
	WithZone bool
}

func (t *Timestamp) FromNull() error {
	*t = Timestamp{}
	return nil
}

func (t *Timestamp) FromText(oid wire.Oid, data []byte) error {
	withZone, err := timestampOidZone(oid)
	if err != nil {
		return err
	}

	layout := "2006-01-02 15:04:05"
	if withZone {
		layout = "2006-01-02 15:04:05Z07:00"
	}

	parsed, parseErr := time.Parse(layout, string(data))
	if parseErr != nil {
		return decodeErr(oid, "timestamp", parseErr)
	}

	*t = Timestamp{Value: parsed.UTC(), Valid: true, WithZone: withZone}
	return nil
}

func (t *Timestamp) FromBinary(oid wire.Oid, data []byte) error {
	withZone, err := timestampOidZone(oid)
	if err != nil {
		return err
	}

	r := wire.NewReader(data)
	micros, rErr := r.GetInt64()
	if rErr != nil {
		return decodeErr(oid, "timestamp", rErr)
	}

	*t = Timestamp{
		Value:    pgEpoch.Add(time.Duration(micros) * time.Microsecond),
		Valid:    true,
		WithZone: withZone,
	}
	return nil
}

func timestampOidZone(oid wire.Oid) (bool, error) {
	switch oid {
	case wire.Timestamp:
		return false, nil
	case wire.TimestampTZ:
		return true, nil
	default:
		return false, unsupportedOid(oid, "timestamp")
	}
}

func (t Timestamp) NaturalOid() wire.Oid {
	if t.WithZone {
		return wire.TimestampTZ
	}
	return wire.Timestamp
}

func (t Timestamp) EncodeValue(targetOid wire.Oid) ([]byte, error) {
	if _, err := timestampOidZone(targetOid); err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, nil
	}

	micros := t.Value.UTC().Sub(pgEpoch).Microseconds()
	return binary.BigEndian.AppendUint64(nil, uint64(micros)), nil
}
