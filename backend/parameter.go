package backend

import (
	"fmt"

	"github.com/pgwire/pgwire/wire"
)

// ParameterStatus is the parsed form of a ParameterStatus message: a single
// (name, value) pair reporting a server runtime parameter.
type ParameterStatus struct {
	Name  string
	Value string
}

// ParseParameterStatus parses a ParameterStatus message payload.
func ParseParameterStatus(payload []byte) (ParameterStatus, error) {
	r := wire.NewReader(payload)

	name, err := r.GetCString()
	if err != nil {
		return ParameterStatus{}, fmt.Errorf("parameter status name: %w", err)
	}

	value, err := r.GetCString()
	if err != nil {
		return ParameterStatus{}, fmt.Errorf("parameter status value: %w", err)
	}

	return ParameterStatus{Name: name, Value: value}, nil
}

// ParameterDescription is the parsed form of a ParameterDescription message:
// the OID of each parameter a prepared statement expects, in order.
type ParameterDescription struct {
	ParamOids []wire.Oid
}

// ParseParameterDescription parses a ParameterDescription message payload.
func ParseParameterDescription(payload []byte) (ParameterDescription, error) {
	r := wire.NewReader(payload)

	count, err := r.GetUint16()
	if err != nil {
		return ParameterDescription{}, fmt.Errorf("parameter description count: %w", err)
	}

	desc := ParameterDescription{ParamOids: make([]wire.Oid, 0, count)}
	for i := uint16(0); i < count; i++ {
		oidVal, err := r.GetUint32()
		if err != nil {
			return ParameterDescription{}, fmt.Errorf("parameter description oid %d: %w", i, err)
		}
		desc.ParamOids = append(desc.ParamOids, wire.Oid(oidVal))
	}

	return desc, nil
}

// NegotiateProtocolVersion is the parsed form of a NegotiateProtocolVersion
// message. Per spec §9, the engine recognizes but does not act on the
// unrecognized-options list; it is surfaced for the host's information only.
type NegotiateProtocolVersion struct {
	MinorVersion         int32
	UnrecognizedOptions []string
}

// ParseNegotiateProtocolVersion parses a NegotiateProtocolVersion message
// payload.
func ParseNegotiateProtocolVersion(payload []byte) (NegotiateProtocolVersion, error) {
	r := wire.NewReader(payload)

	minor, err := r.GetInt32()
	if err != nil {
		return NegotiateProtocolVersion{}, fmt.Errorf("negotiate protocol version minor: %w", err)
	}

	count, err := r.GetUint32()
	if err != nil {
		return NegotiateProtocolVersion{}, fmt.Errorf("negotiate protocol version count: %w", err)
	}

	result := NegotiateProtocolVersion{MinorVersion: minor, UnrecognizedOptions: make([]string, 0, count)}
	for i := uint32(0); i < count; i++ {
		opt, err := r.GetCString()
		if err != nil {
			return NegotiateProtocolVersion{}, fmt.Errorf("negotiate protocol version option %d: %w", i, err)
		}
		result.UnrecognizedOptions = append(result.UnrecognizedOptions, opt)
	}

	return result, nil
}
