package backend

import (
	"fmt"

	"github.com/pgwire/pgwire/codes"
	pgerr "github.com/pgwire/pgwire/errors"
	"github.com/pgwire/pgwire/wire"
)

// errorFieldType is the one-byte tag preceding each field inside an
// ErrorResponse/NoticeResponse message (spec §4.2).
type errorFieldType byte

const (
	fieldSeverity             errorFieldType = 'S'
	fieldNonlocalizedSeverity errorFieldType = 'V'
	fieldSQLState             errorFieldType = 'C'
	fieldMessage              errorFieldType = 'M'
	fieldDetail               errorFieldType = 'D'
	fieldHint                 errorFieldType = 'H'
	fieldPosition             errorFieldType = 'P'
	fieldInternalPosition     errorFieldType = 'p'
	fieldInternalQuery        errorFieldType = 'q'
	fieldWhere                errorFieldType = 'W'
	fieldSchema               errorFieldType = 's'
	fieldTable                errorFieldType = 't'
	fieldColumn               errorFieldType = 'c'
	fieldDataType             errorFieldType = 'd'
	fieldConstraint           errorFieldType = 'n'
	fieldFile                 errorFieldType = 'F'
	fieldLine                 errorFieldType = 'L'
	fieldRoutine              errorFieldType = 'R'
)

// ParseErrorResponse parses an ErrorResponse or NoticeResponse message
// payload (they share the same field-list wire shape) into the engine's
// error field set.
func ParseErrorResponse(payload []byte) (pgerr.Error, error) {
	r := wire.NewReader(payload)
	result := pgerr.Error{}
	var file, line, routine string

	for {
		tagByte, err := r.GetByte()
		if err != nil {
			return pgerr.Error{}, fmt.Errorf("error response field tag: %w", err)
		}

		if tagByte == 0 {
			break
		}

		value, err := r.GetCString()
		if err != nil {
			return pgerr.Error{}, fmt.Errorf("error response field %q value: %w", tagByte, err)
		}

		switch errorFieldType(tagByte) {
		case fieldSeverity:
			result.Severity = pgerr.Severity(value)
		case fieldNonlocalizedSeverity:
			result.NonlocalizedSeverity = pgerr.Severity(value)
		case fieldSQLState:
			result.Code = codes.Code(value)
		case fieldMessage:
			result.Message = value
		case fieldDetail:
			result.Detail = value
		case fieldHint:
			result.Hint = value
		case fieldPosition:
			result.Position = value
		case fieldInternalPosition:
			result.InternalPosition = value
		case fieldInternalQuery:
			result.InternalQuery = value
		case fieldWhere:
			result.Where = value
		case fieldSchema:
			result.Schema = value
		case fieldTable:
			result.Table = value
		case fieldColumn:
			result.Column = value
		case fieldDataType:
			result.DataType = value
		case fieldConstraint:
			result.ConstraintName = value
		case fieldFile:
			file = value
		case fieldLine:
			line = value
		case fieldRoutine:
			routine = value
			result.Routine = value
		default:
			// Unrecognized field types are ignored per the wire spec, which
			// reserves unknown codes for future server versions.
		}
	}

	if file != "" || line != "" || routine != "" {
		var lineNo int32
		fmt.Sscanf(line, "%d", &lineNo)
		result.Source = &pgerr.Source{File: file, Line: lineNo, Function: routine}
	}

	return result, nil
}

// IsFatal reports whether the error's severity marks the connection as
// unusable going forward (spec §7: FATAL/PANIC are connection-fatal).
func IsFatal(e pgerr.Error) bool {
	return e.Severity == pgerr.LevelFatal || e.Severity == pgerr.LevelPanic
}
