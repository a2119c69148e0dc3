package frontend

import "github.com/pgwire/pgwire/wire"

// WriteParse builds a Parse message: statement name, SQL text, and the
// caller-supplied parameter type OIDs (spec §4.3, §4.7). name == "" means
// the unnamed statement.
func WriteParse(w *wire.Writer, name, sql string, paramOids []wire.Oid) []byte {
	w.Start(wire.ClientParse)
	w.AddCString(name)
	w.AddCString(sql)
	w.AddInt16(int16(len(paramOids)))
	for _, o := range paramOids {
		w.AddUint32(uint32(o))
	}
	return w.End()
}

// EncodedParam is a single bind parameter already encoded to wire bytes
// (value == nil means SQL NULL, encoded as a -1 length prefix).
type EncodedParam struct {
	Format wire.FormatCode
	Value  []byte
}

// WriteBind builds a Bind message: portal name, source statement name,
// per-parameter format codes, parameter values, and result format codes
// (spec §4.3). portal == "" means the unnamed portal; stmt == "" means the
// unnamed statement.
func WriteBind(w *wire.Writer, portal, stmt string, params []EncodedParam, resultFormats []wire.FormatCode) []byte {
	w.Start(wire.ClientBind)
	w.AddCString(portal)
	w.AddCString(stmt)

	w.AddInt16(int16(len(params)))
	for _, p := range params {
		w.AddInt16(int16(p.Format))
	}

	w.AddInt16(int16(len(params)))
	for _, p := range params {
		w.AddInt32PrefixedBytes(p.Value)
	}

	w.AddInt16(int16(len(resultFormats)))
	for _, f := range resultFormats {
		w.AddInt16(int16(f))
	}

	return w.End()
}

// WriteDescribeStatement builds a Describe(Statement) message.
func WriteDescribeStatement(w *wire.Writer, name string) []byte {
	return writeDescribe(w, wire.DescribeStatement, name)
}

// WriteDescribePortal builds a Describe(Portal) message.
func WriteDescribePortal(w *wire.Writer, name string) []byte {
	return writeDescribe(w, wire.DescribePortal, name)
}

func writeDescribe(w *wire.Writer, kind wire.DescribeMessage, name string) []byte {
	w.Start(wire.ClientDescribe)
	w.AddByte(byte(kind))
	w.AddCString(name)
	return w.End()
}

// WriteExecute builds an Execute message: portal name plus the maximum
// number of rows to return (0 == no limit).
func WriteExecute(w *wire.Writer, portal string, maxRows int32) []byte {
	w.Start(wire.ClientExecute)
	w.AddCString(portal)
	w.AddInt32(maxRows)
	return w.End()
}

// WriteCloseStatement builds a Close(Statement) message.
func WriteCloseStatement(w *wire.Writer, name string) []byte {
	return writeClose(w, wire.DescribeStatement, name)
}

// WriteClosePortal builds a Close(Portal) message.
func WriteClosePortal(w *wire.Writer, name string) []byte {
	return writeClose(w, wire.DescribePortal, name)
}

func writeClose(w *wire.Writer, kind wire.DescribeMessage, name string) []byte {
	w.Start(wire.ClientClose)
	w.AddByte(byte(kind))
	w.AddCString(name)
	return w.End()
}

// WriteSync builds a Sync message, closing an extended-query sequence
// (spec §4.7, GLOSSARY).
func WriteSync(w *wire.Writer) []byte {
	w.Start(wire.ClientSync)
	return w.End()
}

// WriteFlush builds a Flush message, forcing the server to send buffered
// responses without closing the extended-query sequence (GLOSSARY).
func WriteFlush(w *wire.Writer) []byte {
	w.Start(wire.ClientFlush)
	return w.End()
}
