package frontend

import "github.com/pgwire/pgwire/wire"

// WriteQuery builds a simple-query protocol Query message (spec §4.3, §4.6).
func WriteQuery(w *wire.Writer, sql string) []byte {
	w.Start(wire.ClientSimpleQuery)
	w.AddCString(sql)
	return w.End()
}
