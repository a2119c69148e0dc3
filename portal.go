package pgwire

import "fmt"

// Portal represents a bound, executable instance of a prepared statement
// (GLOSSARY). Name == "" is the unnamed portal.
type Portal struct {
	Name             string
	FirstExecuteDone bool
}

// portalCounter generates session-unique names for named portals:
// "_p_<counter>" (spec §4.10).
type portalCounter struct{ next uint64 }

func (c *portalCounter) generate() string {
	name := fmt.Sprintf("_p_%d", c.next)
	c.next++
	return name
}

// PortalManager tracks portal lifecycle across implicit and explicit
// transactions. Spec §4.10 calls this "a thin contract, verified by
// tests" rather than a byte-level state machine: it does not itself parse
// BEGIN/COMMIT/ROLLBACK from the wire, it exposes the transitions a host
// observing those commands (or their CommandComplete tags) should report.
type PortalManager struct {
	counter    portalCounter
	named      map[string]*Portal
	explicitTx bool
}

// NewPortalManager constructs an empty manager.
func NewPortalManager() *PortalManager {
	return &PortalManager{named: make(map[string]*Portal)}
}

// GenerateName returns a fresh, session-unique named-portal name.
func (m *PortalManager) GenerateName() string { return m.counter.generate() }

// Bind registers a portal under name, replacing any earlier portal of the
// same name — including the unnamed portal, which any subsequent Bind to
// "" always replaces (spec invariant; §8 property 6).
func (m *PortalManager) Bind(name string) *Portal {
	p := &Portal{Name: name}
	if name != "" {
		m.named[name] = p
	}
	return p
}

// BeginTransaction marks an explicit transaction as open: named portals now
// survive intermediate Sync messages until EndTransaction (spec §4.10).
func (m *PortalManager) BeginTransaction() { m.explicitTx = true }

// EndTransaction marks COMMIT or ROLLBACK: every named portal created
// inside the transaction is destroyed (spec §4.10, §8 property 5).
func (m *PortalManager) EndTransaction() {
	m.explicitTx = false
	m.named = make(map[string]*Portal)
}

// InExplicitTransaction reports whether BeginTransaction has been called
// without a matching EndTransaction yet.
func (m *PortalManager) InExplicitTransaction() bool { return m.explicitTx }

// Sync reports the effect of a Sync message on named portals: destroyed
// outside an explicit transaction, preserved inside one (spec §4.10).
func (m *PortalManager) Sync() {
	if !m.explicitTx {
		m.named = make(map[string]*Portal)
	}
}

// Flush has no effect on portal lifetime (spec §4.10: "Implicit
// transaction + Flush ⇒ portals preserved").
func (m *PortalManager) Flush() {}

// Abort reports a server error aborting the current transaction: every
// portal created during it vanishes on the ROLLBACK that follows (spec
// §4.10, "Any error aborts the current transaction").
func (m *PortalManager) Abort() { m.EndTransaction() }

// Close destroys a single named portal explicitly (Close(Portal)).
func (m *PortalManager) Close(name string) { delete(m.named, name) }

// Lookup reports whether a named portal is still alive.
func (m *PortalManager) Lookup(name string) (*Portal, bool) {
	p, ok := m.named[name]
	return p, ok
}
