package snmp

import (
	"fmt"
	"reflect"
)

// Attribute binds one typed value to one OID on the hub. Reads are cached
// so repeated access costs no extra round trips; writes are verified by
// reading the value back.
//
// An Attribute is not safe for concurrent use; the read-modify-write in
// Write is not atomic and needs external serialization if shared.
type Attribute struct {
	transport Transport
	oid       string
	tr        Translator
	doc       string

	// The cache holds the last known wire value; decoding happens on
	// every Read so that a malformed cell surfaces its FormatError to
	// the caller of that read, not to whoever built the attribute.
	cached  string
	fetched bool
}

// NewAttribute binds oid through the given translator. A nil translator
// defaults to Null.
func NewAttribute(tp Transport, oid string, tr Translator) *Attribute {
	if tr == nil {
		tr = Null
	}
	return &Attribute{transport: tp, oid: oid, tr: tr}
}

// seed pre-populates the cache with a wire value already in hand (from a
// walk), so the first Read costs no remote call.
func (a *Attribute) seed(wire string) *Attribute {
	a.cached = wire
	a.fetched = true
	return a
}

func (a *Attribute) OID() string {
	return a.oid
}

func (a *Attribute) DataType() DataType {
	return a.tr.DataType()
}

// Doc is the optional human-readable description from the column schema.
func (a *Attribute) Doc() string {
	return a.doc
}

// Read returns the attribute's value, fetching it from the hub on first
// use and answering from the cache afterwards.
func (a *Attribute) Read() (any, error) {
	if !a.fetched {
		wire, err := a.transport.Get(a.oid)
		if err != nil {
			return nil, err
		}
		a.cached = wire
		a.fetched = true
	}
	return a.tr.Decode(a.cached)
}

// Refresh re-fetches the value from the hub regardless of cache state.
func (a *Attribute) Refresh() (any, error) {
	wire, err := a.transport.Get(a.oid)
	if err != nil {
		return nil, err
	}
	a.cached = wire
	a.fetched = true
	return a.tr.Decode(wire)
}

// Write encodes v, stores it, then reads it back to verify the hub
// accepted it. On a verification mismatch the cache is left untouched and
// a *WriteVerificationError carries both values.
func (a *Attribute) Write(v any) error {
	wire, err := a.tr.Encode(v)
	if err != nil {
		return err
	}
	if err := a.transport.Set(a.oid, wire, a.tr.DataType()); err != nil {
		return err
	}
	readback, err := a.transport.Get(a.oid)
	if err != nil {
		return err
	}
	got, err := a.tr.Decode(readback)
	if err != nil {
		return err
	}
	if readback != wire && !reflect.DeepEqual(got, v) {
		return &WriteVerificationError{OID: a.oid, Wanted: v, Got: got}
	}
	a.cached = readback
	a.fetched = true
	return nil
}

// Remove always fails: remote attributes cannot be retracted.
func (a *Attribute) Remove() error {
	return fmt.Errorf("removing remote attributes: %w", ErrUnsupported)
}
