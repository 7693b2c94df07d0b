package snmp

import "sort"

// MemTransport is a transient in-memory Transport intended for tests and
// fakes. Items stay sorted in device walk order. The exported counters
// track remote calls so tests can assert on round trips.
//
// Like the rest of this package it is not safe for concurrent use.
type MemTransport struct {
	items []memItem

	GetCount  int
	SetCount  int
	WalkCount int
}

type memItem struct {
	oid   string
	value string
	dtype DataType
}

func NewMemTransport() *MemTransport {
	return &MemTransport{}
}

// Put seeds a value without counting as a remote call.
func (m *MemTransport) Put(oid, value string) {
	i, ok := m.find(oid)
	if ok {
		m.items[i].value = value
		return
	}
	m.items = append(m.items, memItem{})
	copy(m.items[i+1:], m.items[i:])
	m.items[i] = memItem{oid: oid, value: value}
}

// Drop removes a value, for simulating OIDs that stop existing.
func (m *MemTransport) Drop(oid string) {
	i, ok := m.find(oid)
	if !ok {
		return
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
}

func (m *MemTransport) Get(oid string) (string, error) {
	m.GetCount++
	i, ok := m.find(oid)
	if !ok {
		return "", remoteErrf("get", oid, nil, "no such object")
	}
	return m.items[i].value, nil
}

func (m *MemTransport) Set(oid string, value string, dtype DataType) error {
	m.SetCount++
	i, ok := m.find(oid)
	if ok {
		m.items[i].value = value
		m.items[i].dtype = dtype
		return nil
	}
	m.items = append(m.items, memItem{})
	copy(m.items[i+1:], m.items[i:])
	m.items[i] = memItem{oid: oid, value: value, dtype: dtype}
	return nil
}

func (m *MemTransport) Walk(root string) ([]WalkItem, error) {
	m.WalkCount++
	result := []WalkItem{}
	for _, item := range m.items {
		if oidInSubtree(item.oid, root) {
			result = append(result, WalkItem{OID: item.oid, Value: item.value})
		}
	}
	return result, nil
}

func (m *MemTransport) find(oid string) (idx int, ok bool) {
	i := sort.Search(len(m.items), func(i int) bool {
		return oidCompare(m.items[i].oid, oid) >= 0
	})
	if i < len(m.items) && m.items[i].oid == oid {
		return i, true
	}
	return i, false
}
