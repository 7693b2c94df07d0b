package snmp

import (
	"log/slog"
	"strings"
)

// Column describes one column of a table: the OID column id (the first
// path segment under the table root), the field name it maps to, and the
// translator for its cells. A nil Translator defaults to Null.
type Column struct {
	ID         string
	Name       string
	Translator Translator
	Doc        string
}

// Table is a fixed-size collection of rows materialized from one walk of
// an OID subtree. Each row is keyed by its row id (the path remainder
// after the column id); iteration order is the order rows first appeared
// in the walk.
//
// Writes through row fields update the hub; the table itself never grows
// or shrinks after construction.
type Table struct {
	transport Transport
	oid       string
	rowIDs    []string
	rows      map[string]*Row
}

// NewTable materializes a table rooted at oid. If walk is nil, the subtree
// is enumerated through the transport; pass a pre-fetched walk result to
// build several tables from one enumeration. Cells whose column id is not
// in columns are dropped; rows left with no cells are not materialized.
//
// An empty walk or an all-filtered result yields a usable empty table and
// a warning, not an error.
func NewTable(tp Transport, oid string, columns []Column, walk []WalkItem) (*Table, error) {
	if walk == nil {
		var err error
		walk, err = tp.Walk(oid)
		if err != nil {
			return nil, err
		}
	}
	if len(walk) == 0 {
		slog.Warn("walk yielded no results", "oid", oid)
	}

	rowIDs, cells := groupWalk(oid, walk)

	t := &Table{
		transport: tp,
		oid:       oid,
		rows:      make(map[string]*Row),
	}
	for _, rowID := range rowIDs {
		row := t.buildRow(columns, rowID, cells[rowID])
		if row == nil {
			continue
		}
		t.rowIDs = append(t.rowIDs, rowID)
		t.rows[rowID] = row
	}

	if len(t.rowIDs) == 0 && len(walk) > 0 {
		slog.Warn("walk produced zero table rows", "oid", oid)
	}
	return t, nil
}

// groupWalk splits each OID under root into a column id (first segment)
// and a row id (the rest), and groups raw values two levels deep. Row
// order is first appearance. Items outside the root are ignored.
func groupWalk(root string, walk []WalkItem) (rowIDs []string, cells map[string]map[string]string) {
	prefix := root + "."
	cells = make(map[string]map[string]string)
	for _, item := range walk {
		rel, ok := strings.CutPrefix(item.OID, prefix)
		if !ok {
			continue
		}
		columnID, rowID, _ := strings.Cut(rel, ".")
		row := cells[rowID]
		if row == nil {
			row = make(map[string]string)
			cells[rowID] = row
			rowIDs = append(rowIDs, rowID)
		}
		row[columnID] = item.Value
	}
	return rowIDs, cells
}

// buildRow assembles one record view, seeding each binding with the raw
// cell value so first reads stay local. Returns nil if no column matched.
func (t *Table) buildRow(columns []Column, rowID string, raw map[string]string) *Row {
	var names []string
	attrs := make(map[string]*Attribute)
	for _, col := range columns {
		wire, ok := raw[col.ID]
		if !ok {
			continue
		}
		a := NewAttribute(t.transport, t.oid+"."+col.ID+"."+rowID, col.Translator).seed(wire)
		a.doc = col.Doc
		names = append(names, col.Name)
		attrs[col.Name] = a
	}
	if len(names) == 0 {
		return nil
	}
	return newRow(names, attrs)
}

func (t *Table) OID() string {
	return t.oid
}

func (t *Table) Len() int {
	return len(t.rowIDs)
}

// Row looks up a row by its exact id.
func (t *Table) Row(id string) (*Row, bool) {
	row, ok := t.rows[id]
	return row, ok
}

// RowIDs returns the row ids in walk order.
func (t *Table) RowIDs() []string {
	return append([]string(nil), t.rowIDs...)
}

// Rows returns the rows in walk order, losing their ids; this is the shape
// external formatters consume.
func (t *Table) Rows() []*Row {
	rows := make([]*Row, len(t.rowIDs))
	for i, id := range t.rowIDs {
		rows[i] = t.rows[id]
	}
	return rows
}
