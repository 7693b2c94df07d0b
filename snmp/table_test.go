package snmp

import (
	"reflect"
	"testing"
)

func TestGroupWalk(t *testing.T) {
	rowIDs, cells := groupWalk("1.3.6.1.2", []WalkItem{
		{"1.3.6.1.2.1.5", "A"},
		{"1.3.6.1.2.2.5", "B"},
	})
	deepEqual(t, rowIDs, []string{"5"})
	deepEqual(t, cells, map[string]map[string]string{
		"5": {"1": "A", "2": "B"},
	})
}

func TestGroupWalkRowOrderAndCompoundRowIDs(t *testing.T) {
	rowIDs, cells := groupWalk("1.3", []WalkItem{
		{"1.3.1.200.1", "a"},
		{"1.3.1.10.2", "b"},
		{"1.3.2.200.1", "c"},
		{"1.30.1.1", "outside the subtree"},
		{"2.4.1.1", "outside the subtree"},
	})
	deepEqual(t, rowIDs, []string{"200.1", "10.2"})
	deepEqual(t, cells, map[string]map[string]string{
		"200.1": {"1": "a", "2": "c"},
		"10.2":  {"1": "b"},
	})
}

var portForwardColumns = []Column{
	{ID: "1", Name: "port", Translator: Int, Doc: "External port number"},
	{ID: "2", Name: "address", Translator: IPv4},
	{ID: "3", Name: "enabled", Translator: Bool},
}

func portForwardTransport() *MemTransport {
	tp := NewMemTransport()
	tp.Put("1.3.6.1.2.1.10", "8080")
	tp.Put("1.3.6.1.2.2.10", "$c0a80464")
	tp.Put("1.3.6.1.2.3.10", "1")
	tp.Put("1.3.6.1.2.1.20", "8443")
	tp.Put("1.3.6.1.2.3.20", "2")
	// Column 9 is not in the schema; row 30 has nothing else.
	tp.Put("1.3.6.1.2.9.30", "junk")
	return tp
}

func TestTable(t *testing.T) {
	tp := portForwardTransport()
	table := mustTable(t, tp, "1.3.6.1.2", portForwardColumns, nil)

	if table.Len() != 2 {
		t.Fatalf("Len() = %d, wanted 2", table.Len())
	}
	deepEqual(t, table.RowIDs(), []string{"10", "20"})

	row, ok := table.Row("10")
	if !ok {
		t.Fatalf("Row(10) not found")
	}
	deepEqual(t, row.FieldNames(), []string{"port", "address", "enabled"})
	if got := mustField(t, row, "port"); got != 8080 {
		t.Errorf("row 10 port = %v, wanted 8080", got)
	}
	if got := mustField(t, row, "address"); got != "192.168.4.100" {
		t.Errorf("row 10 address = %v, wanted 192.168.4.100", got)
	}
	if got := mustField(t, row, "enabled"); got != true {
		t.Errorf("row 10 enabled = %v, wanted true", got)
	}

	// Row 20 has no address cell: the field is absent, not nil-valued.
	row20, _ := table.Row("20")
	deepEqual(t, row20.FieldNames(), []string{"port", "enabled"})
	if row20.Has("address") {
		t.Errorf("row 20 claims to have an address field")
	}

	// Row 30 only had unmapped columns and must not materialize.
	if _, ok := table.Row("30"); ok {
		t.Errorf("row 30 was materialized from unmapped columns only")
	}

	// All cells were seeded from the walk: reads cost no remote calls.
	if tp.GetCount != 0 {
		t.Errorf("GetCount = %d after reads, wanted 0 (seeded)", tp.GetCount)
	}
	if tp.WalkCount != 1 {
		t.Errorf("WalkCount = %d, wanted 1", tp.WalkCount)
	}
}

func TestTableFieldOrderIgnoresWalkOrder(t *testing.T) {
	// Cells arrive column 3 first; field order must still follow the
	// schema.
	walk := []WalkItem{
		{"1.3.6.1.2.3.10", "1"},
		{"1.3.6.1.2.1.10", "8080"},
	}
	table := mustTable(t, NewMemTransport(), "1.3.6.1.2", portForwardColumns, walk)
	row, _ := table.Row("10")
	deepEqual(t, row.FieldNames(), []string{"port", "enabled"})
}

func TestTablePrefetchedWalkSkipsEnumeration(t *testing.T) {
	tp := NewMemTransport()
	walk := []WalkItem{{"1.3.6.1.2.1.10", "8080"}}
	table := mustTable(t, tp, "1.3.6.1.2", portForwardColumns, walk)
	if tp.WalkCount != 0 {
		t.Errorf("WalkCount = %d, wanted 0 for pre-fetched walk", tp.WalkCount)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, wanted 1", table.Len())
	}
}

func TestTableEmptyWalk(t *testing.T) {
	table := mustTable(t, NewMemTransport(), "1.3.6.1.2", portForwardColumns, nil)
	if table.Len() != 0 {
		t.Errorf("Len() = %d, wanted 0", table.Len())
	}
	if rows := table.Rows(); len(rows) != 0 {
		t.Errorf("Rows() = %v, wanted empty", rows)
	}
}

func TestTableWriteThrough(t *testing.T) {
	tp := portForwardTransport()
	table := mustTable(t, tp, "1.3.6.1.2", portForwardColumns, nil)

	row, _ := table.Row("10")
	if err := row.SetField("port", 9090); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if got, _ := tp.Get("1.3.6.1.2.1.10"); got != "9090" {
		t.Errorf("transport holds %q after SetField, wanted %q", got, "9090")
	}
	if got := mustField(t, row, "port"); got != 9090 {
		t.Errorf("port after SetField = %v, wanted 9090", got)
	}
}

func TestTableRowsOrder(t *testing.T) {
	tp := portForwardTransport()
	table := mustTable(t, tp, "1.3.6.1.2", portForwardColumns, nil)

	rows := table.Rows()
	if len(rows) != 2 {
		t.Fatalf("Rows() has %d entries, wanted 2", len(rows))
	}
	if got := mustField(t, rows[0], "port"); got != 8080 {
		t.Errorf("first row port = %v, wanted 8080", got)
	}
	if got := mustField(t, rows[1], "port"); got != 8443 {
		t.Errorf("second row port = %v, wanted 8443", got)
	}
}

func mustTable(t testing.TB, tp Transport, oid string, columns []Column, walk []WalkItem) *Table {
	t.Helper()
	table, err := NewTable(tp, oid, columns, walk)
	if err != nil {
		t.Fatalf("NewTable(%s) failed: %v", oid, err)
	}
	return table
}

func mustField(t testing.TB, row *Row, name string) any {
	t.Helper()
	v, err := row.Field(name)
	if err != nil {
		t.Fatalf("Field(%q) failed: %v", name, err)
	}
	return v
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}
