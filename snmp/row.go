package snmp

import (
	"fmt"
	"slices"
	"strings"
)

// Row is a fixed, ordered set of named attributes: one materialized table
// row. Field order follows the column schema the table was built with,
// not the order cells arrived in the walk.
type Row struct {
	names []string
	attrs map[string]*Attribute
}

func newRow(names []string, attrs map[string]*Attribute) *Row {
	return &Row{names: names, attrs: attrs}
}

// FieldNames returns the field names in declared order.
func (r *Row) FieldNames() []string {
	return slices.Clone(r.names)
}

func (r *Row) Len() int {
	return len(r.names)
}

func (r *Row) Has(name string) bool {
	return r.attrs[name] != nil
}

// Attr returns the binding behind a field, or nil if the row has no such
// field.
func (r *Row) Attr(name string) *Attribute {
	return r.attrs[name]
}

// Field returns the current value of the named field via its binding.
func (r *Row) Field(name string) (any, error) {
	a := r.attrs[name]
	if a == nil {
		return nil, fmt.Errorf("row has no field %q", name)
	}
	return a.Read()
}

// SetField writes a new value through the field's binding, with the usual
// write verification.
func (r *Row) SetField(name string, v any) error {
	a := r.attrs[name]
	if a == nil {
		return fmt.Errorf("row has no field %q", name)
	}
	return a.Write(v)
}

func (r *Row) String() string {
	return r.render("%v")
}

// GoString renders field values with their debug representation, so
// fmt's %#v distinguishes e.g. nil from the string "<nil>".
func (r *Row) GoString() string {
	return r.render("%#v")
}

func (r *Row) render(verb string) string {
	var sb strings.Builder
	sb.WriteString("Row(")
	for i, name := range r.names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(`="`)
		v, err := r.attrs[name].Read()
		if err != nil {
			fmt.Fprintf(&sb, "<error: %v>", err)
		} else {
			fmt.Fprintf(&sb, verb, v)
		}
		sb.WriteByte('"')
	}
	sb.WriteByte(')')
	return sb.String()
}
