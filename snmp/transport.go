package snmp

import "fmt"

// DataType tells the transport how to encode a value when writing it to
// the hub. The numeric values are the hub's own type codes.
type DataType int

const (
	TypeInt    = DataType(2)
	TypeString = DataType(4)
	TypePort   = DataType(66)
)

func (dt DataType) String() string {
	switch dt {
	case TypeInt:
		return "INT"
	case TypeString:
		return "STRING"
	case TypePort:
		return "PORT"
	default:
		return fmt.Sprintf("DataType(%d)", int(dt))
	}
}

// WalkItem is one OID/value pair from a subtree enumeration.
type WalkItem struct {
	OID   string
	Value string
}

// Transport is the capability this package requires from its collaborators:
// point reads, point writes and subtree enumeration against the hub (or a
// stand-in for it). Implementations own retry, timeout and cancellation
// policy; this package performs single synchronous calls and never retries.
type Transport interface {
	// Get fetches the wire value of a single OID.
	Get(oid string) (string, error)

	// Set stores a wire value, encoded on the wire per dtype.
	Set(oid string, value string, dtype DataType) error

	// Walk enumerates the subtree rooted at root, in the transport's
	// natural order. An empty result is valid and not an error.
	Walk(root string) ([]WalkItem, error)
}
