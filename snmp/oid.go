package snmp

import (
	"strconv"
	"strings"
)

// oidLess orders dotted OIDs the way a device walks them: segment by
// segment, numerically where both segments are numbers. Non-numeric
// segments fall back to string order.
func oidLess(a, b string) bool {
	return oidCompare(a, b) < 0
}

func oidCompare(a, b string) int {
	for a != "" || b != "" {
		if a == "" {
			return -1
		}
		if b == "" {
			return 1
		}
		as, arest, _ := strings.Cut(a, ".")
		bs, brest, _ := strings.Cut(b, ".")
		if c := segCompare(as, bs); c != 0 {
			return c
		}
		a, b = arest, brest
	}
	return 0
}

func segCompare(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// oidInSubtree reports whether oid lies strictly under root ("1.3.6.1"
// covers "1.3.6.1.2" but neither "1.3.6.1" itself nor "1.3.6.10").
func oidInSubtree(oid, root string) bool {
	return strings.HasPrefix(oid, root+".")
}
