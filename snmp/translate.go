package snmp

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Translator converts between the hub's wire strings and typed values.
// Absent values are represented as nil on the typed side. Either direction
// may be undefined for a given translator, in which case it fails with
// ErrUnsupported.
type Translator interface {
	// DataType is the wire encoding category to pass to Transport.Set.
	DataType() DataType

	// Encode converts a typed value to its wire representation.
	Encode(v any) (string, error)

	// Decode converts a wire value to its typed representation.
	Decode(s string) (any, error)
}

// Built-in translators. All are stateless; Enum builds parameterized ones.
var (
	Identity Translator = identityTranslator{}
	Null     Translator = nullTranslator{}
	Bool     Translator = boolTranslator{}
	Int      Translator = intTranslator{}
	Port     Translator = portTranslator{}
	MacAddr  Translator = macAddrTranslator{}
	IPv4     Translator = ipv4Translator{}
	IPv6     Translator = ipv6Translator{}
	IPAddr   Translator = ipAddrTranslator{}
	DateTime Translator = dateTimeTranslator{}
)

type identityTranslator struct{}

func (identityTranslator) DataType() DataType { return TypeString }

func (identityTranslator) Encode(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

func (identityTranslator) Decode(s string) (any, error) {
	return s, nil
}

// nullTranslator passes strings through, except that it maps the empty
// wire string to nil and back.
type nullTranslator struct{}

func (nullTranslator) DataType() DataType { return TypeString }

func (nullTranslator) Encode(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

func (nullTranslator) Decode(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	return s, nil
}

// boolTranslator maps true to "1" and false to "2", which is how the hub
// represents booleans. A textual "false" (any case) also encodes as "2".
type boolTranslator struct{}

func (boolTranslator) DataType() DataType { return TypeInt }

func (boolTranslator) Encode(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "2", nil
	case bool:
		if v {
			return "1", nil
		}
		return "2", nil
	case string:
		if strings.EqualFold(v, "false") || v == "" {
			return "2", nil
		}
		return "1", nil
	default:
		return "", formatErrf(fmt.Sprint(v), nil, "cannot encode %T as a boolean", v)
	}
}

func (boolTranslator) Decode(s string) (any, error) {
	return s == "1", nil
}

type intTranslator struct{}

func (intTranslator) DataType() DataType { return TypeInt }

func (intTranslator) Encode(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", formatErrf(v, err, "does not look like an integer")
		}
		return strconv.Itoa(n), nil
	default:
		return "", formatErrf(fmt.Sprint(v), nil, "cannot encode %T as an integer", v)
	}
}

func (intTranslator) Decode(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, formatErrf(s, err, "does not look like an integer")
	}
	return n, nil
}

// portTranslator is the integer translator with the hub's PORT wire
// encoding, for attributes holding TCP/UDP port numbers.
type portTranslator struct {
	intTranslator
}

func (portTranslator) DataType() DataType { return TypePort }

// EnumTranslator translates between a ~string domain type and the wire
// values the hub uses for it. The domain type's values act as the symbolic
// names; the wire mapping is supplied at construction.
type EnumTranslator[T ~string] struct {
	wire   map[T]string
	domain map[string]T
	dtype  DataType
}

// Enum builds a translator for the given wire mapping. It panics if two
// variants share a wire value.
func Enum[T ~string](wire map[T]string) *EnumTranslator[T] {
	e := &EnumTranslator[T]{
		wire:   wire,
		domain: make(map[string]T, len(wire)),
		dtype:  TypeString,
	}
	for name, w := range wire {
		if prev, dup := e.domain[w]; dup {
			panic(fmt.Errorf("enum %T: variants %q and %q share wire value %q", name, prev, name, w))
		}
		e.domain[w] = name
	}
	return e
}

// WithDataType overrides the wire encoding category (the default is STRING).
func (e *EnumTranslator[T]) WithDataType(dt DataType) *EnumTranslator[T] {
	e.dtype = dt
	return e
}

func (e *EnumTranslator[T]) DataType() DataType { return e.dtype }

func (e *EnumTranslator[T]) Encode(v any) (string, error) {
	var name T
	switch v := v.(type) {
	case T:
		name = v
	case string:
		name = T(v)
	default:
		return "", &UnknownVariantError{fmt.Sprintf("%T", name), fmt.Sprint(v)}
	}
	w, ok := e.wire[name]
	if !ok {
		return "", &UnknownVariantError{fmt.Sprintf("%T", name), string(name)}
	}
	return w, nil
}

func (e *EnumTranslator[T]) Decode(s string) (any, error) {
	name, ok := e.domain[s]
	if !ok {
		return nil, &UnknownVariantError{fmt.Sprintf("%T", name), s}
	}
	return name, nil
}

var macAddrWireRe = regexp.MustCompile(`^\$[0-9a-fA-F]{12}$`)

// macAddrTranslator decodes the hub's "$787b8a6413f5" form into the
// traditional colon-separated representation. Encoding is not supported.
type macAddrTranslator struct{}

func (macAddrTranslator) DataType() DataType { return TypeString }

func (macAddrTranslator) Encode(v any) (string, error) {
	return "", fmt.Errorf("encoding MAC addresses: %w", ErrUnsupported)
}

func (macAddrTranslator) Decode(s string) (any, error) {
	if !macAddrWireRe.MatchString(s) {
		return nil, formatErrf(s, nil, "does not look like a MAC address")
	}
	var sb strings.Builder
	for i := 1; i < 13; i += 2 {
		if i > 1 {
			sb.WriteByte(':')
		}
		sb.WriteString(s[i : i+2])
	}
	return sb.String(), nil
}

var (
	ipv4WireRe   = regexp.MustCompile(`^\$[0-9a-fA-F]{8}$`)
	ipv4DottedRe = regexp.MustCompile(`^[0-9]{1,3}(\.[0-9]{1,3}){3}$`)
)

// ipv4Translator handles the hub's hex form of IPv4 addresses,
// e.g. "$c0a80464" <=> "192.168.4.100". An empty or all-zero wire value
// means the address is absent.
type ipv4Translator struct{}

func (ipv4Translator) DataType() DataType { return TypeString }

func (ipv4Translator) Encode(v any) (string, error) {
	if v == nil {
		return "$00000000", nil
	}
	s, ok := v.(string)
	if !ok || !ipv4DottedRe.MatchString(s) {
		return "", formatErrf(fmt.Sprint(v), nil, "does not look like an IPv4 address")
	}
	var sb strings.Builder
	sb.WriteByte('$')
	for _, part := range strings.Split(s, ".") {
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return "", formatErrf(s, nil, "IPv4 octet %q out of range", part)
		}
		fmt.Fprintf(&sb, "%02x", n)
	}
	return sb.String(), nil
}

func (ipv4Translator) Decode(s string) (any, error) {
	if s == "" || s == "$00000000" {
		return nil, nil
	}
	if !ipv4WireRe.MatchString(s) {
		return nil, formatErrf(s, nil, "does not look like an IPv4 address")
	}
	parts := make([]string, 0, 4)
	for i := 1; i < 9; i += 2 {
		n, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			return nil, formatErrf(s, err, "does not look like an IPv4 address")
		}
		parts = append(parts, strconv.Itoa(int(n)))
	}
	return strings.Join(parts, "."), nil
}

var ipv6WireRe = regexp.MustCompile(`^\$[0-9a-fA-F]{32}$`)

const ipv6ZeroWire = "$00000000000000000000000000000000"

// ipv6Translator decodes the hub's hex form of IPv6 addresses into eight
// colon-separated groups. Encoding is not supported.
type ipv6Translator struct{}

func (ipv6Translator) DataType() DataType { return TypeString }

func (ipv6Translator) Encode(v any) (string, error) {
	return "", fmt.Errorf("encoding IPv6 addresses: %w", ErrUnsupported)
}

func (ipv6Translator) Decode(s string) (any, error) {
	if s == "" || s == ipv6ZeroWire {
		return nil, nil
	}
	if !ipv6WireRe.MatchString(s) {
		return nil, formatErrf(s, nil, "does not look like an IPv6 address")
	}
	var sb strings.Builder
	for i := 1; i < 33; i += 4 {
		if i > 1 {
			sb.WriteByte(':')
		}
		sb.WriteString(s[i : i+4])
	}
	return sb.String(), nil
}

// ipAddrTranslator understands both address families: it tries the IPv4
// form first and falls back to IPv6 on a format mismatch. Since IPv6
// encoding is unsupported, encoding only ever succeeds for IPv4-shaped
// input; this mirrors the hub's observed behavior and is intentional.
type ipAddrTranslator struct{}

func (ipAddrTranslator) DataType() DataType { return TypeString }

func (ipAddrTranslator) Encode(v any) (string, error) {
	s, err := IPv4.Encode(v)
	if err == nil {
		return s, nil
	}
	if !isFormatError(err) {
		return "", err
	}
	return IPv6.Encode(v)
}

func (ipAddrTranslator) Decode(s string) (any, error) {
	v, err := IPv4.Decode(s)
	if err == nil {
		return v, nil
	}
	if !isFormatError(err) {
		return nil, err
	}
	return IPv6.Decode(s)
}

func isFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

var dateTimeWireRe = regexp.MustCompile(`^\$[0-9a-fA-F]{16}$`)

const dateTimeZeroWire = "$0000000000000000"

// dateTimeTranslator decodes the hub's timestamp encoding: $ followed by
// 16 hex digits laid out as year (2 bytes), month, day, hour, minute,
// second (1 byte each) and one junk byte. Encoding is not supported.
type dateTimeTranslator struct{}

func (dateTimeTranslator) DataType() DataType { return TypeString }

func (dateTimeTranslator) Encode(v any) (string, error) {
	return "", fmt.Errorf("encoding timestamps: %w", ErrUnsupported)
}

func (dateTimeTranslator) Decode(s string) (any, error) {
	if s == "" || s == dateTimeZeroWire {
		return nil, nil
	}
	if !dateTimeWireRe.MatchString(s) {
		return nil, formatErrf(s, nil, "does not look like a timestamp")
	}
	field := func(from, to int) int {
		n, _ := strconv.ParseUint(s[from:to], 16, 16)
		return int(n)
	}
	year := field(1, 5)
	month := field(5, 7)
	day := field(7, 9)
	hour := field(9, 11)
	minute := field(11, 13)
	second := field(13, 15)
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || second > 59 {
		return nil, formatErrf(s, nil, "timestamp field out of range")
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		// time.Date normalized an impossible calendar day, e.g. Feb 30.
		return nil, formatErrf(s, nil, "timestamp field out of range")
	}
	return t, nil
}
