/*
Package snmp implements a typed attribute layer over a hub's OID tree.

We implement:

1. Translators, bidirectional codecs between the hub's wire strings and
typed values (integers, booleans, MAC/IP addresses, timestamps, enums).

2. Attributes, cached write-verified bindings of one typed value to one OID.

3. Tables, fixed-size collections of rows materialized from a single walk
of an OID subtree, with a declarative column schema.

The actual communication with the hub happens through the Transport
interface, which this package consumes but never implements over the
network. Two storage-backed implementations are bundled: an in-memory
transport for tests, and a bbolt-backed snapshot transport for recording
and replaying a device's OID tree offline.

# Wire formats

The hub encodes most non-string values as a dollar sign followed by hex
digits: MAC addresses as $ + 12 digits, IPv4 as $ + 8, IPv6 as $ + 32,
timestamps as $ + 16 (two bytes of year, then one byte each of month,
day, hour, minute, second, and one junk byte). Booleans are "1"/"2",
integers are decimal strings, and the empty string generally means the
value is absent.
*/
package snmp
