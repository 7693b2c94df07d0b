// Package auditlog keeps an append-only, checksummed log of attribute
// writes. Every record carries an xxhash64 checksum; on open, anything
// after the first corrupted record is trimmed, so a crash mid-append
// never poisons the log.
package auditlog

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/kovaacs/virgin-media-hub3/snmp"
)

var errCorruptedRecord = fmt.Errorf("corrupted audit log record")

// Entry is one recorded write.
type Entry struct {
	Time     time.Time
	OID      string
	Value    string
	DataType snmp.DataType
}

// Log is an open audit log file. Appends go to the end; All re-reads the
// whole file. Not safe for concurrent use.
type Log struct {
	f    *os.File
	path string
	size int64
	now  func() time.Time
}

// Open opens or creates the log at path. Trailing garbage from an
// interrupted append is truncated away with a warning.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	l := &Log{f: f, path: path, now: time.Now}

	valid, err := l.scan(nil)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	if valid < fi.Size() {
		slog.Warn("truncating corrupted tail of audit log", "path", path, "valid", valid, "size", fi.Size())
		if err := f.Truncate(valid); err != nil {
			f.Close()
			return nil, fmt.Errorf("auditlog: %w", err)
		}
	}
	l.size = valid
	return l, nil
}

func (l *Log) Close() error {
	return l.f.Close()
}

// Append writes one record and syncs it to disk.
func (l *Log) Append(e Entry) error {
	if e.Time.IsZero() {
		e.Time = l.now()
	}

	payload := appendEntry(nil, e)
	var frame []byte
	frame = binary.AppendUvarint(frame, uint64(len(payload)))
	frame = append(frame, payload...)
	frame = binary.LittleEndian.AppendUint64(frame, xxhash.Sum64(payload))

	if _, err := l.f.WriteAt(frame, l.size); err != nil {
		return fmt.Errorf("auditlog: %w", err)
	}
	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("auditlog: %w", err)
	}
	l.size += int64(len(frame))
	return nil
}

// All returns every record in append order.
func (l *Log) All() ([]Entry, error) {
	entries := []Entry{}
	_, err := l.scan(func(e Entry) {
		entries = append(entries, e)
	})
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return entries, nil
}

// scan reads records from the start, invoking fn for each valid one, and
// returns the offset just past the last valid record. Corruption ends the
// scan without an error; I/O failures are errors.
func (l *Log) scan(fn func(Entry)) (int64, error) {
	raw, err := io.ReadAll(io.NewSectionReader(l.f, 0, 1<<62))
	if err != nil {
		return 0, err
	}

	var off int64
	buf := raw
	for len(buf) > 0 {
		size, n := binary.Uvarint(buf)
		if n <= 0 || size > uint64(len(buf)-n) || uint64(len(buf)-n)-size < 8 {
			break
		}
		payload := buf[n : n+int(size)]
		sum := binary.LittleEndian.Uint64(buf[n+int(size):])
		if xxhash.Sum64(payload) != sum {
			break
		}
		e, err := decodeEntry(payload)
		if err != nil {
			break
		}
		if fn != nil {
			fn(e)
		}
		frameLen := n + int(size) + 8
		off += int64(frameLen)
		buf = buf[frameLen:]
	}
	return off, nil
}

func appendEntry(buf []byte, e Entry) []byte {
	buf = binary.AppendUvarint(buf, uint64(e.Time.UnixMilli()))
	buf = binary.AppendUvarint(buf, uint64(len(e.OID)))
	buf = append(buf, e.OID...)
	buf = binary.AppendUvarint(buf, uint64(len(e.Value)))
	buf = append(buf, e.Value...)
	buf = binary.AppendUvarint(buf, uint64(e.DataType))
	return buf
}

func decodeEntry(buf []byte) (Entry, error) {
	var e Entry
	ms, buf, err := takeUvarint(buf)
	if err != nil {
		return e, err
	}
	e.Time = time.UnixMilli(int64(ms)).UTC()
	oid, buf, err := takeString(buf)
	if err != nil {
		return e, err
	}
	e.OID = oid
	value, buf, err := takeString(buf)
	if err != nil {
		return e, err
	}
	e.Value = value
	dt, buf, err := takeUvarint(buf)
	if err != nil {
		return e, err
	}
	if len(buf) != 0 {
		return e, errCorruptedRecord
	}
	e.DataType = snmp.DataType(dt)
	return e, nil
}

func takeUvarint(buf []byte) (uint64, []byte, error) {
	v, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, nil, errCorruptedRecord
	}
	return v, buf[n:], nil
}

func takeString(buf []byte) (string, []byte, error) {
	size, buf, err := takeUvarint(buf)
	if err != nil {
		return "", nil, err
	}
	if size > uint64(len(buf)) {
		return "", nil, errCorruptedRecord
	}
	return string(buf[:size]), buf[size:], nil
}

// Wrap decorates a transport so every successful Set lands in the log.
func Wrap(tp snmp.Transport, log *Log) snmp.Transport {
	return &logged{tp: tp, log: log}
}

type logged struct {
	tp  snmp.Transport
	log *Log
}

func (t *logged) Get(oid string) (string, error) {
	return t.tp.Get(oid)
}

func (t *logged) Set(oid string, value string, dtype snmp.DataType) error {
	if err := t.tp.Set(oid, value, dtype); err != nil {
		return err
	}
	return t.log.Append(Entry{OID: oid, Value: value, DataType: dtype})
}

func (t *logged) Walk(root string) ([]snmp.WalkItem, error) {
	return t.tp.Walk(root)
}
