package snmp

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

var snapBucket = []byte("oids")

// snapEntry is the stored form of one OID's value.
type snapEntry struct {
	Value    string   `msgpack:"v"`
	DataType DataType `msgpack:"t"`
}

// Snapshot is a Transport backed by a bbolt file: a recorded copy of a
// hub's OID tree that can be read, written and walked without the device.
// Sets write through to the file, so write verification observes them.
type Snapshot struct {
	bdb *bbolt.DB
}

type SnapshotOptions struct {
	ReadOnly  bool
	IsTesting bool
}

// OpenSnapshot opens (creating if needed, unless read-only) a snapshot
// file.
func OpenSnapshot(path string, opt SnapshotOptions) (*Snapshot, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	bopt.ReadOnly = opt.ReadOnly
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
	}

	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if !opt.ReadOnly {
		err = bdb.Update(func(btx *bbolt.Tx) error {
			_, err := btx.CreateBucketIfNotExists(snapBucket)
			return err
		})
		if err != nil {
			bdb.Close()
			return nil, fmt.Errorf("snapshot: %w", err)
		}
	}
	return &Snapshot{bdb: bdb}, nil
}

func (s *Snapshot) Close() error {
	return s.bdb.Close()
}

// Bolt exposes the underlying database for tooling.
func (s *Snapshot) Bolt() *bbolt.DB {
	return s.bdb
}

func (s *Snapshot) Get(oid string) (string, error) {
	var entry snapEntry
	found := false
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		b := btx.Bucket(snapBucket)
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(oid))
		if raw == nil {
			return nil
		}
		found = true
		return msgpack.Unmarshal(raw, &entry)
	})
	if err != nil {
		return "", remoteErrf("get", oid, err, "snapshot read failed")
	}
	if !found {
		return "", remoteErrf("get", oid, nil, "not in snapshot")
	}
	return entry.Value, nil
}

func (s *Snapshot) Set(oid string, value string, dtype DataType) error {
	raw, err := msgpack.Marshal(snapEntry{Value: value, DataType: dtype})
	if err != nil {
		return remoteErrf("set", oid, err, "encoding snapshot entry")
	}
	err = s.bdb.Update(func(btx *bbolt.Tx) error {
		return btx.Bucket(snapBucket).Put([]byte(oid), raw)
	})
	if err != nil {
		return remoteErrf("set", oid, err, "snapshot write failed")
	}
	return nil
}

func (s *Snapshot) Walk(root string) ([]WalkItem, error) {
	prefix := []byte(root + ".")
	result := []WalkItem{}
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		b := btx.Bucket(snapBucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var entry snapEntry
			if err := msgpack.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("entry %s: %w", k, err)
			}
			result = append(result, WalkItem{OID: string(k), Value: entry.Value})
		}
		return nil
	})
	if err != nil {
		return nil, remoteErrf("walk", root, err, "snapshot walk failed")
	}
	// Bolt iterates byte-lexicographically; put the subtree back into
	// device walk order.
	sort.SliceStable(result, func(i, j int) bool {
		return oidLess(result[i].OID, result[j].OID)
	})
	return result, nil
}

// Record walks each root through src and stores everything in dst,
// so later sessions can replay the subtrees offline.
func Record(dst *Snapshot, src Transport, roots ...string) error {
	for _, root := range roots {
		walk, err := src.Walk(root)
		if err != nil {
			return err
		}
		for _, item := range walk {
			if err := dst.Set(item.OID, item.Value, TypeString); err != nil {
				return err
			}
		}
	}
	return nil
}
