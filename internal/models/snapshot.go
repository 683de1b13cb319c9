package models

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/finbook/marketdata/internal/dates"
)

// Tier names the source a snapshot was originally resolved from. In-memory
// hits keep reporting that origin, so there is no memory tier value.
type Tier string

const (
	TierStore  Tier = "store"
	TierRemote Tier = "remote"
	TierStatic Tier = "static"
	TierNone   Tier = "none"
)

// Snapshot is an immutable, date-stamped set of records for one instrument
// class. A snapshot is superseded by a fresher one, never patched in place.
type Snapshot struct {
	Class   InstrumentClass
	AsOf    dates.Date
	Records map[string]Record
}

// NewSnapshot returns an empty snapshot stamped with the given day.
func NewSnapshot(class InstrumentClass, asOf dates.Date) *Snapshot {
	return &Snapshot{
		Class:   class,
		AsOf:    asOf,
		Records: make(map[string]Record),
	}
}

// Put stores a record under its key, replacing any previous entry.
func (s *Snapshot) Put(r Record) {
	s.Records[r.Key()] = r
}

// Get returns the record for key, if present.
func (s *Snapshot) Get(key string) (Record, bool) {
	r, ok := s.Records[key]
	return r, ok
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Empty reports whether the snapshot holds no records. An empty snapshot is
// a valid "nothing usable" outcome, not an error.
func (s *Snapshot) Empty() bool { return s.Len() == 0 }

// Keys returns the record keys in lexicographic order.
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Records))
	for k := range s.Records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// snapshotDoc is the serialized form. Records are split by concrete type so
// the payload round-trips without a per-record type tag.
type snapshotDoc struct {
	Class  InstrumentClass `json:"class"`
	AsOf   dates.Date      `json:"as_of"`
	Quotes []Quote         `json:"quotes,omitempty"`
	Funds  []FundNAV       `json:"funds,omitempty"`
}

// MarshalJSON encodes the snapshot with records in key order.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	doc := snapshotDoc{Class: s.Class, AsOf: s.AsOf}
	for _, k := range s.Keys() {
		switch r := s.Records[k].(type) {
		case Quote:
			doc.Quotes = append(doc.Quotes, r)
		case FundNAV:
			doc.Funds = append(doc.Funds, r)
		}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a snapshot produced by MarshalJSON.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	s.Class = doc.Class
	s.AsOf = doc.AsOf
	s.Records = make(map[string]Record, len(doc.Quotes)+len(doc.Funds))
	for _, q := range doc.Quotes {
		s.Put(q)
	}
	for _, f := range doc.Funds {
		s.Put(f)
	}
	return nil
}

// CacheStatus is the diagnostic view of one class's cache slot. AsOf is the
// formatted day, empty when no snapshot is held.
type CacheStatus struct {
	Class     InstrumentClass `json:"class"`
	Available bool            `json:"available"`
	Count     int             `json:"count"`
	AsOf      string          `json:"as_of,omitempty"`
	Tier      Tier            `json:"tier"`
}
