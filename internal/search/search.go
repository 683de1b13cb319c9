// Package search answers instrument lookups against a cached snapshot.
package search

import (
	"sort"
	"strings"

	"github.com/finbook/marketdata/internal/models"
)

const (
	// MinQueryLen gates scanning: the UI queries on every keystroke and
	// one-character queries would match most of the universe.
	MinQueryLen = 2

	// MaxResults caps one response.
	MaxResults = 10
)

// indexed pairs a record with its precomputed lowercase search label.
type indexed struct {
	label  string
	record models.Record
}

// Index is a search view over one snapshot, ordered by record key so
// results are deterministic regardless of map iteration order.
type Index struct {
	entries []indexed
}

// New builds an index over the snapshot's records. A nil snapshot yields an
// index that matches nothing.
func New(snap *models.Snapshot) *Index {
	idx := &Index{}
	if snap == nil {
		return idx
	}

	idx.entries = make([]indexed, 0, snap.Len())
	for _, r := range snap.Records {
		idx.entries = append(idx.entries, indexed{
			label:  strings.ToLower(r.Label()),
			record: r,
		})
	}
	sort.Slice(idx.entries, func(i, j int) bool {
		return idx.entries[i].record.Key() < idx.entries[j].record.Key()
	})
	return idx
}

// Search returns up to MaxResults records whose label contains the query,
// case-insensitively, in key order. Queries shorter than MinQueryLen return
// no results.
func (idx *Index) Search(query string) []models.Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < MinQueryLen {
		return nil
	}

	var out []models.Record
	for _, e := range idx.entries {
		if strings.Contains(e.label, q) {
			out = append(out, e.record)
			if len(out) == MaxResults {
				break
			}
		}
	}
	return out
}
