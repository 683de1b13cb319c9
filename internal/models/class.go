package models

import "fmt"

// InstrumentClass identifies how a holding is priced.
type InstrumentClass string

const (
	ClassEquity InstrumentClass = "equity"
	ClassFund   InstrumentClass = "fund"
	ClassOther  InstrumentClass = "other"
)

// CachedClasses lists the classes the cache resolves snapshots for.
// ClassOther holdings are never repriced and have no snapshot.
var CachedClasses = []InstrumentClass{ClassEquity, ClassFund}

// ParseInstrumentClass validates a class received over the API.
func ParseInstrumentClass(s string) (InstrumentClass, error) {
	switch InstrumentClass(s) {
	case ClassEquity:
		return ClassEquity, nil
	case ClassFund:
		return ClassFund, nil
	case ClassOther:
		return ClassOther, nil
	}
	return "", fmt.Errorf("unknown instrument class: %q", s)
}

// Cached reports whether snapshots exist for this class.
func (c InstrumentClass) Cached() bool {
	return c == ClassEquity || c == ClassFund
}
