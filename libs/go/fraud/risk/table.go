package risk

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// ErrInvalidSeed is returned when seed records violate the table invariants.
var ErrInvalidSeed = errors.New("invalid seed data")

// Table is an immutable pair of lookup maps, one per subject kind.
type Table struct {
	byKind map[Kind]map[string]Record
}

// NewTable validates records and indexes them by kind and key. Website ids are
// normalized before indexing.
func NewTable(records []Record) (*Table, error) {
	t := &Table{byKind: map[Kind]map[string]Record{
		KindAdvisor: {},
		KindWebsite: {},
	}}
	for _, r := range records {
		m, ok := t.byKind[r.Kind]
		if !ok {
			return nil, fmt.Errorf("%w: record %q has unknown kind %q", ErrInvalidSeed, r.SubjectID, r.Kind)
		}
		key := Key(r.Kind, r.SubjectID)
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: %s record with empty id", ErrInvalidSeed, r.Kind)
		}
		if r.Score < MinScore || r.Score > MaxScore {
			return nil, fmt.Errorf("%w: %s %q score %d outside [%d,%d]", ErrInvalidSeed, r.Kind, key, r.Score, MinScore, MaxScore)
		}
		if _, dup := m[key]; dup {
			return nil, fmt.Errorf("%w: duplicate %s %q", ErrInvalidSeed, r.Kind, key)
		}
		r.SubjectID = key
		m[key] = r.Clone()
	}
	return t, nil
}

// Lookup finds a subject by exact key. Website ids are normalized first; advisor
// names are matched as given. A miss is reported through ok, not as an error.
func (t *Table) Lookup(kind Kind, id string) (rec Record, ok bool) {
	if t == nil {
		return Record{}, false
	}
	r, ok := t.byKind[kind][Key(kind, id)]
	if !ok {
		return Record{}, false
	}
	return r.Clone(), true
}

// Len reports how many records of kind the table holds.
func (t *Table) Len(kind Kind) int {
	if t == nil {
		return 0
	}
	return len(t.byKind[kind])
}

// Subjects returns the sorted keys of kind.
func (t *Table) Subjects(kind Kind) []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.byKind[kind]))
	for k := range t.byKind[kind] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Key returns the lookup key for a raw subject id.
func Key(kind Kind, id string) string {
	if kind == KindWebsite {
		return NormalizeWebsite(id)
	}
	return id
}

// NormalizeWebsite lowercases a URL-ish input, drops an http(s) scheme and one
// trailing slash.
func NormalizeWebsite(raw string) string {
	s := strings.ToLower(raw)
	if rest, ok := strings.CutPrefix(s, "https://"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "http://"); ok {
		s = rest
	}
	return strings.TrimSuffix(s, "/")
}

// Holder publishes the active table; readers never observe a partially built one.
type Holder struct {
	p atomic.Pointer[Table]
}

// NewHolder returns a holder serving t.
func NewHolder(t *Table) *Holder {
	h := &Holder{}
	h.p.Store(t)
	return h
}

// Load returns the active table.
func (h *Holder) Load() *Table { return h.p.Load() }

// Swap installs t and returns the previous table.
func (h *Holder) Swap(t *Table) *Table { return h.p.Swap(t) }
