package index

import (
	"errors"
	"fmt"
	"sort"
)

const (
	// DefaultCapacity is the slot count of a table created without an
	// explicit capacity.
	DefaultCapacity = 1000
	// LoadFactorThreshold is the occupancy ratio above which the table
	// doubles before taking a new insertion.
	LoadFactorThreshold = 0.7
)

// ErrInvalidCapacity is returned when a table is requested with fewer than
// one slot.
var ErrInvalidCapacity = errors.New("table capacity must be positive")

// slot is a single position in the table. dist is the number of slots the
// entry sits past its home slot.
type slot struct {
	key   string
	lines OccurrenceList
	dist  int
	used  bool
}

// Table maps words to their occurrence lists using open addressing with
// Robin Hood displacement. It is not safe for concurrent use.
type Table struct {
	hash   HashFunc
	slots  []slot
	count  int
	grows  int
	onGrow func(oldCapacity, newCapacity int)
}

// Option configures a Table.
type Option func(*Table)

// WithHashFunc replaces the default rolling hash.
func WithHashFunc(fn HashFunc) Option {
	return func(t *Table) {
		if fn != nil {
			t.hash = fn
		}
	}
}

// WithGrowHook registers a callback invoked after every completed growth.
func WithGrowHook(fn func(oldCapacity, newCapacity int)) Option {
	return func(t *Table) {
		t.onGrow = fn
	}
}

// NewTable returns an empty table with the given number of slots.
func NewTable(capacity int, opts ...Option) (*Table, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	t := &Table{
		hash:  RollingHash,
		slots: make([]slot, capacity),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Insert records that key appears on line. A new key gets its own entry;
// an existing key has line merged into its occurrence list.
func (t *Table) Insert(key string, line int) {
	if float64(t.count)/float64(len(t.slots)) > LoadFactorThreshold {
		t.grow()
	}
	t.insert(key, line)
}

func (t *Table) insert(key string, line int) {
	capacity := uint64(len(t.slots))
	i := t.hash(key) % capacity
	cand := slot{
		key:   key,
		lines: NewOccurrenceList(line),
		used:  true,
	}
	for {
		s := &t.slots[i]
		if !s.used {
			*s = cand
			t.count++
			return
		}
		if s.key == cand.key {
			s.lines.InsertIfAbsent(line)
			return
		}
		// the poorer entry takes the slot, the richer one moves on
		if s.dist < cand.dist {
			cand, *s = *s, cand
		}
		i = (i + 1) % capacity
		cand.dist++
	}
}

// grow doubles the slot array and replays every recorded (key, line) pair
// through the full insert path of the larger table.
func (t *Table) grow() {
	oldCapacity := len(t.slots)
	next := &Table{
		hash:  t.hash,
		slots: make([]slot, oldCapacity*2),
	}
	for i := range t.slots {
		if !t.slots[i].used {
			continue
		}
		for _, line := range t.slots[i].lines {
			next.Insert(t.slots[i].key, line)
		}
	}
	t.slots = next.slots
	t.count = next.count
	t.grows++
	if t.onGrow != nil {
		t.onGrow(oldCapacity, len(t.slots))
	}
}

// Find returns a copy of the occurrence list recorded for key.
func (t *Table) Find(key string) (OccurrenceList, bool) {
	capacity := uint64(len(t.slots))
	i := t.hash(key) % capacity
	for n := uint64(0); n < capacity; n++ {
		s := &t.slots[i]
		if !s.used {
			return nil, false
		}
		if s.key == key {
			return s.lines.Lines(), true
		}
		i = (i + 1) % capacity
	}
	return nil, false
}

// Range calls fn for every stored key in slot order until fn returns false.
// The table must not be modified while ranging.
func (t *Table) Range(fn func(key string, lines OccurrenceList) bool) {
	for i := range t.slots {
		if !t.slots[i].used {
			continue
		}
		if !fn(t.slots[i].key, t.slots[i].lines) {
			return
		}
	}
}

// Snapshot copies every entry out of the table, sorted by key.
func (t *Table) Snapshot() []TermEntry {
	entries := make([]TermEntry, 0, t.count)
	t.Range(func(key string, lines OccurrenceList) bool {
		entries = append(entries, TermEntry{
			Term:  key,
			Lines: lines.Lines(),
		})
		return true
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Term < entries[j].Term
	})
	return entries
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	return t.count
}

// Capacity returns the current number of slots.
func (t *Table) Capacity() int {
	return len(t.slots)
}

// Grows returns how many times the table has doubled.
func (t *Table) Grows() int {
	return t.grows
}

// LoadFactor returns the current occupancy ratio.
func (t *Table) LoadFactor() float64 {
	return float64(t.count) / float64(len(t.slots))
}

// MaxProbeDistance returns the largest displacement of any stored entry.
func (t *Table) MaxProbeDistance() int {
	var highest int
	for i := range t.slots {
		if t.slots[i].used && t.slots[i].dist > highest {
			highest = t.slots[i].dist
		}
	}
	return highest
}
