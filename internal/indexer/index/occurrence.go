package index

import "slices"

// OccurrenceList is the strictly ascending, duplicate-free list of line
// numbers recorded for one word.
type OccurrenceList []int

// NewOccurrenceList returns a list holding a single line number.
func NewOccurrenceList(line int) OccurrenceList {
	return OccurrenceList{line}
}

// InsertIfAbsent adds line at its ordered position. It reports false and
// leaves the list untouched when line is already present.
func (l *OccurrenceList) InsertIfAbsent(line int) bool {
	s := *l
	// Lines mostly arrive in document order, so the tail is the common case.
	if n := len(s); n == 0 || s[n-1] < line {
		*l = append(s, line)
		return true
	}
	pos, found := slices.BinarySearch(s, line)
	if found {
		return false
	}
	*l = slices.Insert(s, pos, line)
	return true
}

// Len returns the number of recorded lines.
func (l OccurrenceList) Len() int {
	return len(l)
}

// Lines returns a copy of the recorded line numbers.
func (l OccurrenceList) Lines() []int {
	return slices.Clone([]int(l))
}
