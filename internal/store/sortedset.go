package store

import (
	"bytes"
	"sort"
)

// sortedSetEntry is one (member, score) pair in the ordered view.
type sortedSetEntry struct {
	member string
	score  float64
}

// less orders entries ascending by score, then by byte-lexicographic
// member, matching the reference's std::set<Data> comparator.
func (e sortedSetEntry) less(o sortedSetEntry) bool {
	if e.score != o.score {
		return e.score < o.score
	}
	return bytes.Compare([]byte(e.member), []byte(o.member)) < 0
}

// SortedSetValue keeps a member->score index alongside an ordered view of
// the same data, mirroring the reference SortedSet's dual-index design: a
// hash map for O(1) ZADD/ZSCORE and an ordered index for ZRANGE. The
// ordered view is a sorted slice rather than a balanced tree — the keyspace
// is in-memory and single-mutex-serialized already, so the simpler
// structure is preferred over importing a tree library for this scale.
type SortedSetValue struct {
	scores  map[string]float64
	ordered []sortedSetEntry
}

// NewSortedSetValue returns an empty SortedSetValue.
func NewSortedSetValue() *SortedSetValue {
	return &SortedSetValue{scores: make(map[string]float64)}
}

func (*SortedSetValue) isValue() {}

// InsertOrAssign sets member's score, replacing any existing score for that
// member. It reports whether member was newly created.
func (s *SortedSetValue) InsertOrAssign(member string, score float64) (created bool) {
	old, exists := s.scores[member]
	if exists && old == score {
		return false
	}
	if exists {
		s.removeFromOrdered(sortedSetEntry{member: member, score: old})
	}
	s.scores[member] = score
	s.insertOrdered(sortedSetEntry{member: member, score: score})
	return !exists
}

func (s *SortedSetValue) insertOrdered(e sortedSetEntry) {
	i := sort.Search(len(s.ordered), func(i int) bool { return !s.ordered[i].less(e) })
	s.ordered = append(s.ordered, sortedSetEntry{})
	copy(s.ordered[i+1:], s.ordered[i:])
	s.ordered[i] = e
}

func (s *SortedSetValue) removeFromOrdered(e sortedSetEntry) {
	i := sort.Search(len(s.ordered), func(i int) bool { return !s.ordered[i].less(e) })
	for ; i < len(s.ordered); i++ {
		if s.ordered[i].member == e.member {
			s.ordered = append(s.ordered[:i], s.ordered[i+1:]...)
			return
		}
		if e.less(s.ordered[i]) {
			return
		}
	}
}

// Len reports the number of members.
func (s *SortedSetValue) Len() int {
	return len(s.scores)
}

// Score returns member's score, and whether member is present.
func (s *SortedSetValue) Score(member string) (float64, bool) {
	sc, ok := s.scores[member]
	return sc, ok
}

// Range returns the (member, score) pairs at ordered indices start..stop
// inclusive, ascending by score then member. The caller must have already
// normalized start/stop via NormalizeRange.
func (s *SortedSetValue) Range(start, stop int) []struct {
	Member string
	Score  float64
} {
	if start > stop {
		return nil
	}
	out := make([]struct {
		Member string
		Score  float64
	}, 0, stop-start+1)
	for i := start; i <= stop && i < len(s.ordered); i++ {
		out = append(out, struct {
			Member string
			Score  float64
		}{s.ordered[i].member, s.ordered[i].score})
	}
	return out
}
