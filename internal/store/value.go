// Package store implements the keyspace: a map of keys to tagged value
// shapes (string, hash, list, sorted set) with lazy expiration and
// asynchronous bulk reclamation, as specified in SPEC_FULL.md §3-4.3.
package store

import "container/list"

// Value is the tagged sum spec.md §3 describes: every key maps to exactly
// one of StringValue, HashValue, ListValue, or SortedSetValue. Handlers
// discriminate the concrete shape with a type switch rather than an
// explicit tag field, the idiomatic Go analogue of the reference's
// std::variant<StringPtr, HashPtr, ListPtr, SortedSetPtr>.
type Value interface {
	isValue()
}

// StringValue is an owned byte string.
type StringValue []byte

func (StringValue) isValue() {}

// HashValue maps field names to byte-string values. Field uniqueness is
// enforced by the Go map itself; insertion order is not preserved (the
// reference's std::unordered_map makes the same guarantee).
type HashValue map[string][]byte

func (HashValue) isValue() {}

// ListValue is an ordered sequence of byte strings supporting head
// insertion, head removal, and index subranges. Backed by container/list
// the way the reference backs ListType with std::list.
type ListValue struct {
	l *list.List
}

// NewListValue returns an empty ListValue.
func NewListValue() *ListValue {
	return &ListValue{l: list.New()}
}

func (*ListValue) isValue() {}

// PushHead inserts v at the head of the list.
func (lv *ListValue) PushHead(v []byte) {
	lv.l.PushFront(v)
}

// PopHead removes and returns the head element. ok is false if the list is
// empty.
func (lv *ListValue) PopHead() (v []byte, ok bool) {
	front := lv.l.Front()
	if front == nil {
		return nil, false
	}
	lv.l.Remove(front)
	return front.Value.([]byte), true
}

// Len reports the number of elements.
func (lv *ListValue) Len() int {
	return lv.l.Len()
}

// Slice returns the elements from index start to stop inclusive, in
// head-to-tail order. The caller must have already normalized start/stop
// via NormalizeRange.
func (lv *ListValue) Slice(start, stop int) [][]byte {
	if start > stop {
		return nil
	}
	out := make([][]byte, 0, stop-start+1)
	i := 0
	for e := lv.l.Front(); e != nil && i <= stop; e = e.Next() {
		if i >= start {
			out = append(out, e.Value.([]byte))
		}
		i++
	}
	return out
}
