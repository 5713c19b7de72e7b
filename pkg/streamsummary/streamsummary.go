// Package streamsummary implements the Space-Saving algorithm for
// approximate top-K frequency estimation over an unbounded stream of string
// keys, using bounded memory.
//
// Slots are grouped into buckets of identical value, and buckets are kept in
// a doubly-linked list in strictly descending value order. This package uses
// container/list for both the bucket list and each bucket's slot list: Go's
// GC retires the manual refcounting an arena-of-indices implementation would
// otherwise need, while list.Element still gives O(1) splice between
// buckets on every offer.
package streamsummary

import "container/list"

// Counter is a point-in-time snapshot of one tracked item.
//
// Value is the estimated frequency; Error is Space-Saving's overcount bound
// — the true frequency f satisfies Value-Error <= f <= Value.
type Counter struct {
	Item  string
	Value uint64
	Error uint64
}

type slot struct {
	item     string
	occupied bool
	value    uint64
	errorVal uint64
	bucketEl *list.Element // element of StreamSummary.buckets holding this slot's bucketNode
	selfEl   *list.Element // this slot's own element within bucketEl's slots list
}

type bucketNode struct {
	value uint64
	slots *list.List // *slot, front = oldest insertion
}

// StreamSummary is a fixed-capacity Space-Saving estimator.
type StreamSummary struct {
	capacity int
	n        uint64
	buckets  *list.List // *bucketNode, strictly descending value
	index    map[string]*slot
}

// New creates a StreamSummary with room for capacity distinct items.
// capacity must be at least 1.
func New(capacity int) *StreamSummary {
	if capacity < 1 {
		capacity = 1
	}
	s := &StreamSummary{
		capacity: capacity,
		buckets:  list.New(),
		index:    make(map[string]*slot, capacity),
	}
	zero := &bucketNode{value: 0, slots: list.New()}
	zeroEl := s.buckets.PushBack(zero)
	for i := 0; i < capacity; i++ {
		sl := &slot{bucketEl: zeroEl}
		sl.selfEl = zero.slots.PushBack(sl)
	}
	return s
}

// Offer records one occurrence of item and returns its resulting counter.
// It is equivalent to OfferN(item, 1).
func (s *StreamSummary) Offer(item string) Counter {
	return s.OfferN(item, 1)
}

// OfferN records delta occurrences of item and returns its resulting
// counter. A delta of 0 is treated as 1. Amortised O(1).
func (s *StreamSummary) OfferN(item string, delta uint64) Counter {
	if delta == 0 {
		delta = 1
	}
	sl, ok := s.index[item]
	if !ok {
		lowestEl := s.buckets.Back()
		lowest := lowestEl.Value.(*bucketNode)
		victimEl := lowest.slots.Back()
		sl = victimEl.Value.(*slot)

		if sl.occupied {
			delete(s.index, sl.item)
		}
		sl.errorVal = sl.value
		sl.item = item
		sl.occupied = true
		s.index[item] = sl
	}
	s.promote(sl, delta)
	s.n += delta
	return Counter{Item: sl.item, Value: sl.value, Error: sl.errorVal}
}

// promote removes sl from its current bucket, increments its value by
// delta, and re-homes it in the bucket immediately preceding its old one if
// that bucket's value now matches, or in a freshly spliced-in bucket
// otherwise. The vacated bucket is unlinked if it is left empty.
func (s *StreamSummary) promote(sl *slot, delta uint64) {
	curEl := sl.bucketEl
	cur := curEl.Value.(*bucketNode)
	cur.slots.Remove(sl.selfEl)

	newValue := sl.value + delta
	sl.value = newValue

	prevEl := curEl.Prev()
	var destEl *list.Element
	if prevEl != nil && prevEl.Value.(*bucketNode).value == newValue {
		destEl = prevEl
	} else {
		destEl = s.buckets.InsertBefore(&bucketNode{value: newValue, slots: list.New()}, curEl)
	}
	dest := destEl.Value.(*bucketNode)
	sl.selfEl = dest.slots.PushBack(sl)
	sl.bucketEl = destEl

	if cur.slots.Len() == 0 {
		s.buckets.Remove(curEl)
	}
}

// TopK returns up to k occupied counters in descending value order, ties
// broken by bucket order then insertion order within a bucket. k <= 0 means
// unbounded (return every occupied slot).
func (s *StreamSummary) TopK(k int) []Counter {
	out := make([]Counter, 0, s.capacity)
	for be := s.buckets.Front(); be != nil; be = be.Next() {
		b := be.Value.(*bucketNode)
		for se := b.slots.Front(); se != nil; se = se.Next() {
			sl := se.Value.(*slot)
			if !sl.occupied {
				continue
			}
			out = append(out, Counter{Item: sl.item, Value: sl.value, Error: sl.errorVal})
			if k > 0 && len(out) == k {
				return out
			}
		}
	}
	return out
}

// N returns the total number of occurrences recorded since construction:
// the sum of every delta passed to OfferN (each Offer counts as 1).
func (s *StreamSummary) N() uint64 {
	return s.n
}

// Capacity returns the configured capacity.
func (s *StreamSummary) Capacity() int {
	return s.capacity
}

// Count returns item's current estimated value without recording an offer,
// or 0 if item has never been offered (or was evicted and never re-offered).
// Used by warm-up heuristics that want a running count between refreshes.
func (s *StreamSummary) Count(item string) uint64 {
	sl, ok := s.index[item]
	if !ok {
		return 0
	}
	return sl.value
}
