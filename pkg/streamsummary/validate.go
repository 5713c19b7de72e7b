package streamsummary

import "fmt"

// InvariantViolation reports a broken StreamSummary invariant. It is only
// ever produced by Validate, which exists for test use — a live violation in
// production is a programming error, not a runtime condition the decision
// path needs to handle.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("streamsummary: invariant violation: %s", e.Reason)
}

// Validate checks that the structural invariants described in the package
// documentation still hold. It walks the whole structure and is intended
// for test use, not the hot path.
func (s *StreamSummary) Validate() error {
	slotCount := 0
	var sum uint64
	var prevValue uint64
	first := true

	for be := s.buckets.Front(); be != nil; be = be.Next() {
		b := be.Value.(*bucketNode)

		if !first && b.value >= prevValue {
			return &InvariantViolation{Reason: fmt.Sprintf("buckets not strictly descending: %d after %d", b.value, prevValue)}
		}
		first = false
		prevValue = b.value

		if b.slots.Len() == 0 {
			return &InvariantViolation{Reason: "empty bucket left in list"}
		}

		for se := b.slots.Front(); se != nil; se = se.Next() {
			sl := se.Value.(*slot)
			if sl.bucketEl != be {
				return &InvariantViolation{Reason: "slot.bucketEl does not point at its containing bucket"}
			}
			if sl.value != b.value {
				return &InvariantViolation{Reason: fmt.Sprintf("slot.value %d != bucket.value %d", sl.value, b.value)}
			}
			sum += sl.value
			slotCount++
		}
	}

	if slotCount != s.capacity {
		return &InvariantViolation{Reason: fmt.Sprintf("slot count %d != capacity %d", slotCount, s.capacity)}
	}
	if len(s.index) > s.capacity {
		return &InvariantViolation{Reason: fmt.Sprintf("index size %d exceeds capacity %d", len(s.index), s.capacity)}
	}
	for item, sl := range s.index {
		if !sl.occupied || sl.item != item {
			return &InvariantViolation{Reason: fmt.Sprintf("index entry %q does not match its slot", item)}
		}
	}
	if sum != s.n {
		return &InvariantViolation{Reason: fmt.Sprintf("sum of slot values %d != n %d", sum, s.n)}
	}
	return nil
}
