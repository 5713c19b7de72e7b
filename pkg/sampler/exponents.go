package sampler

import (
	"github.com/grafana/adaptive-trace-sampler/pkg/samplingstate"
	"github.com/grafana/adaptive-trace-sampler/pkg/streamsummary"
)

// ComputeExponents converts a top-K snapshot and a target budget into a
// published exponent table: one independently-chosen power-of-two
// multiplicity per key, nudged down afterwards if the resulting effective
// count still falls short of the budget.
//
// topK must be ordered by descending value, as StreamSummary.TopK returns
// it; the least-frequent (last) entry becomes the rest-bucket key.
func ComputeExponents(topK []streamsummary.Counter, wanted uint32) *exponentTable {
	if len(topK) == 0 || wanted == 0 {
		return &exponentTable{states: map[string]samplingstate.SamplingState{}}
	}

	states := make(map[string]samplingstate.SamplingState, len(topK))
	restBucketKey := topK[len(topK)-1].Item

	allowedPerEntry := uint64(wanted) / uint64(len(topK))
	if allowedPerEntry == 0 {
		allowedPerEntry = 1
	}

	for _, c := range topK {
		wantedForItem := c.Value / allowedPerEntry
		if wantedForItem < 1 {
			wantedForItem = 1
		}
		states[c.Item] = samplingstate.New(exponentFor(wantedForItem))
	}

	table := &exponentTable{states: states, restBucketKey: restBucketKey}

	effective := EffectiveCount(topK, table)
	if effective < uint64(wanted) {
		for round := 0; round < 5 && effective < uint64(wanted); round++ {
			for i := len(topK) - 1; i >= 0; i-- {
				item := topK[i].Item
				if st := states[item]; st.Exponent() > 0 {
					states[item] = st.Decrease()
				}
				effective = EffectiveCount(topK, table)
				if effective >= uint64(wanted) {
					break
				}
			}
		}
	}

	return table
}

// exponentFor raises the exponent from 0 until 2^e >= wanted, capped at
// MaxExponent, then backs off once if that overshot.
func exponentFor(wanted uint64) uint32 {
	e := uint32(0)
	for (uint64(1)<<e) < wanted && e < samplingstate.MaxExponent {
		e++
	}
	if (uint64(1)<<e) > wanted && e > 0 {
		e--
	}
	return e
}

// EffectiveCount is Σ value_i / multiplicity_i (integer division) over
// topK, using table's exponents (falling back to exponent 0 for any item
// table doesn't cover).
func EffectiveCount(topK []streamsummary.Counter, table *exponentTable) uint64 {
	var sum uint64
	for _, c := range topK {
		st := table.states[c.Item]
		sum += c.Value / st.Multiplicity()
	}
	return sum
}
