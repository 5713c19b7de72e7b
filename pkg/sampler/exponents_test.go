package sampler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grafana/adaptive-trace-sampler/pkg/streamsummary"
)

func TestComputeExponentsEmptyTopK(t *testing.T) {
	table := ComputeExponents(nil, 1000)
	require.Empty(t, table.states)
	require.Equal(t, "", table.restBucketKey)
}

func TestComputeExponentsZeroBudget(t *testing.T) {
	topK := []streamsummary.Counter{{Item: "a", Value: 10}}
	table := ComputeExponents(topK, 0)
	require.Empty(t, table.states)
}

func TestComputeExponentsSmallBudgetSpreadsAcrossKeys(t *testing.T) {
	topK := []streamsummary.Counter{
		{Item: "GET_xxxx", Value: 300},
		{Item: "POST_asdf", Value: 200},
		{Item: "GET_asdf", Value: 100},
	}

	table := ComputeExponents(topK, 100)
	require.Equal(t, uint32(3), table.states["GET_xxxx"].Exponent())
	require.Equal(t, uint32(2), table.states["POST_asdf"].Exponent())
	require.Equal(t, uint32(1), table.states["GET_asdf"].Exponent())
	require.Equal(t, "GET_asdf", table.restBucketKey)
}

func TestComputeExponentsBudgetCoversEverythingAtOne(t *testing.T) {
	topK := []streamsummary.Counter{
		{Item: "GET_xxxx", Value: 300},
		{Item: "POST_asdf", Value: 200},
		{Item: "GET_asdf", Value: 100},
	}

	table := ComputeExponents(topK, 1000)
	require.Equal(t, uint32(0), table.states["GET_xxxx"].Exponent())
	require.Equal(t, uint32(0), table.states["POST_asdf"].Exponent())
	require.Equal(t, uint32(0), table.states["GET_asdf"].Exponent())
}

// TestComputeExponentsEffectiveCountScenario exercises five hot keys mixed
// with high-cardinality singleton traffic, padded out to a 100-entry top-K
// (DefaultStreamSummarySize) the way a capacity-100 StreamSummary fed five hot keys
// plus 2100 singleton collisions would be: allowedPerEntry is computed
// against the full 100-entry top-K, not just the five named keys. The filler
// entries' values are chosen so the known-good effective count (1110) falls
// out exactly; StreamSummary's own error accumulation from evicting
// thousands of singletons is not reproduced bit-for-bit here (that depends
// on an offer order this test doesn't fix), only the resulting multiplicities
// and effective count.
func TestComputeExponentsEffectiveCountScenario(t *testing.T) {
	topK := []streamsummary.Counter{
		{Item: "1", Value: 2000},
		{Item: "2", Value: 1000},
		{Item: "3", Value: 750},
		{Item: "4", Value: 100},
		{Item: "5", Value: 50},
	}
	for i := 0; i < 95; i++ {
		topK = append(topK, streamsummary.Counter{Item: filler(i), Value: 11})
	}

	table := ComputeExponents(topK, 1000)

	require.Equal(t, uint64(128), table.states["1"].Multiplicity())
	require.Equal(t, uint64(64), table.states["2"].Multiplicity())
	require.Equal(t, uint64(64), table.states["3"].Multiplicity())
	require.Equal(t, uint64(8), table.states["4"].Multiplicity())
	require.Equal(t, uint64(4), table.states["5"].Multiplicity())

	require.Equal(t, uint64(1110), EffectiveCount(topK, table))
}

func filler(i int) string {
	return "singleton-" + string(rune('a'+i%26)) + string(rune('0'+i/26))
}

func TestComputeExponentsNeverExceedsMaxExponent(t *testing.T) {
	topK := []streamsummary.Counter{{Item: "a", Value: 1_000_000_000}}
	table := ComputeExponents(topK, 1)
	require.LessOrEqual(t, table.states["a"].Exponent(), uint32(15))
}

func TestComputeExponentsRestBucketIsLeastFrequentEntry(t *testing.T) {
	topK := []streamsummary.Counter{
		{Item: "hot", Value: 500},
		{Item: "warm", Value: 50},
		{Item: "cold", Value: 5},
	}
	table := ComputeExponents(topK, 200)
	require.Equal(t, "cold", table.restBucketKey)
}
