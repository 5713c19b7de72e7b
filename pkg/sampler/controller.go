package sampler

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-kit/log/level"
	uatomic "go.uber.org/atomic"

	"github.com/grafana/adaptive-trace-sampler/pkg/samplingstate"
	"github.com/grafana/adaptive-trace-sampler/pkg/streamsummary"
)

// exponentTable is the immutable snapshot Update() publishes. Readers take
// it with a single atomic load, never a lock — an atomic pointer swap lets
// readers proceed without ever blocking on a concurrent Update, which a
// sync.RWMutex can't guarantee under writer contention.
type exponentTable struct {
	states        map[string]samplingstate.SamplingState
	restBucketKey string
}

// SamplingController owns the live StreamSummary and the published
// per-key sampling exponent table. One background call to Update per
// refresh interval competes with many concurrent Offer/SamplingState calls
// from request-handling goroutines; the two are guarded independently
// (summary mutex, exponents atomic pointer) and never wait on each other.
type SamplingController struct {
	cfg Config

	summaryMu sync.Mutex
	summary   *streamsummary.StreamSummary

	exponents atomic.Pointer[exponentTable]

	lastWanted         uatomic.Uint32
	lastEffectiveCount uatomic.Uint64

	configProvider ConfigProvider
}

// NewController builds a SamplingController. provider may be nil, in which
// case the controller always falls back to cfg.RootSpansPerMinute (or the
// built-in default).
func NewController(cfg Config, provider ConfigProvider) *SamplingController {
	cfg.ApplyDefaults()
	c := &SamplingController{
		cfg:            cfg,
		summary:        streamsummary.New(cfg.StreamSummaryCapacity),
		configProvider: provider,
	}
	if cfg.RootSpansPerMinute > 0 {
		c.lastWanted.Store(cfg.RootSpansPerMinute)
	}
	return c
}

// Offer records one observation of key. A short critical section: the only
// work under the summary mutex is a single StreamSummary.Offer call.
func (c *SamplingController) Offer(key string) {
	if key == "" {
		return
	}
	c.summaryMu.Lock()
	c.summary.Offer(key)
	c.summaryMu.Unlock()
	metricStreamSummaryTotal.Inc()
}

// SamplingKey derives the adaptive-sampler key from an HTTP request:
// METHOD + "_" + path, query string stripped.
func SamplingKey(pathAndQuery, method string) string {
	path := pathAndQuery
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		path = path[:idx]
	}
	return method + "_" + path
}

// Update rotates the live StreamSummary, recomputes the exponent table from
// its top-K snapshot and the current budget, and atomically publishes the
// result. Safe to call concurrently with any number of Offer/SamplingState
// callers; never returns a user-visible error — a failing config provider
// just means the previous budget stays in effect.
func (c *SamplingController) Update(ctx context.Context) {
	start := time.Now()

	c.summaryMu.Lock()
	topK := c.summary.TopK(0)
	c.summary = streamsummary.New(c.cfg.StreamSummaryCapacity)
	c.summaryMu.Unlock()

	wanted := c.resolveWanted()
	table := ComputeExponents(topK, wanted)
	c.exponents.Store(table)
	c.lastEffectiveCount.Store(EffectiveCount(topK, table))

	metricEffectiveCount.Set(float64(c.lastEffectiveCount.Load()))
	metricUpdateDuration.Observe(time.Since(start).Seconds())
	for item, st := range table.states {
		observeKeyExponent(item, st.Exponent())
	}

	level.Debug(Logger).Log(
		"msg", "sampling controller update",
		"top_k", len(topK),
		"wanted", wanted,
		"effective", c.lastEffectiveCount.Load(),
		"duration", time.Since(start),
	)
}

// resolveWanted reads the current budget from the config provider, falling
// back to the last-good value (or the built-in default) if the provider is
// absent or currently unable to answer. Failures here are never
// user-visible — the periodic update simply keeps the previous budget.
func (c *SamplingController) resolveWanted() uint32 {
	if c.configProvider == nil {
		level.Debug(Logger).Log("msg", "no config provider configured, using last-good budget")
		return c.lastGoodOrDefault()
	}

	wanted := c.configProvider.CurrentRootSpansPerMinute()
	if wanted == 0 {
		level.Debug(Logger).Log("msg", "config provider returned no budget, using last-good")
		return c.lastGoodOrDefault()
	}
	c.lastWanted.Store(wanted)
	return wanted
}

func (c *SamplingController) lastGoodOrDefault() uint32 {
	if w := c.lastWanted.Load(); w > 0 {
		return w
	}
	return DefaultRootSpansPerMinute
}

// SamplingState returns the decision state for key: its entry in the
// published table, else the rest-bucket entry, else a warm-up estimate
// derived from the live (in-progress) summary's running count for key.
func (c *SamplingController) SamplingState(key string) samplingstate.SamplingState {
	if table := c.exponents.Load(); table != nil {
		if st, ok := table.states[key]; ok {
			return st
		}
		if table.restBucketKey != "" {
			if st, ok := table.states[table.restBucketKey]; ok {
				return st
			}
		}
	}
	return c.warmupState(key)
}

// warmupState approximates a monotone-tightening decision between the
// first Update calls by mapping the key's running offer count against
// successive doublings of the budget: count < B/2 -> exponent 0,
// < B -> 1, < 2B -> 2, and so on, capped at MaxExponent.
func (c *SamplingController) warmupState(key string) samplingstate.SamplingState {
	if key == "" {
		return samplingstate.New(0)
	}

	budget := uint64(c.lastGoodOrDefault())
	threshold := budget / 2
	if threshold == 0 {
		threshold = 1
	}

	c.summaryMu.Lock()
	count := c.summary.Count(key)
	c.summaryMu.Unlock()

	exponent := uint32(0)
	for count >= threshold && exponent < samplingstate.MaxExponent {
		exponent++
		threshold *= 2
	}
	return samplingstate.New(exponent)
}

// LastEffectiveCount returns the diagnostic Σ value_i/multiplicity_i from
// the most recent Update.
func (c *SamplingController) LastEffectiveCount() uint64 {
	return c.lastEffectiveCount.Load()
}

// DebugSnapshot is a point-in-time view of the controller's state, for the
// demo binary's debug HTTP surface.
type DebugSnapshot struct {
	TopK           []streamsummary.Counter `json:"top_k"`
	Exponents      map[string]uint32       `json:"exponents"`
	RestBucketKey  string                  `json:"rest_bucket_key"`
	LastWanted     uint32                  `json:"last_wanted_root_spans_per_minute"`
	EffectiveCount uint64                  `json:"last_effective_count"`
}

// Snapshot returns the controller's current live top-K and last-published
// exponent table, without disturbing either. It takes the summary mutex, so
// it can wait briefly while Update rotates the summary; the exponent table
// is read without a lock.
func (c *SamplingController) Snapshot() DebugSnapshot {
	c.summaryMu.Lock()
	topK := c.summary.TopK(0)
	c.summaryMu.Unlock()

	snap := DebugSnapshot{
		TopK:           topK,
		Exponents:      map[string]uint32{},
		LastWanted:     c.lastWanted.Load(),
		EffectiveCount: c.lastEffectiveCount.Load(),
	}
	if table := c.exponents.Load(); table != nil {
		snap.RestBucketKey = table.restBucketKey
		for key, st := range table.states {
			snap.Exponents[key] = st.Exponent()
		}
	}
	return snap
}
