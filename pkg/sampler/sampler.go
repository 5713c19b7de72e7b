// Package sampler implements the adaptive, request-rate-aware tracing
// sampler: a StreamSummary-backed frequency estimate of request "kinds"
// drives a periodically-refreshed table of per-key sampling exponents,
// which Sampler.ShouldSample consults on every request.
package sampler

import (
	"strconv"

	"github.com/grafana/adaptive-trace-sampler/pkg/tracestate"
	"github.com/grafana/adaptive-trace-sampler/pkg/vendortag"
)

// Decision is the outcome of a sampling call.
type Decision int

const (
	Drop Decision = iota
	RecordOnly
	RecordAndSample
)

func (d Decision) String() string {
	switch d {
	case Drop:
		return "Drop"
	case RecordOnly:
		return "RecordOnly"
	case RecordAndSample:
		return "RecordAndSample"
	default:
		return "Unknown"
	}
}

// SpanContext carries the subset of the parent span context this sampler
// reads: its propagated tracestate. The enclosing tracer owns the rest.
type SpanContext struct {
	TraceState string
}

// HTTPContext carries the subset of the inbound HTTP request this sampler
// reads to derive a SamplingKey.
type HTTPContext struct {
	Path   string // path and query, query stripped by SamplingKey
	Method string
}

// SamplingResult is the per-request output.
type SamplingResult struct {
	Decision   Decision
	Attributes map[string]string
	TraceState string
}

const attrSamplingRatio = "supportability.atm_sampling_ratio"
const attrSamplingThreshold = "sampling.threshold"

// thresholdDenominatorShift expresses the sampling.threshold attribute as a
// fraction of a 56-bit space: 2^56 - 2^56/m, so a downstream comparator can
// reject a trace id without knowing the multiplicity itself.
const thresholdDenominatorShift = 56

// Sampler is the per-request entry point. It composes a SamplingController
// (the adaptive decision), a vendortag/tracestate pair (the upstream
// decision interop), and the tenant/cluster configuration that scopes the
// vendor key. Safe for concurrent use by many request-handling goroutines.
type Sampler struct {
	controller *SamplingController
	vendorKey  string
	hash64     func(string) uint64
}

// New builds a Sampler over an already-running controller. hash64 must be
// deterministic; pass samplerhash.Murmur64A for the reference behavior.
func New(cfg Config, controller *SamplingController, hash64 func(string) uint64) *Sampler {
	return &Sampler{
		controller: controller,
		vendorKey:  vendorKey(cfg.Tenant, cfg.ClusterID),
		hash64:     hash64,
	}
}

// ShouldSample is the per-request decision path. It never blocks on I/O and
// always returns a SamplingResult — malformed tracestate or vendor tag
// input, or the absence of any HTTP context, just falls through to the
// adaptive branch rather than surfacing an error.
func (s *Sampler) ShouldSample(parent *SpanContext, traceID string, httpCtx *HTTPContext) SamplingResult {
	key := ""
	if httpCtx != nil {
		key = SamplingKey(httpCtx.Path, httpCtx.Method)
	}
	s.controller.Offer(key)

	parentTraceState := ""
	if parent != nil {
		parentTraceState = parent.TraceState
	}
	ts := tracestate.Parse(parentTraceState)

	if raw, ok := ts.Get(s.vendorKey); ok {
		if tag := vendortag.Parse(raw); tag.Valid {
			decision := RecordAndSample
			if tag.Ignored {
				decision = Drop
			}
			metricDecisionsTotal.WithLabelValues(decision.String()).Inc()
			return SamplingResult{
				Decision:   decision,
				Attributes: attributesFor(tag.Exponent),
				TraceState: parentTraceState,
			}
		}
	}

	r := s.hash64(traceID)
	st := s.controller.SamplingState(key)
	sample := st.ShouldSample(r)
	exponent := st.Exponent()

	decision := Drop
	if sample {
		decision = RecordAndSample
	}
	metricDecisionsTotal.WithLabelValues(decision.String()).Inc()

	newTag := vendortag.New(!sample, exponent, uint32(r&0xFF))
	ts.Set(s.vendorKey, newTag.String())

	return SamplingResult{
		Decision:   decision,
		Attributes: attributesFor(exponent),
		TraceState: ts.ToHeader(),
	}
}

func attributesFor(exponent uint32) map[string]string {
	m := exponent
	multiplicity := uint64(1) << m
	attrs := map[string]string{
		attrSamplingRatio: strconv.FormatUint(multiplicity, 10),
	}
	if multiplicity > 1 {
		threshold := (uint64(1) << thresholdDenominatorShift) - (uint64(1)<<thresholdDenominatorShift)/multiplicity
		attrs[attrSamplingThreshold] = strconv.FormatUint(threshold, 10)
	}
	return attrs
}
