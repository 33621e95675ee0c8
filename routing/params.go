package routing

import (
	"github.com/standardsats/eclair/chanfee"
	"github.com/standardsats/eclair/graph"
)

// MaxRouteLength is the hard cap on hop count a route may have, regardless
// of what RouteParams.MaxLength requests. This mirrors lnd's HopLimit,
// which exists because the Sphinx onion packet has a fixed-size payload
// budget.
const MaxRouteLength = 20

// WeightRatios enables the multi-factor heuristic weight described in
// spec.md §4.3. The three factors are non-negative and, by convention, sum
// to at most 1; a nil *WeightRatios disables the heuristic entirely and the
// search falls back to pure fee-cost minimization.
type WeightRatios struct {
	AgeFactor       float64
	CltvDeltaFactor float64
	CapacityFactor  float64
}

// Heuristic constants for the optional weight-ratio scoring. These are
// calibrated references, not tunables; changing them changes route
// selection and should only be done with regression tests (spec.md §9).
const (
	// CltvMax bounds cltv_delta for the purpose of scoring; deltas
	// beyond it don't get a worse score, they just saturate.
	CltvMax = 2016

	// BlockMax approximates two years of blocks at ~10 minutes each,
	// used to normalize channel age.
	BlockMax = 105120

	// CapacityMax is the capacity, in the smallest unit, beyond which
	// additional capacity no longer improves the capacity score.
	CapacityMax = chanfee.Amount(8_000_000_000)
)

// RouteParams configures a single path-finding query.
type RouteParams struct {
	// Randomize is not read by FindRoute or FindRoutes: selection is
	// fully deterministic whatever its value.
	Randomize bool

	// MaxFeeBase and MaxFeePct together gate fee acceptance: a route is
	// acceptable if its total fee is within MaxFeeBase OR within
	// MaxFeePct of the payment amount.
	MaxFeeBase chanfee.Amount
	MaxFeePct  float64

	// MaxCltv upper-bounds the route's summed cltv_delta.
	MaxCltv chanfee.CltvDelta

	// MaxLength upper-bounds hop count; it is clamped to MaxRouteLength.
	MaxLength int

	// Ratios enables the multi-factor weight heuristic when non-nil.
	Ratios *WeightRatios

	// CurrentBlockHeight is the chain tip as seen by the caller, used
	// only by the age-score heuristic. Passed explicitly rather than
	// read from a hidden global (spec.md §9).
	CurrentBlockHeight chanfee.BlockHeight
}

// effectiveMaxLength returns the smaller of MaxLength and MaxRouteLength,
// treating a zero/unset MaxLength as "use the hard cap".
func (p *RouteParams) effectiveMaxLength() int {
	if p.MaxLength <= 0 || p.MaxLength > MaxRouteLength {
		return MaxRouteLength
	}

	return p.MaxLength
}

// unboundedCltv is returned by effectiveMaxCltv when MaxCltv is unset. It's
// the largest value a summed CltvDelta could plausibly reach (far more than
// MaxRouteLength hops at a generous per-hop delta each), so it behaves as
// "no limit" without needing a separate "is this set" flag on RouteParams.
const unboundedCltv = chanfee.CltvDelta(^uint16(0))

// effectiveMaxCltv returns MaxCltv, treating a zero/unset value as
// unbounded rather than "reject every route with any timelock at all".
func (p *RouteParams) effectiveMaxCltv() chanfee.CltvDelta {
	if p.MaxCltv == 0 {
		return unboundedCltv
	}

	return p.MaxCltv
}

// BandwidthHints lets a caller report a channel's currently live outbound
// capacity, which further narrows the policy's HtlcMin/HtlcMax bounds
// during feasibility checks (it never widens them). This does not make the core probe liveness itself;
// it only provides a slot for a caller who already has that information
// (e.g. from its own channel state) to feed it in.
type BandwidthHints interface {
	// AvailableBandwidth returns the outbound capacity known to be
	// available for desc, and whether any information is available at
	// all.
	AvailableBandwidth(desc graph.ChannelDesc) (chanfee.Amount, bool)
}

// noBandwidthHints is used when a query doesn't supply any.
type noBandwidthHints struct{}

func (noBandwidthHints) AvailableBandwidth(graph.ChannelDesc) (chanfee.Amount, bool) {
	return 0, false
}
