package port

import (
	"cmp"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"

	"github.com/juju/collections/set"
	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/port-for/internal/model"
)

const (
	// DefaultLowPort and DefaultHighPort bound AvailablePorts when the
	// caller has no narrower band in mind.
	DefaultLowPort  = 1024
	DefaultHighPort = model.MaxPort

	// DefaultMinRangeLen is the minimum width of a "good" range, not
	// counting the trimmed borders.
	DefaultMinRangeLen = 20

	// DefaultBorder is the number of ports trimmed from each end of a good
	// range, keeping selections away from neighbouring excluded bands.
	DefaultBorder = 3

	// MaxSelectAttempts caps how many distinct candidates SelectRandom
	// probes before giving up.
	MaxSelectAttempts = 100
)

// SystemPortRange is the well-known port band, never handed out.
var SystemPortRange = model.Range{Low: 0, High: 1024}

// Pool parameterizes the default candidate pool: the one used whenever a
// caller passes no explicit port set.
type Pool struct {
	// Low and High bound AvailablePorts.
	Low, High int

	// Exclude lists extra ranges that are never candidates.
	Exclude []model.Range

	// MinRangeLen and Border are the GoodPortRanges parameters.
	MinRangeLen, Border int
}

// DefaultPool returns the pool used by a plain NewAllocator.
func DefaultPool() Pool {
	return Pool{
		Low:         DefaultLowPort,
		High:        DefaultHighPort,
		MinRangeLen: DefaultMinRangeLen,
		Border:      DefaultBorder,
	}
}

// UsageChecker reports whether a port is currently used on the host.
// *Scanner is the production implementation.
type UsageChecker interface {
	IsPortUsed(port int) bool
}

// Allocator computes candidate port pools and selects free ports from
// them.
//
// Every call recomputes its pool from the static unassigned table and a
// fresh ephemeral range discovery; the Allocator keeps no state between
// calls other than its configuration.
type Allocator struct {
	// checker probes the OS for actual port usage. Injected so tests can
	// substitute a deterministic double.
	checker UsageChecker

	// ephemeral returns the host's ephemeral ranges. It is called on
	// every pool computation, so a changed sysctl is picked up without
	// restarting.
	ephemeral func() []model.Range

	// pool describes the candidate pool used whenever a caller passes a
	// nil port set.
	pool Pool

	// intN returns a uniform random int in [0, n). It defaults to the
	// global math/rand/v2 source; WithRand makes draws reproducible.
	intN func(n int) int

	// log traces every probed candidate at debug level.
	log logrus.FieldLogger
}

// AllocatorOption configures an Allocator.
type AllocatorOption func(*Allocator)

// WithEphemeralRanges replaces ephemeral range discovery, e.g. with a
// fixed answer in tests or a DiscoverEphemeralRanges call with custom
// probes.
func WithEphemeralRanges(fn func() []model.Range) AllocatorOption {
	return func(a *Allocator) {
		if fn != nil {
			a.ephemeral = fn
		}
	}
}

// WithPool replaces the default pool parameters.
func WithPool(p Pool) AllocatorOption {
	return func(a *Allocator) {
		a.pool = p
	}
}

// WithRand makes candidate sampling draw from r.
func WithRand(r *rand.Rand) AllocatorOption {
	return func(a *Allocator) {
		if r != nil {
			a.intN = r.IntN
		}
	}
}

// WithLogger sets the logger used for probe tracing.
func WithLogger(log logrus.FieldLogger) AllocatorOption {
	return func(a *Allocator) {
		if log != nil {
			a.log = log
		}
	}
}

// NewAllocator creates a new Allocator that probes ports with checker.
// The checker must not be nil.
func NewAllocator(checker UsageChecker, opts ...AllocatorOption) *Allocator {
	a := &Allocator{
		checker:   checker,
		ephemeral: EphemeralRanges,
		pool:      DefaultPool(),
		intN:      rand.IntN,
		log:       discardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AvailablePorts returns the candidate pool: the unassigned table minus
// the system range, the ephemeral ranges, the caller's exclude ranges,
// and every port outside [low, high].
func (a *Allocator) AvailablePorts(low, high int, exclude []model.Range) set.Ints {
	excluded := []model.Range{SystemPortRange}

	// Ephemeral ports are excluded even though they are often free: the
	// OS may hand one out as a client source port while the reserving
	// service is down, which would then block that service's restart.
	excluded = append(excluded, a.ephemeral()...)
	excluded = append(excluded, exclude...)
	if low > model.MinPort {
		excluded = append(excluded, model.Range{Low: model.MinPort, High: low - 1})
	}
	if high < model.MaxPort {
		excluded = append(excluded, model.Range{Low: high + 1, High: model.MaxPort})
	}

	return RangesToSet(UnassignedRanges()).Difference(RangesToSet(excluded))
}

// GoodPortRanges returns the "good" ranges of ports: maximal runs inside
// ports whose width (High-Low) is at least minRangeLen+2*border, with
// border ports trimmed from both ends.
//
// A nil ports set means AvailablePorts over the allocator's pool. Ranges are
// ordered by width, widest first; equal widths are ordered by their low
// bound.
func (a *Allocator) GoodPortRanges(ports set.Ints, minRangeLen, border int) []model.Range {
	if ports == nil {
		ports = a.defaultPorts()
	}
	minLen := minRangeLen + 2*border

	var long []model.Range
	for _, r := range SetToRanges(ports) {
		if r.Len() >= minLen {
			long = append(long, r)
		}
	}

	slices.SortStableFunc(long, func(x, y model.Range) int {
		if c := cmp.Compare(y.Len(), x.Len()); c != 0 {
			return c
		}
		return cmp.Compare(x.Low, y.Low)
	})

	good := make([]model.Range, 0, len(long))
	for _, r := range long {
		good = append(good, model.Range{Low: r.Low + border, High: r.High - border})
	}
	return good
}

// AvailableGoodPorts flattens GoodPortRanges over the allocator's pool
// into a set.
func (a *Allocator) AvailableGoodPorts(minRangeLen, border int) set.Ints {
	return RangesToSet(a.GoodPortRanges(nil, minRangeLen, border))
}

// IsAvailable reports whether port belongs to the allocator's candidate
// pool and is not currently used.
func (a *Allocator) IsAvailable(port int) bool {
	if !a.defaultPorts().Contains(port) {
		return false
	}
	return !a.checker.IsPortUsed(port)
}

// SelectRandom returns a random unused port from ports minus exclude.
//
// A nil ports set means AvailableGoodPorts with the pool's parameters; the
// caller's set is never modified. Up to MaxSelectAttempts distinct
// candidates are drawn without replacement (a partial Fisher-Yates
// shuffle over a sorted snapshot) and probed in draw order; the first
// unused one is returned. When every drawn candidate is used the error
// wraps model.ErrSelectionExhausted.
func (a *Allocator) SelectRandom(ports set.Ints, exclude []int) (int, error) {
	if ports == nil {
		ports = a.AvailableGoodPorts(a.pool.MinRangeLen, a.pool.Border)
	}
	// Difference returns a new set, and sorting makes a seeded draw
	// sequence reproducible regardless of map iteration order.
	candidates := ports.Difference(set.NewInts(exclude...)).SortedValues()

	draws := min(len(candidates), MaxSelectAttempts)
	for i := 0; i < draws; i++ {
		// Swap a random not-yet-drawn candidate into position i.
		j := i + a.intN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]

		port := candidates[i]
		if !a.checker.IsPortUsed(port) {
			a.log.WithField("port", port).WithField("attempt", i+1).Debug("selected free port")
			return port, nil
		}
		a.log.WithField("port", port).Debug("candidate port is in use")
	}

	return 0, fmt.Errorf("%w: %d candidates probed, all in use", model.ErrSelectionExhausted, draws)
}

func (a *Allocator) defaultPorts() set.Ints {
	return a.AvailablePorts(a.pool.Low, a.pool.High, a.pool.Exclude)
}

// discardLogger returns a logger that drops every entry.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
