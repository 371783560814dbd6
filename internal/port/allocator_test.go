package port

import (
	"math/rand/v2"
	"testing"

	"github.com/juju/collections/set"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/port-for/internal/model"
)

// fakeChecker is a deterministic UsageChecker. Ports in used are reported
// in use; every probed port is recorded in calls.
type fakeChecker struct {
	used  map[int]bool
	all   bool
	calls []int
}

func (f *fakeChecker) IsPortUsed(port int) bool {
	f.calls = append(f.calls, port)
	return f.all || f.used[port]
}

// linuxEphemeral pins ephemeral discovery to the Linux default so pool
// computations do not depend on the test host.
func linuxEphemeral() []model.Range {
	return []model.Range{{Low: 32768, High: 60999}}
}

func newTestAllocator(checker UsageChecker) *Allocator {
	return NewAllocator(checker,
		WithEphemeralRanges(linuxEphemeral),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)
}

// TestGoodPortRanges_Example checks filtering, border trimming and the
// widest-first ordering on a small hand-made pool.
func TestGoodPortRanges_Example(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{})
	ports := RangesToSet([]model.Range{
		{Low: 10, High: 15},   // too short
		{Low: 100, High: 200}, // good
		{Low: 220, High: 245}, // a bit short
		{Low: 300, High: 330}, // good
		{Low: 440, High: 495}, // also good
	})

	good := allocator.GoodPortRanges(ports, 20, 3)
	assert.Equal(t, []model.Range{{Low: 103, High: 197}, {Low: 443, High: 492}, {Low: 303, High: 327}}, good)
}

// TestGoodPortRanges_TiesByLow verifies the secondary order for ranges of
// equal width.
func TestGoodPortRanges_TiesByLow(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{})
	ports := RangesToSet([]model.Range{{Low: 500, High: 530}, {Low: 100, High: 130}})

	good := allocator.GoodPortRanges(ports, 20, 3)
	assert.Equal(t, []model.Range{{Low: 103, High: 127}, {Low: 503, High: 527}}, good)
}

// TestGoodPortRanges_Defaults is a sanity bound against the static table.
func TestGoodPortRanges_Defaults(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{})

	assert.Greater(t, len(allocator.GoodPortRanges(nil, DefaultMinRangeLen, DefaultBorder)), 10)
	assert.Greater(t, allocator.AvailableGoodPorts(DefaultMinRangeLen, DefaultBorder).Size(), 1000)
}

// TestAvailableGoodPorts_RealHost runs the same sanity bound with real
// ephemeral range discovery.
func TestAvailableGoodPorts_RealHost(t *testing.T) {
	allocator := NewAllocator(NewScanner())
	assert.Greater(t, allocator.AvailableGoodPorts(DefaultMinRangeLen, DefaultBorder).Size(), 1000)
}

// TestAvailablePorts_Exclusions verifies the system range, the ephemeral
// ranges, caller exclusions and the [low, high] bounds.
func TestAvailablePorts_Exclusions(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{})

	ports := allocator.AvailablePorts(DefaultLowPort, DefaultHighPort, nil)
	assert.False(t, ports.Contains(80), "system ports are never available")
	assert.False(t, ports.Contains(33000), "ephemeral ports are never available")
	assert.True(t, ports.Contains(1490), "unassigned port below the ephemeral range")
	assert.True(t, ports.Contains(4470))

	excluded := allocator.AvailablePorts(DefaultLowPort, DefaultHighPort, []model.Range{{Low: 4459, High: 4483}})
	assert.False(t, excluded.Contains(4470))
	assert.True(t, excluded.Contains(1490))

	bounded := allocator.AvailablePorts(4459, 4483, nil)
	assert.Equal(t, 4459, bounded.SortedValues()[0], "low bound is inclusive")
	assert.Equal(t, 4483, bounded.SortedValues()[bounded.Size()-1], "high bound is inclusive")
	assert.Equal(t, 25, bounded.Size())
}

// TestIsAvailable_CommonPorts checks ports that are never available: 80 is
// a system port and 11211 (memcached) is not in the unassigned table.
func TestIsAvailable_CommonPorts(t *testing.T) {
	allocator := NewAllocator(NewScanner())
	assert.False(t, allocator.IsAvailable(80))
	assert.False(t, allocator.IsAvailable(11211))
}

// TestIsAvailable_ProbesCandidates verifies that in-pool ports are probed.
func TestIsAvailable_ProbesCandidates(t *testing.T) {
	checker := &fakeChecker{used: map[int]bool{4470: true}}
	allocator := newTestAllocator(checker)

	assert.False(t, allocator.IsAvailable(4470))
	assert.True(t, allocator.IsAvailable(4471))
	assert.Equal(t, []int{4470, 4471}, checker.calls)
}

// TestSelectRandom_Deterministic verifies that the only free candidate
// is always returned, whatever order candidates are drawn in.
func TestSelectRandom_Deterministic(t *testing.T) {
	checker := &fakeChecker{used: map[int]bool{1: true, 2: false, 3: true}}
	allocator := NewAllocator(checker, WithEphemeralRanges(linuxEphemeral))

	for i := 0; i < 100; i++ {
		port, err := allocator.SelectRandom(set.NewInts(1, 2, 3), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, port)
	}
}

// TestSelectRandom_AllUsed verifies the exhaustion error and that no more
// than MaxSelectAttempts distinct candidates are probed.
func TestSelectRandom_AllUsed(t *testing.T) {
	checker := &fakeChecker{all: true}
	allocator := newTestAllocator(checker)

	_, err := allocator.SelectRandom(nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSelectionExhausted)

	assert.Len(t, checker.calls, MaxSelectAttempts)
	assert.Equal(t, MaxSelectAttempts, set.NewInts(checker.calls...).Size(), "candidates must be distinct")
}

// TestSelectRandom_SmallPool verifies that a pool smaller than the cap is
// probed exactly once per member.
func TestSelectRandom_SmallPool(t *testing.T) {
	checker := &fakeChecker{all: true}
	allocator := newTestAllocator(checker)

	_, err := allocator.SelectRandom(set.NewInts(5000, 5001, 5002), nil)
	assert.ErrorIs(t, err, model.ErrSelectionExhausted)
	assert.ElementsMatch(t, []int{5000, 5001, 5002}, checker.calls)

	_, err = allocator.SelectRandom(set.NewInts(), nil)
	assert.ErrorIs(t, err, model.ErrSelectionExhausted)
}

// TestSelectRandom_Exclude verifies exclusion and that the caller's set
// is left untouched.
func TestSelectRandom_Exclude(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{})
	pool := set.NewInts(8000, 8001, 8002)

	port, err := allocator.SelectRandom(pool, []int{8000, 8002})
	require.NoError(t, err)
	assert.Equal(t, 8001, port)
	assert.Equal(t, 3, pool.Size(), "input set must not be modified")
}

// TestSelectRandom_DefaultPool verifies that the default pool only yields
// good ports.
func TestSelectRandom_DefaultPool(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{})
	good := allocator.AvailableGoodPorts(DefaultMinRangeLen, DefaultBorder)

	for i := 0; i < 20; i++ {
		port, err := allocator.SelectRandom(nil, nil)
		require.NoError(t, err)
		assert.True(t, good.Contains(port), "port %d is not a good port", port)
	}
}

// TestSelectRandom_RealScanner selects a port with live probing and then
// binds it to confirm it was really free.
func TestSelectRandom_RealScanner(t *testing.T) {
	scanner := NewScanner()
	allocator := NewAllocator(scanner)

	port, err := allocator.SelectRandom(nil, nil)
	require.NoError(t, err)
	assert.True(t, scanner.CanBind(port))
}

// TestWithPool verifies that a custom pool narrows every default-pool
// operation.
func TestWithPool(t *testing.T) {
	checker := &fakeChecker{}
	allocator := NewAllocator(checker,
		WithEphemeralRanges(linuxEphemeral),
		WithPool(Pool{Low: 4459, High: 4483, MinRangeLen: 20, Border: 0}),
	)

	assert.Equal(t, []model.Range{{Low: 4459, High: 4483}}, allocator.GoodPortRanges(nil, 20, 0))
	assert.False(t, allocator.IsAvailable(1490), "outside the pool")
	assert.True(t, allocator.IsAvailable(4470))

	for i := 0; i < 20; i++ {
		port, err := allocator.SelectRandom(nil, nil)
		require.NoError(t, err)
		assert.True(t, port >= 4459 && port <= 4483, "port %d outside the pool", port)
	}

	excluded := NewAllocator(checker,
		WithEphemeralRanges(linuxEphemeral),
		WithPool(Pool{Low: 4459, High: 4483, Exclude: []model.Range{{Low: 4459, High: 4470}}}),
	)
	assert.False(t, excluded.IsAvailable(4465))
	assert.True(t, excluded.IsAvailable(4475))
}
