package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParsePortSpec covers every textual form accepted on the command line.
func TestParsePortSpec(t *testing.T) {
	tests := []struct {
		input    string
		kind     SpecKind
		rendered string
	}{
		{"", SpecAny, "any"},
		{"any", SpecAny, "any"},
		{"-1", SpecNone, "-1"},
		{"none", SpecNone, "-1"},
		{"1234", SpecExact, "1234"},
		{" 1234 ", SpecExact, "1234"},
		{"2000-3000", SpecRange, "2000-3000"},
		{"{4001, 4002,4003}", SpecSet, "{4001,4002,4003}"},
		{"2000-3000,{4001,4002}", SpecList, "2000-3000,{4001,4002}"},
		{"400,5000,6000", SpecList, "400,5000,6000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			spec, err := ParsePortSpec(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, spec.Kind())
			assert.Equal(t, tt.rendered, spec.String())
		})
	}
}

// TestParsePortSpec_Invalid covers malformed input.
func TestParsePortSpec_Invalid(t *testing.T) {
	for _, input := range []string{"abc", "3000-2000", "70000", "{1,2", "1,,2", "{{1}}", "1}", "{1,x}", "-5"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePortSpec(input)
			assert.Error(t, err)
		})
	}
}

// TestGetPort_Exact verifies that exact ports are returned unchecked.
func TestGetPort_Exact(t *testing.T) {
	checker := &fakeChecker{all: true}
	allocator := newTestAllocator(checker)

	parsed, err := ParsePortSpec("1234")
	require.NoError(t, err)

	for _, spec := range []PortSpec{ExactPort(1234), parsed} {
		port, ok, err := allocator.GetPort(spec, nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1234, port)
	}
	assert.Empty(t, checker.calls, "exact ports must not be probed")
}

// TestGetPort_None verifies the "no port" spec.
func TestGetPort_None(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{})
	_, ok, err := allocator.GetPort(NoPort(), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestGetPort_Any verifies random selection from the default good pool.
func TestGetPort_Any(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{})
	port, ok, err := allocator.GetPort(AnyPort(), nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, allocator.AvailableGoodPorts(DefaultMinRangeLen, DefaultBorder).Contains(port))
}

// TestGetPort_Candidates verifies range, set and mixed list specs.
func TestGetPort_Candidates(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{})

	tests := []struct {
		name    string
		spec    PortSpec
		allowed func(int) bool
	}{
		{"range", RangeOf(2000, 3000), func(p int) bool { return p >= 2000 && p <= 3000 }},
		{"list of range", ListOf(RangeOf(2000, 3000)), func(p int) bool { return p >= 2000 && p <= 3000 }},
		{"set", SetOf(4001, 4002, 4003), func(p int) bool { return p >= 4001 && p <= 4003 }},
		{"list of set", ListOf(SetOf(4001, 4002, 4003)), func(p int) bool { return p >= 4001 && p <= 4003 }},
		{"mix", ListOf(RangeOf(2000, 3000), SetOf(4001, 4002, 4003), ExactPort(5000)), func(p int) bool {
			return (p >= 2000 && p <= 3000) || (p >= 4001 && p <= 4003) || p == 5000
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				port, ok, err := allocator.GetPort(tt.spec, nil)
				require.NoError(t, err)
				require.True(t, ok)
				assert.True(t, tt.allowed(port), "port %d outside spec %s", port, tt.spec)
			}
		})
	}
}

// TestGetPort_Exclude leaves a single port in an 11-port range, so the
// result is deterministic.
func TestGetPort_Exclude(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{})

	port, ok, err := allocator.GetPort(RangeOf(8000, 8010),
		[]int{8000, 8001, 8003, 8004, 8005, 8006, 8007, 8008, 8009, 8010})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 8002, port)
}

// TestGetPort_EmptySetMeansAny mirrors treating an empty collection like
// no preference.
func TestGetPort_EmptySetMeansAny(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{})
	port, ok, err := allocator.GetPort(SetOf(), nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotZero(t, port)
}

// TestGetPort_AllUsed propagates the exhaustion error.
func TestGetPort_AllUsed(t *testing.T) {
	allocator := newTestAllocator(&fakeChecker{all: true})
	_, ok, err := allocator.GetPort(SetOf(1, 2, 3), nil)
	assert.Error(t, err)
	assert.False(t, ok)
}
