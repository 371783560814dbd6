package port

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/port-for/internal/model"
)

// TestLinuxProbe reads a fake ip_local_port_range file. Only the first
// line is used.
func TestLinuxProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ip_local_port_range")
	require.NoError(t, os.WriteFile(path, []byte("32768\t60999\nignored\n"), 0o644))

	ranges, err := LinuxProbe(path)()
	require.NoError(t, err)
	assert.Equal(t, []model.Range{{Low: 32768, High: 60999}}, ranges)
}

// TestLinuxProbe_Errors covers a missing file and malformed content.
func TestLinuxProbe_Errors(t *testing.T) {
	_, err := LinuxProbe(filepath.Join(t.TempDir(), "missing"))()
	assert.Error(t, err)

	for _, content := range []string{"", "32768", "a b", "1 b", "1 2 3"} {
		path := filepath.Join(t.TempDir(), "range")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := LinuxProbe(path)()
		assert.Error(t, err, "content %q should not parse", content)
	}
}

// TestParseSysctlPortRange covers the key pairs reported by macOS/FreeBSD
// and OpenBSD, and skips inverted or incomplete pairs.
func TestParseSysctlPortRange(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected []model.Range
	}{
		{
			name: "macOS",
			output: `net.inet.ip.portrange.lowfirst: 1023
net.inet.ip.portrange.lowlast: 600
net.inet.ip.portrange.first: 49152
net.inet.ip.portrange.last: 65535
net.inet.ip.portrange.hifirst: 49152
net.inet.ip.portrange.hilast: 65535
`,
			expected: []model.Range{{Low: 49152, High: 65535}, {Low: 49152, High: 65535}},
		},
		{
			name: "OpenBSD",
			output: `net.inet.ip.portfirst=1024
net.inet.ip.portrange.portfirst: 1024
net.inet.ip.portrange.portlast: 49151
net.inet.ip.portrange.porthifirst: 49152
net.inet.ip.portrange.porthilast: 65535
`,
			expected: []model.Range{{Low: 1024, High: 49151}, {Low: 49152, High: 65535}},
		},
		{
			name:     "incomplete pair",
			output:   "net.inet.ip.portrange.first: 10000\n",
			expected: nil,
		},
		{
			name:     "garbage",
			output:   "sysctl: unknown oid 'net.inet.ip.portrange'\nfoo: bar\n",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSysctlPortRange([]byte(tt.output)))
		})
	}
}

// TestSysctlProbe verifies that runner errors are propagated and output
// is parsed.
func TestSysctlProbe(t *testing.T) {
	_, err := SysctlProbe(func() ([]byte, error) { return nil, errors.New("exec: not found") })()
	assert.Error(t, err)

	ranges, err := SysctlProbe(func() ([]byte, error) {
		return []byte("net.inet.ip.portrange.first: 40000\nnet.inet.ip.portrange.last: 50000\n"), nil
	})()
	require.NoError(t, err)
	assert.Equal(t, []model.Range{{Low: 40000, High: 50000}}, ranges)
}

// TestDiscoverEphemeralRanges verifies probe ordering and the fallback.
func TestDiscoverEphemeralRanges(t *testing.T) {
	failing := func() ([]model.Range, error) { return nil, errors.New("unsupported") }
	empty := func() ([]model.Range, error) { return nil, nil }
	fixed := func(r model.Range) RangeProbe {
		return func() ([]model.Range, error) { return []model.Range{r}, nil }
	}

	assert.Equal(t, []model.Range{DefaultEphemeralRange}, DiscoverEphemeralRanges())
	assert.Equal(t, []model.Range{DefaultEphemeralRange}, DiscoverEphemeralRanges(failing, empty))
	assert.Equal(t,
		[]model.Range{{Low: 1, High: 2}},
		DiscoverEphemeralRanges(failing, fixed(model.Range{Low: 1, High: 2}), fixed(model.Range{Low: 3, High: 4})))
}

// TestEphemeralRanges_NeverEmpty runs real discovery on the test host.
func TestEphemeralRanges_NeverEmpty(t *testing.T) {
	ranges := EphemeralRanges()
	require.NotEmpty(t, ranges)
	for _, r := range ranges {
		assert.LessOrEqual(t, r.Low, r.High)
	}
}
