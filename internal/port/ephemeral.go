package port

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/shinji-kodama/port-for/internal/model"
)

const (
	// linuxPortRangeFile is the procfs file holding the Linux local
	// (ephemeral) port range as two whitespace-separated integers.
	linuxPortRangeFile = "/proc/sys/net/ipv4/ip_local_port_range"

	// sysctlTimeout bounds the BSD sysctl subprocess.
	sysctlTimeout = 5 * time.Second
)

// DefaultEphemeralRange is used when the OS cannot be queried. It covers
// the Linux default lower bound up to the top of the port domain, which
// is a superset of every common platform default.
var DefaultEphemeralRange = model.Range{Low: 32768, High: 65535}

// sysctlKeyPairs lists the first/last key pairs reported by
// `sysctl net.inet.ip.portrange` on FreeBSD, macOS and OpenBSD.
var sysctlKeyPairs = [][2]string{
	// FreeBSD & macOS
	{"first", "last"},
	{"lowfirst", "lowlast"},
	{"hifirst", "hilast"},
	// OpenBSD
	{"portfirst", "portlast"},
	{"porthifirst", "porthilast"},
}

// RangeProbe asks the host for its ephemeral port ranges. A probe returns
// an error when its mechanism is unavailable on the current platform.
type RangeProbe func() ([]model.Range, error)

// EphemeralRanges returns the ephemeral port ranges of the current host,
// trying the Linux procfs file first and the BSD sysctl tool second.
func EphemeralRanges() []model.Range {
	return DiscoverEphemeralRanges(
		LinuxProbe(linuxPortRangeFile),
		SysctlProbe(runSysctl),
	)
}

// DiscoverEphemeralRanges runs the probes in order and returns the first
// non-empty result. When every probe fails or finds nothing it returns
// DefaultEphemeralRange, so the result is never empty.
func DiscoverEphemeralRanges(probes ...RangeProbe) []model.Range {
	for _, probe := range probes {
		ranges, err := probe()
		if err == nil && len(ranges) > 0 {
			return ranges
		}
	}
	return []model.Range{DefaultEphemeralRange}
}

// LinuxProbe returns a probe reading the Linux ip_local_port_range file
// at path. Only the first line is parsed, since musl-based systems may
// append trailing data.
func LinuxProbe(path string) RangeProbe {
	return func() ([]model.Range, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		line, _, _ := strings.Cut(string(data), "\n")
		return parseLinuxPortRange(line)
	}
}

// parseLinuxPortRange parses "32768\t60999" into a single range.
func parseLinuxPortRange(line string) ([]model.Range, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return nil, fmt.Errorf("unexpected port range format %q", line)
	}
	low, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("invalid port range low bound %q: %w", fields[0], err)
	}
	high, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid port range high bound %q: %w", fields[1], err)
	}
	return []model.Range{{Low: low, High: high}}, nil
}

// SysctlProbe returns a probe that runs `sysctl net.inet.ip.portrange`
// through run and parses its output with ParseSysctlPortRange.
func SysctlProbe(run func() ([]byte, error)) RangeProbe {
	return func() ([]model.Range, error) {
		out, err := run()
		if err != nil {
			return nil, err
		}
		return ParseSysctlPortRange(out), nil
	}
}

// runSysctl executes the BSD sysctl tool. On Linux the tool exists but
// has no net.inet tree, which yields an error or empty output; both fall
// through to the default range.
func runSysctl() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), sysctlTimeout)
	defer cancel()
	return exec.CommandContext(ctx, "sysctl", "net.inet.ip.portrange").Output()
}

// ParseSysctlPortRange extracts ephemeral ranges from sysctl output such as:
//
//	net.inet.ip.portrange.first: 49152
//	net.inet.ip.portrange.last: 65535
//
// Keys are matched on their last dotted component. Pairs whose low bound
// exceeds the high bound, or that are incomplete, are skipped.
func ParseSysctlPortRange(out []byte) []model.Range {
	values := make(map[string]int)

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if idx := strings.LastIndex(key, "."); idx >= 0 {
			key = key[idx+1:]
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		values[key] = n
	}

	var ranges []model.Range
	for _, pair := range sysctlKeyPairs {
		low, hasLow := values[pair[0]]
		high, hasHigh := values[pair[1]]
		if hasLow && hasHigh && low <= high {
			ranges = append(ranges, model.Range{Low: low, High: high})
		}
	}
	return ranges
}
