// Package port implements port availability checking and random port
// selection for the port-for CLI.
//
// Candidate ports start from a static table of IANA-unassigned ranges.
// The Allocator removes the system range (0-1024), the host's ephemeral
// ranges (discovered from the OS, see DiscoverEphemeralRanges) and any
// caller exclusions, keeps only large contiguous runs with their borders
// trimmed ("good" ranges), and then samples up to 100 distinct candidates
// at random. Each candidate is probed by a Scanner, which treats a port as
// used when it cannot be bound or when a connection to it is not refused.
package port
