// Package store persists name→port reservations for the port-for CLI.
//
// The reservation set lives in a single INI-style file with one
// "name = port" line per application under a [DEFAULT] section. The file
// is the only source of truth: every operation re-reads it, applies its
// change and rewrites it, so no state is cached between calls. Rewrites
// go through a temporary file and a rename, so a crash never leaves a
// truncated store behind.
//
// Two invariants are enforced on every bind: an application has exactly
// one port, and a port backs at most one application.
package store
