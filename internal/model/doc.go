// Package model defines the domain types and value objects for the
// port-for CLI.
//
// This package contains plain data structures shared by the port
// selection engine, the reservation store and the CLI: inclusive port
// ranges, name→port reservations, the error sentinels returned by core
// operations, and the exit codes (ExitCode) carried by CLIError.
package model
