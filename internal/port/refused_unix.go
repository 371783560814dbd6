//go:build !windows

package port

import "syscall"

// errConnRefused is the errno a dial to a closed port fails with.
var errConnRefused error = syscall.ECONNREFUSED
