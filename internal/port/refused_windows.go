//go:build windows

package port

import "golang.org/x/sys/windows"

// errConnRefused is the errno a dial to a closed port fails with.
// syscall.ECONNREFUSED is a placeholder on Windows that Winsock never
// returns; a refused connect reports WSAECONNREFUSED (10061).
var errConnRefused error = windows.WSAECONNREFUSED
