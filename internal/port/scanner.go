package port

import (
	"errors"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultProbeHost is the address ports are probed on.
	DefaultProbeHost = "127.0.0.1"

	// DefaultConnectTimeout bounds the connect half of a probe so that a
	// filtered port cannot stall selection for long.
	DefaultConnectTimeout = time.Second
)

// Scanner checks whether specific ports are in use on the host machine.
//
// A port counts as used when either of two probes says so:
//   - binding a fresh TCP socket to (host, port) fails, which catches ports
//     owned by another socket, listening or not;
//   - connecting to (host, port) is not refused, which catches listeners
//     that a bind alone can miss on platforms with permissive address reuse.
//
// Only an explicit connection-refused error (ECONNREFUSED, or
// WSAECONNREFUSED on Windows) counts as refused. A successful connect,
// a timeout, or any other error means the port is not safe to hand out.
type Scanner struct {
	// host is the address both probes target. Probing the loopback
	// address catches listeners bound to 127.0.0.1 as well as those on
	// the wildcard address.
	host string

	// connectTimeout bounds the connect probe. A filtered port never
	// answers, and the timeout turns that into "used".
	connectTimeout time.Duration
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithHost sets the address ports are probed on.
func WithHost(host string) ScannerOption {
	return func(s *Scanner) {
		if host != "" {
			s.host = host
		}
	}
}

// WithConnectTimeout sets the timeout of the connect probe.
func WithConnectTimeout(d time.Duration) ScannerOption {
	return func(s *Scanner) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}

// NewScanner creates a Scanner probing DefaultProbeHost with
// DefaultConnectTimeout unless overridden by options.
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		host:           DefaultProbeHost,
		connectTimeout: DefaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Host returns the address ports are probed on.
func (s *Scanner) Host() string {
	return s.host
}

// IsPortUsed reports whether port is used on the scanner's host: the port
// cannot be bound, or a connection to it is not refused.
//
// The bind probe runs first. When it already fails no connection is
// attempted, so probing a busy listener does not leave a connection in
// its accept queue.
func (s *Scanner) IsPortUsed(port int) bool {
	if !s.CanBind(port) {
		return true
	}
	return !s.RefusesConnection(port)
}

// CanBind reports whether a TCP socket can be bound to (host, port). The
// listener is closed before returning.
func (s *Scanner) CanBind(port int) bool {
	listener, err := net.Listen("tcp", s.addr(port))
	if err != nil {
		return false
	}
	_ = listener.Close()
	return true
}

// RefusesConnection reports whether a TCP connection to (host, port) is
// actively refused. A successful connection is closed immediately.
func (s *Scanner) RefusesConnection(port int) bool {
	conn, err := net.DialTimeout("tcp", s.addr(port), s.connectTimeout)
	if err == nil {
		_ = conn.Close()
		return false
	}
	return isConnRefused(err)
}

// isConnRefused reports whether err, typically a *net.OpError from a
// dial, carries the platform's connection-refused errno.
func isConnRefused(err error) bool {
	return errors.Is(err, errConnRefused)
}

// addr joins the probe host and port, bracketing IPv6 hosts.
func (s *Scanner) addr(port int) string {
	return net.JoinHostPort(s.host, strconv.Itoa(port))
}
