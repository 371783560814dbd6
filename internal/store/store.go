package store

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/juju/collections/set"
	"github.com/moby/sys/atomicwriter"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"github.com/shinji-kodama/port-for/internal/model"
)

// DefaultPath is the store location used when none is configured.
const DefaultPath = "/etc/port-for.conf"

// filePerm is the permission of a newly created store file.
const filePerm = 0o644

func init() {
	// Write "[DEFAULT]" and plain "name = port" lines so the file stays
	// readable by other INI parsers that require a section header.
	ini.DefaultHeader = true
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

// Selector picks a free port from ports (nil meaning the default pool),
// never returning one of exclude. *port.Allocator satisfies it.
type Selector interface {
	SelectRandom(ports set.Ints, exclude []int) (int, error)
}

// Store is the durable reservation set.
//
// A Store holds no reservations in memory. Each method loads the file,
// applies one change and writes it back, so several Store values (or
// several processes) can share a file; see WithLock for serializing them.
type Store struct {
	// path is the store file. It is created, together with its parent
	// directory, on first use.
	path string

	// selector picks a port when BindPort is called without one. It is
	// never consulted for explicit ports or already bound applications.
	selector Selector

	// reserved ports are never auto-selected, in addition to the ports
	// already bound in the file.
	reserved []int

	// lock, when set, serializes read-modify-write cycles across processes.
	lock *flock.Flock

	// log receives a debug entry for every change written to the file.
	// It discards everything unless WithLogger is used.
	log logrus.FieldLogger
}

// Option configures a Store.
type Option func(*Store)

// WithReservedPorts adds ports that automatic selection must skip, such
// as host ports published by Docker containers.
func WithReservedPorts(ports ...int) Option {
	return func(s *Store) {
		s.reserved = append(s.reserved, ports...)
	}
}

// WithLock holds an advisory lock on "<path>.lock" for the duration of
// each operation.
func WithLock() Option {
	return func(s *Store) {
		s.lock = flock.New(s.path + ".lock")
	}
}

// WithLogger sets the logger for store operations.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Store backed by the file at path. selector is consulted
// only when a new port has to be chosen. The path is fixed for the
// lifetime of the Store.
func New(path string, selector Selector, opts ...Option) *Store {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Store{
		path:     path,
		selector: selector,
		log:      discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the store file location.
func (s *Store) Path() string {
	return s.path
}

// BindPort associates app with a port and returns it.
//
// A port <= 0 means no specific port is requested. Rules:
//   - an already bound app keeps its port; asking for a different one
//     fails with model.ErrBindingConflict;
//   - an unbound app with no requested port gets a random free port that
//     is not bound to any other app;
//   - an unbound app may take an explicit port, even one currently in use
//     on the host, unless another app owns it (model.ErrPortOwnedByOther).
func (s *Store) BindPort(app string, port int) (int, error) {
	if err := model.ValidateAppName(app); err != nil {
		return 0, err
	}
	if port > 0 {
		if err := model.ValidatePort(port); err != nil {
			return 0, err
		}
	}

	var bound int
	err := s.update(func(sec *ini.Section) (bool, error) {
		reservations, err := s.read(sec)
		if err != nil {
			return false, err
		}

		for _, r := range reservations {
			if r.App != app {
				continue
			}
			if port <= 0 || port == r.Port {
				bound = r.Port
				return false, nil
			}
			return false, fmt.Errorf("%w: %q is bound to port %d, cannot rebind to %d",
				model.ErrBindingConflict, app, r.Port, port)
		}

		if port <= 0 {
			exclude := append([]int(nil), s.reserved...)
			for _, r := range reservations {
				exclude = append(exclude, r.Port)
			}
			selected, err := s.selector.SelectRandom(nil, exclude)
			if err != nil {
				return false, fmt.Errorf("failed to select a port for %q: %w", app, err)
			}
			port = selected
		} else {
			for _, r := range reservations {
				if r.Port == port {
					return false, fmt.Errorf("%w: port %d is bound to %q", model.ErrPortOwnedByOther, port, r.App)
				}
			}
		}

		if _, err := sec.NewKey(app, strconv.Itoa(port)); err != nil {
			return false, fmt.Errorf("failed to record %q: %w", app, err)
		}
		bound = port
		s.log.WithFields(logrus.Fields{"app": app, "port": port}).Debug("bound port")
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return bound, nil
}

// UnbindPort removes the reservation for app. Removing an app that is not
// bound is not an error.
func (s *Store) UnbindPort(app string) error {
	return s.update(func(sec *ini.Section) (bool, error) {
		if !sec.HasKey(app) {
			return false, nil
		}
		sec.DeleteKey(app)
		s.log.WithField("app", app).Debug("unbound port")
		return true, nil
	})
}

// BoundPorts returns every reservation in the order it was written.
func (s *Store) BoundPorts() ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := s.update(func(sec *ini.Section) (bool, error) {
		var err error
		reservations, err = s.read(sec)
		return false, err
	})
	return reservations, err
}

// update runs one read-modify-write cycle: the file is created if
// missing, loaded, passed to fn, and rewritten when fn reports a change.
func (s *Store) update(fn func(sec *ini.Section) (bool, error)) error {
	if s.lock != nil {
		if err := s.lock.Lock(); err != nil {
			return fmt.Errorf("failed to lock store %s: %w", s.path, err)
		}
		defer func() { _ = s.lock.Unlock() }()
	}

	if err := s.ensureExists(); err != nil {
		return err
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{}, s.path)
	if err != nil {
		return fmt.Errorf("failed to read store %s: %w", s.path, err)
	}

	changed, err := fn(cfg.Section(ini.DefaultSection))
	if err != nil || !changed {
		return err
	}
	return s.save(cfg)
}

// read converts the section's keys into reservations, keeping file order.
func (s *Store) read(sec *ini.Section) ([]model.Reservation, error) {
	keys := sec.Keys()
	reservations := make([]model.Reservation, 0, len(keys))
	for _, key := range keys {
		port, err := key.Int()
		if err != nil {
			return nil, fmt.Errorf("store %s: invalid port %q for %q: %w", s.path, key.Value(), key.Name(), err)
		}
		reservations = append(reservations, model.Reservation{App: key.Name(), Port: port})
	}
	return reservations, nil
}

// ensureExists creates an empty store file (and its directory) if needed.
func (s *Store) ensureExists() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE, filePerm)
	if err != nil {
		return fmt.Errorf("failed to create store %s: %w", s.path, err)
	}
	return f.Close()
}

// save serializes cfg and atomically replaces the store file.
//
// The replacement is written to a temporary file in the same directory
// and renamed over the store, so the directory must be writable. The new
// file keeps the permission bits of the one it replaces; ownership is
// that of the writing process.
func (s *Store) save(cfg *ini.File) error {
	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	perm := os.FileMode(filePerm)
	if info, err := os.Stat(s.path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := atomicwriter.WriteFile(s.path, buf.Bytes(), perm); err != nil {
		return fmt.Errorf("failed to write store %s: %w", s.path, err)
	}
	return nil
}
