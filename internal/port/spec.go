package port

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/juju/collections/set"

	"github.com/shinji-kodama/port-for/internal/model"
)

// SpecKind identifies the shape of a PortSpec.
type SpecKind int

const (
	// SpecAny selects any free port from the default good pool.
	SpecAny SpecKind = iota
	// SpecNone requests no port at all.
	SpecNone
	// SpecExact names one port, returned without checking it.
	SpecExact
	// SpecRange selects a free port inside an inclusive range.
	SpecRange
	// SpecSet selects a free port from an explicit set.
	SpecSet
	// SpecList selects a free port from the union of its items.
	SpecList
)

// PortSpec describes which port a caller wants. Build one with AnyPort,
// NoPort, ExactPort, RangeOf, SetOf or ListOf, or parse the CLI form with
// ParsePortSpec, then resolve it with Allocator.GetPort.
type PortSpec struct {
	// kind selects which of the fields below is meaningful.
	kind SpecKind

	// port is the SpecExact value.
	port int

	// rng is the SpecRange band, stored with ascending bounds.
	rng model.Range

	// ports are the SpecSet members, in the order given.
	ports []int

	// items are the SpecList members; their candidates are unioned.
	items []PortSpec
}

// AnyPort returns a spec for any free good port.
func AnyPort() PortSpec { return PortSpec{kind: SpecAny} }

// NoPort returns a spec that resolves to no port.
func NoPort() PortSpec { return PortSpec{kind: SpecNone} }

// ExactPort returns a spec for exactly port. Inside a ListOf it acts as a
// single candidate instead.
func ExactPort(port int) PortSpec { return PortSpec{kind: SpecExact, port: port} }

// RangeOf returns a spec for a free port in [low, high].
func RangeOf(low, high int) PortSpec {
	return PortSpec{kind: SpecRange, rng: model.NewRange(low, high)}
}

// SetOf returns a spec for a free port among ports.
func SetOf(ports ...int) PortSpec {
	return PortSpec{kind: SpecSet, ports: append([]int(nil), ports...)}
}

// ListOf returns a spec for a free port from the union of specs.
func ListOf(specs ...PortSpec) PortSpec {
	return PortSpec{kind: SpecList, items: append([]PortSpec(nil), specs...)}
}

// Kind returns the spec's shape.
func (s PortSpec) Kind() SpecKind {
	return s.kind
}

// Candidates returns the union of ports the spec allows. Any and None
// specs contribute no candidates.
func (s PortSpec) Candidates() set.Ints {
	switch s.kind {
	case SpecExact:
		return set.NewInts(s.port)
	case SpecRange:
		return RangesToSet([]model.Range{s.rng})
	case SpecSet:
		return set.NewInts(s.ports...)
	case SpecList:
		union := set.NewInts()
		for _, item := range s.items {
			union = union.Union(item.Candidates())
		}
		return union
	default:
		return set.NewInts()
	}
}

// String renders the spec in the form accepted by ParsePortSpec.
func (s PortSpec) String() string {
	switch s.kind {
	case SpecNone:
		return "-1"
	case SpecExact:
		return strconv.Itoa(s.port)
	case SpecRange:
		return s.rng.String()
	case SpecSet:
		parts := make([]string, 0, len(s.ports))
		for _, p := range s.ports {
			parts = append(parts, strconv.Itoa(p))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case SpecList:
		parts := make([]string, 0, len(s.items))
		for _, item := range s.items {
			parts = append(parts, item.String())
		}
		return strings.Join(parts, ",")
	default:
		return "any"
	}
}

// GetPort resolves spec to a port.
//
//   - NoPort: ok is false and no port is returned.
//   - ExactPort: the port itself, not probed.
//   - AnyPort, or a Set/List with no members: SelectRandom over the
//     default good pool.
//   - RangeOf, SetOf, ListOf: SelectRandom over the spec's candidates.
//
// exclude removes ports from consideration before any selection.
func (a *Allocator) GetPort(spec PortSpec, exclude []int) (port int, ok bool, err error) {
	switch spec.kind {
	case SpecNone:
		return 0, false, nil
	case SpecExact:
		return spec.port, true, nil
	case SpecAny:
		port, err = a.SelectRandom(nil, exclude)
	default:
		candidates := spec.Candidates()
		if candidates.IsEmpty() {
			candidates = nil
		}
		port, err = a.SelectRandom(candidates, exclude)
	}
	if err != nil {
		return 0, false, err
	}
	return port, true, nil
}

// ParsePortSpec parses the textual port spec used on the command line:
//
//	""  or "any"          any free port
//	"-1" or "none"        no port
//	"8000"                exactly 8000, unchecked
//	"2000-3000"           a free port in the range
//	"{4001,4002,4003}"    a free port from the set
//	"2000-3000,{4001},4004"  a free port from the union
//
// In a comma-separated list a bare number is one more candidate rather
// than an exact port.
func ParsePortSpec(s string) (PortSpec, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "any":
		return AnyPort(), nil
	case "-1", "none":
		return NoPort(), nil
	}

	tokens, err := splitSpecTokens(s)
	if err != nil {
		return PortSpec{}, err
	}

	items := make([]PortSpec, 0, len(tokens))
	for _, tok := range tokens {
		item, err := parseSpecToken(tok)
		if err != nil {
			return PortSpec{}, fmt.Errorf("invalid port spec %q: %w", s, err)
		}
		items = append(items, item)
	}

	if len(items) == 1 {
		return items[0], nil
	}
	return ListOf(items...), nil
}

// splitSpecTokens splits on commas that are not inside braces.
func splitSpecTokens(s string) ([]string, error) {
	var (
		tokens []string
		depth  int
		start  int
	)
	for i, c := range s {
		switch c {
		case '{':
			depth++
			if depth > 1 {
				return nil, fmt.Errorf("invalid port spec %q: nested sets are not supported", s)
			}
		case '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("invalid port spec %q: unbalanced braces", s)
			}
		case ',':
			if depth == 0 {
				tokens = append(tokens, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("invalid port spec %q: unbalanced braces", s)
	}
	tokens = append(tokens, s[start:])

	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
		if tokens[i] == "" {
			return nil, fmt.Errorf("invalid port spec %q: empty element", s)
		}
	}
	return tokens, nil
}

func parseSpecToken(tok string) (PortSpec, error) {
	if strings.HasPrefix(tok, "{") && strings.HasSuffix(tok, "}") {
		inner := strings.TrimSpace(tok[1 : len(tok)-1])
		if inner == "" {
			return SetOf(), nil
		}
		var ports []int
		for _, field := range strings.Split(inner, ",") {
			p, err := parsePortNumber(field)
			if err != nil {
				return PortSpec{}, err
			}
			ports = append(ports, p)
		}
		return SetOf(ports...), nil
	}

	if strings.Contains(tok, "-") {
		r, err := model.ParseRange(tok)
		if err != nil {
			return PortSpec{}, err
		}
		return RangeOf(r.Low, r.High), nil
	}

	p, err := parsePortNumber(tok)
	if err != nil {
		return PortSpec{}, err
	}
	return ExactPort(p), nil
}

func parsePortNumber(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", strings.TrimSpace(s))
	}
	if err := model.ValidatePort(p); err != nil {
		return 0, err
	}
	return p, nil
}
