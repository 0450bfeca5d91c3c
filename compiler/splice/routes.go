package splice

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/syssam/scaffold"
)

// Anchor is a line after which route registrations are inserted.
type Anchor struct {
	Name string
	// Prefix is matched against the line with surrounding space trimmed.
	Prefix string
	// Scope marks a line opening a block; inserted routes get one more
	// level of indentation than the anchor.
	Scope bool
}

// DefaultAnchors returns the route anchors for router, by priority: the
// health route, a middleware registration, then a registerRoutes func.
func DefaultAnchors(router string) []Anchor {
	return []Anchor{
		{Name: "health route", Prefix: router + `.GET("/health"`},
		{Name: "middleware", Prefix: router + ".Use("},
		{Name: "route scope", Prefix: "func registerRoutes(", Scope: true},
	}
}

// routeLine matches a gin route registration and captures its path.
var routeLine = regexp.MustCompile(`^[A-Za-z_][\w.]*\.(?:GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS|Any|Handle)\((?:"[A-Z]+",\s*)?"(/[^"]*)"`)

// RouteSplicer replaces the route registrations of a table.
type RouteSplicer struct {
	config *Config
}

// NewRouteSplicer creates a RouteSplicer.
func NewRouteSplicer(opts ...Option) (*RouteSplicer, error) {
	c, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &RouteSplicer{config: c}, nil
}

// Splice removes the registrations of table and inserts routes after the
// first anchor found. A registration belongs to table when the first
// segment of its path is exactly table, so "/orders_archive" is never
// touched when splicing "orders". Anchor lines are never removed.
//
// Without an anchor the original src is returned together with a soft
// *scaffold.AnchorNotFoundError.
func (s *RouteSplicer) Splice(src, table string, routes []string) (string, error) {
	if table == "" {
		return src, scaffold.NewValidationError(table, fmt.Errorf("%w: empty table name", ErrInvalidBlock))
	}
	for _, r := range routes {
		if strings.ContainsAny(r, "\r\n") {
			return src, fmt.Errorf("%w: route %q spans lines", ErrInvalidBlock, r)
		}
	}

	lines, _ := s.removeRoutes(strings.Split(src, "\n"), table)
	at, anchor := s.find(lines)
	if at < 0 {
		names := make([]string, len(s.config.Anchors))
		for i, a := range s.config.Anchors {
			names[i] = a.Name
		}
		return src, &scaffold.AnchorNotFoundError{
			Anchor: "route anchor (" + strings.Join(names, ", ") + ")",
			Soft:   true,
		}
	}

	indent := leadingSpace(lines[at])
	if anchor.Scope {
		indent += "\t"
	}
	ins := make([]string, len(routes))
	for i, r := range routes {
		ins[i] = indent + strings.TrimSpace(r)
	}

	out := make([]string, 0, len(lines)+len(ins))
	out = append(out, lines[:at+1]...)
	out = append(out, ins...)
	out = append(out, lines[at+1:]...)

	s.config.Logger.Debug("routes spliced", "table", table, "anchor", anchor.Name, "routes", len(ins))
	return strings.Join(out, "\n"), nil
}

// RemoveRoutes deletes the registrations of table. It reports whether any
// line was removed.
func (s *RouteSplicer) RemoveRoutes(src, table string) (string, bool) {
	lines, n := s.removeRoutes(strings.Split(src, "\n"), table)
	if n == 0 {
		return src, false
	}
	s.config.Logger.Debug("routes removed", "table", table, "routes", n)
	return strings.Join(lines, "\n"), true
}

// Routes returns the registration lines of table in src, trimmed.
func (s *RouteSplicer) Routes(src, table string) []string {
	var routes []string
	for _, line := range strings.Split(src, "\n") {
		if routeTable(line) == table && !s.anchor(line) {
			routes = append(routes, strings.TrimSpace(line))
		}
	}
	return routes
}

func (s *RouteSplicer) find(lines []string) (int, Anchor) {
	for _, a := range s.config.Anchors {
		for i, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), a.Prefix) {
				return i, a
			}
		}
	}
	return -1, Anchor{}
}

// anchor reports whether line is one of the configured anchors.
func (s *RouteSplicer) anchor(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, a := range s.config.Anchors {
		if strings.HasPrefix(trimmed, a.Prefix) {
			return true
		}
	}
	return false
}

func (s *RouteSplicer) removeRoutes(lines []string, table string) ([]string, int) {
	out := lines[:0:0]
	for _, line := range lines {
		if routeTable(line) == table && !s.anchor(line) {
			continue
		}
		out = append(out, line)
	}
	return out, len(lines) - len(out)
}

// routeTable returns the first path segment of a route registration, or
// "" when line is not one.
func routeTable(line string) string {
	m := routeLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return ""
	}
	seg, _, _ := strings.Cut(strings.TrimPrefix(m[1], "/"), "/")
	return seg
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
