package splice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/scaffold"
)

// ErrInvalidBlock is returned for block text that contains a marker or
// entry-point line, or for an empty table name.
var ErrInvalidBlock = errors.New("splice: invalid block")

// Splicer replaces the generated block of a table in a source text.
// Every method takes a full text and returns a new one; a Splicer keeps
// no state between calls.
type Splicer struct {
	config *Config
}

// New creates a Splicer.
func New(opts ...Option) (*Splicer, error) {
	c, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Splicer{config: c}, nil
}

// Parse indexes src with the splicer's entry point.
func (s *Splicer) Parse(src string) *Document {
	return parse(src, s.config.EntryPoint)
}

// Splice removes every block of table from src and inserts block,
// wrapped in markers and followed by a blank line, before the entry
// point. Splicing the same table twice leaves only the second block.
func (s *Splicer) Splice(src, block, table string) (string, error) {
	if err := s.check(block, table); err != nil {
		return "", err
	}
	d := s.Parse(src)
	if d.remove(table) {
		d = s.Parse(d.String())
	}
	if !d.HasAnchor() {
		return "", scaffold.NewAnchorNotFoundError(fmt.Sprintf("%q", s.config.EntryPoint))
	}

	ins := make([]string, 0, 4)
	ins = append(ins, BeginMarker(table))
	if body := strings.TrimRight(block, "\n"); body != "" {
		ins = append(ins, strings.Split(body, "\n")...)
	}
	ins = append(ins, EndMarker(table), "")

	lines := make([]string, 0, len(d.Lines)+len(ins))
	lines = append(lines, d.Lines[:d.Anchor]...)
	lines = append(lines, ins...)
	lines = append(lines, d.Lines[d.Anchor:]...)

	s.config.Logger.Debug("block spliced", "table", table, "lines", len(ins)-3, "anchor", d.Anchor+1)
	return strings.Join(lines, "\n"), nil
}

// Remove deletes every block of table. It reports false, returning src
// unchanged, when there is none.
func (s *Splicer) Remove(src, table string) (string, bool) {
	d := s.Parse(src)
	if !d.remove(table) {
		return src, false
	}
	s.config.Logger.Debug("block removed", "table", table)
	return d.String(), true
}

// Tables lists the tables with a generated block in src.
func (s *Splicer) Tables(src string) []string {
	return s.Parse(src).Tables()
}

func (s *Splicer) check(block, table string) error {
	if table == "" || strings.ContainsAny(table, " \t\r\n") {
		return scaffold.NewValidationError(table, fmt.Errorf("%w: table name must be a single word", ErrInvalidBlock))
	}
	for i, line := range strings.Split(block, "\n") {
		if isMarker(line) || isEntry(line, s.config.EntryPoint) {
			return fmt.Errorf("%w: line %d of the %s block: %q", ErrInvalidBlock, i+1, table, strings.TrimSpace(line))
		}
	}
	return nil
}
