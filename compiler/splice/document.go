package splice

import (
	"strings"
)

// Marker prefixes delimiting a generated block. The table name follows
// the prefix verbatim.
const (
	BeginPrefix = "// scaffold:begin table="
	EndPrefix   = "// scaffold:end table="
)

// BeginMarker returns the line opening the block of table.
func BeginMarker(table string) string { return BeginPrefix + table }

// EndMarker returns the line closing the block of table.
func EndMarker(table string) string { return EndPrefix + table }

// Block is the position of one generated block in a Document.
type Block struct {
	Table string
	// Begin is the index of the begin marker line.
	Begin int
	// End is the index one past the last line of the block. For a
	// terminated block that is the line after the end marker.
	End int
	// Terminated reports whether the block closes with its own end marker.
	// An unterminated block is bounded by the next marker line, the entry
	// point or the end of the text.
	Terminated bool
}

// Len returns the number of lines the block spans.
func (b Block) Len() int { return b.End - b.Begin }

// Document is a line-indexed view of a source text.
type Document struct {
	Lines  []string
	Blocks []Block
	// Anchor is the index of the entry-point line, -1 when absent.
	Anchor int
}

// Parse indexes src using the default entry point.
func Parse(src string) *Document {
	return parse(src, DefaultEntryPoint)
}

func parse(src, entry string) *Document {
	d := &Document{Lines: strings.Split(src, "\n"), Anchor: -1}
	for i := 0; i < len(d.Lines); i++ {
		line := d.Lines[i]
		if d.Anchor < 0 && isEntry(line, entry) {
			d.Anchor = i
			continue
		}
		table, ok := beginTable(line)
		if !ok {
			continue
		}
		b := Block{Table: table, Begin: i, End: len(d.Lines)}
		for j := i + 1; j < len(d.Lines); j++ {
			next := d.Lines[j]
			if t, ok := endTable(next); ok && t == table {
				b.End, b.Terminated = j+1, true
				break
			}
			if isMarker(next) || isEntry(next, entry) {
				b.End = j
				break
			}
		}
		d.Blocks = append(d.Blocks, b)
		i = b.End - 1
	}
	return d
}

// String joins the lines back into source text.
func (d *Document) String() string {
	return strings.Join(d.Lines, "\n")
}

// HasAnchor reports whether the entry point was found.
func (d *Document) HasAnchor() bool { return d.Anchor >= 0 }

// Lookup returns the blocks of table in source order.
func (d *Document) Lookup(table string) []Block {
	var blocks []Block
	for _, b := range d.Blocks {
		if b.Table == table {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Tables returns the distinct tables with a block, in source order.
func (d *Document) Tables() []string {
	seen := make(map[string]bool, len(d.Blocks))
	var tables []string
	for _, b := range d.Blocks {
		if !seen[b.Table] {
			seen[b.Table] = true
			tables = append(tables, b.Table)
		}
	}
	return tables
}

// Body returns the lines between the markers of b.
func (d *Document) Body(b Block) []string {
	end := b.End
	if b.Terminated {
		end--
	}
	return d.Lines[b.Begin+1 : end]
}

// remove deletes every block of table, together with the blank separator
// line following a terminated block. It reports whether one was found.
func (d *Document) remove(table string) bool {
	blocks := d.Lookup(table)
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		end := b.End
		if b.Terminated && end < len(d.Lines) && strings.TrimSpace(d.Lines[end]) == "" {
			end++
		}
		d.Lines = append(d.Lines[:b.Begin], d.Lines[end:]...)
	}
	return len(blocks) > 0
}

func isEntry(line, entry string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), entry)
}

func isMarker(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, BeginPrefix) || strings.HasPrefix(line, EndPrefix)
}

func beginTable(line string) (string, bool) {
	return markerTable(line, BeginPrefix)
}

func endTable(line string) (string, bool) {
	return markerTable(line, EndPrefix)
}

func markerTable(line, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), prefix)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
