package splice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `package main

// scaffold:begin table=users
type User struct{}
// scaffold:end table=users

// scaffold:begin table=orders
type Order struct{}
func main() {
}
`
	d := Parse(src)
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, 8, d.Anchor)
	assert.True(t, d.HasAnchor())

	users := d.Blocks[0]
	assert.Equal(t, Block{Table: "users", Begin: 2, End: 5, Terminated: true}, users)
	assert.Equal(t, []string{"type User struct{}"}, d.Body(users))

	orders := d.Blocks[1]
	assert.Equal(t, Block{Table: "orders", Begin: 6, End: 8}, orders)
	assert.Equal(t, []string{"type Order struct{}"}, d.Body(orders))
	assert.Equal(t, 2, orders.Len())

	assert.Equal(t, []string{"users", "orders"}, d.Tables())
	assert.Len(t, d.Lookup("orders"), 1)
	assert.Empty(t, d.Lookup("items"))
	assert.Equal(t, src, d.String())
}

func TestParse_States(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		anchor     int
		blocks     int
		terminated bool
	}{
		{name: "empty", src: "", anchor: -1},
		{name: "no anchor", src: "package main\n", anchor: -1},
		{name: "anchor only", src: "package main\nfunc main() {}\n", anchor: 1},
		{name: "indented anchor", src: "package main\n  func main() {}\n", anchor: 1},
		{name: "lookalike", src: "func mainly() {}\n", anchor: -1},
		{name: "block without anchor", src: "// scaffold:begin table=a\nx\n// scaffold:end table=a\n", anchor: -1, blocks: 1, terminated: true},
		{name: "block to eof", src: "// scaffold:begin table=a\nx\n", anchor: -1, blocks: 1},
		{name: "foreign end marker", src: "// scaffold:begin table=a\n// scaffold:end table=b\nfunc main()", anchor: 2, blocks: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Parse(tt.src)
			assert.Equal(t, tt.anchor, d.Anchor)
			require.Len(t, d.Blocks, tt.blocks)
			if tt.blocks > 0 {
				assert.Equal(t, tt.terminated, d.Blocks[0].Terminated)
			}
		})
	}
}

func TestDocument_Remove(t *testing.T) {
	d := Parse("a\n// scaffold:begin table=t\nx\n// scaffold:end table=t\n\nfunc main()\n")
	assert.True(t, d.remove("t"))
	assert.Equal(t, "a\nfunc main()\n", d.String())

	// Unterminated blocks keep the line that bounds them.
	d = Parse("a\n// scaffold:begin table=t\nx\n\nfunc main()\n")
	assert.True(t, d.remove("t"))
	assert.Equal(t, "a\nfunc main()\n", d.String())

	d = Parse("a\nfunc main()\n")
	assert.False(t, d.remove("t"))
}

func TestMarkers(t *testing.T) {
	assert.Equal(t, "// scaffold:begin table=users", BeginMarker("users"))
	assert.Equal(t, "// scaffold:end table=users", EndMarker("users"))

	table, ok := beginTable("  // scaffold:begin table=users  ")
	assert.True(t, ok)
	assert.Equal(t, "users", table)
	_, ok = endTable("// scaffold:begin table=users")
	assert.False(t, ok)
}
