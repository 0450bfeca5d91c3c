package gen

import (
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/scaffold/schema/field"
)

var rules = ruleset()

// ruleset returns the inflection rules used for table and type names, with
// the common Go initialisms registered as acronyms.
func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range field.Acronyms() {
		rules.AddAcronym(w)
	}
	return rules
}

// singular returns the singular form of a snake_case table name, e.g.
// "users" => "user", "order_items" => "order_item".
func singular(s string) string {
	words := strings.Split(s, "_")
	last := len(words) - 1
	words[last] = rules.Singularize(words[last])
	return strings.Join(words, "_")
}

// plural returns the plural form of a snake_case name, e.g.
// "person" => "people", "order_item" => "order_items".
func plural(s string) string {
	words := strings.Split(s, "_")
	last := len(words) - 1
	words[last] = rules.Pluralize(words[last])
	return strings.Join(words, "_")
}

// pascal converts the given name into a PascalCase, e.g. "user_info" => "UserInfo".
func pascal(s string) string { return field.Pascal(s) }

// goIdent makes sure a PascalCase name is a valid exported Go identifier.
func goIdent(name string) string { return field.Exported(name) }
