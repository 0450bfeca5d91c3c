package field

import (
	"strings"
	"unicode"
)

// acronyms are the Go initialisms kept upper-case in generated names.
var acronyms = map[string]struct{}{}

func init() {
	for _, w := range Acronyms() {
		acronyms[w] = struct{}{}
	}
}

// Acronyms returns the Go initialisms kept upper-case in generated names.
func Acronyms() []string {
	return []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DB", "DNS", "EOF", "GB", "GUID",
		"HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "LHS", "MAC", "MB",
		"QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO", "TCP",
		"TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID", "VM",
		"XML", "XMPP", "XSRF", "XSS",
	}
}

// Pascal converts a snake_case name into PascalCase, e.g. "user_info" =>
// "UserInfo". Known acronyms are upper-cased, e.g. "api_url" => "APIURL".
func Pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for _, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			b.WriteString(upper)
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}

// Exported makes sure a PascalCase name is a valid exported Go identifier.
func Exported(name string) string {
	if name == "" {
		return "F"
	}
	if r := []rune(name)[0]; !unicode.IsLetter(r) {
		return "F" + name
	}
	return name
}

// GoName returns the struct field name generated for a column, e.g.
// "created_at" and "createdAt" both give "CreatedAt".
func GoName(column string) string {
	return Exported(Pascal(column))
}

// GoName returns the struct field name generated for the field.
func (s Spec) GoName() string { return GoName(s.Name) }
