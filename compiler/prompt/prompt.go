// Package prompt collects field definitions interactively.
//
// Validation failures are reported to the user and the question is asked
// again; only I/O errors and context cancellation are returned.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/syssam/scaffold"
	"github.com/syssam/scaffold/schema"
	"github.com/syssam/scaffold/schema/field"
)

// Collector asks questions on out and reads answers from in, one per line.
// Reads block; ctx is checked before every question.
type Collector struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Collector.
func New(in io.Reader, out io.Writer) *Collector {
	return &Collector{in: bufio.NewScanner(in), out: out}
}

// Fields asks for fields until the user declines to add another.
// Zero fields is a valid result. Names clashing with a system column, with
// one of existing or with an earlier answer are re-prompted, including
// names that only clash once converted to Go, such as "createdAt".
func (c *Collector) Fields(ctx context.Context, existing ...field.Spec) ([]field.Spec, error) {
	var earlier []string
	for _, f := range existing {
		earlier = append(earlier, f.Name)
	}

	var fields []field.Spec
	for {
		q := "Add a field?"
		if len(fields) > 0 {
			q = "Add another field?"
		}
		more, err := c.Confirm(ctx, q, false)
		if err != nil {
			return nil, err
		}
		if !more {
			return fields, nil
		}
		name, err := c.name(ctx, earlier)
		if err != nil {
			return nil, err
		}
		typ, err := c.typ(ctx)
		if err != nil {
			return nil, err
		}
		spec, err := field.New(name, typ)
		if err != nil {
			return nil, err
		}
		earlier = append(earlier, name)
		fields = append(fields, spec)
	}
}

// Table asks for a table name, normalised as schema.TableName does.
func (c *Collector) Table(ctx context.Context) (string, error) {
	for {
		answer, err := c.ask(ctx, "Table name: ")
		if err != nil {
			return "", err
		}
		if name := schema.TableName(answer); name != "" {
			return name, nil
		}
		c.reject(scaffold.NewInputError("table", answer, schema.ErrEmptyName))
	}
}

// Confirm asks a yes/no question. An empty answer, or end of input,
// selects def.
func (c *Collector) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		answer, err := c.ask(ctx, question+" "+hint+" ")
		switch {
		case errors.Is(err, io.EOF):
			return def, nil
		case err != nil:
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(c.out, "Please answer y or n.")
	}
}

func (c *Collector) name(ctx context.Context, earlier []string) (string, error) {
	for {
		name, err := c.required(ctx, "Field name: ")
		if err != nil {
			return "", err
		}
		if err := field.ValidateName(name); err != nil {
			c.reject(err)
			continue
		}
		if err := schema.Conflict(name, earlier...); err != nil {
			c.reject(err)
			continue
		}
		return name, nil
	}
}

func (c *Collector) typ(ctx context.Context) (field.Type, error) {
	for {
		fmt.Fprintln(c.out, Menu())
		token, err := c.required(ctx, "Field type: ")
		if err != nil {
			return 0, err
		}
		t, err := field.ParseType(token)
		if err != nil {
			c.reject(err)
			continue
		}
		return t, nil
	}
}

// required reads an answer inside a field definition, where end of input
// is an error.
func (c *Collector) required(ctx context.Context, question string) (string, error) {
	answer, err := c.ask(ctx, question)
	if errors.Is(err, io.EOF) {
		return "", fmt.Errorf("prompt: input ended mid-field: %w", io.ErrUnexpectedEOF)
	}
	return answer, err
}

func (c *Collector) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, question)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("prompt: read answer: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Collector) reject(err error) {
	fmt.Fprintf(c.out, "  %v\n", err)
}

// Menu renders the type choices, one "alias) name  STORAGE" per line.
func Menu() string {
	var b strings.Builder
	for i, t := range field.Types() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %s) %-7s %s", t.Alias(), t, t.Mapping().Storage)
	}
	return b.String()
}
