package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/scaffold/schema/field"
)

// =============================================================================
// genRecord Tests
// =============================================================================

func TestGenRecord(t *testing.T) {
	codes := genRecord(newHelper(t), usersType(t))
	require.Len(t, codes, 2)

	code := render(codes)
	assert.Contains(t, code, "// User is a row of the users table.")
	assert.Contains(t, code, "type User struct")
	assert.Contains(t, code, "type CreateUserRequest struct")
	assert.Contains(t, code, "`json:\"id\"`")
	assert.Contains(t, code, "`json:\"created_at\"`")
	assert.Contains(t, code, "`json:\"modified_at\"`")
	assert.Contains(t, code, "`json:\"email\"`")
	assert.Contains(t, code, "time.Time")

	request := render(codes[1:])
	assert.NotContains(t, request, "created_at")
	assert.Contains(t, request, "Name")
	assert.Contains(t, request, "Email")
}

func TestGenRecord_HostTypes(t *testing.T) {
	typ := newType(t, "samples",
		field.MustNew("a", field.TypeString),
		field.MustNew("b", field.TypeText),
		field.MustNew("c", field.TypeInt),
		field.MustNew("d", field.TypeBigInt),
		field.MustNew("e", field.TypeFloat),
		field.MustNew("f", field.TypeDouble),
		field.MustNew("g", field.TypeBool),
		field.MustNew("h", field.TypeDate),
		field.MustNew("i", field.TypeJSON),
	)
	code := render(genRecord(newHelper(t), typ)[1:])
	for _, want := range []string{
		"A string", "B string", "C int32", "D int64", "E float32",
		"F float64", "G bool", "H time.Time", "I json.RawMessage",
	} {
		assert.Contains(t, code, want)
	}
}

func TestGenRecord_NoFields(t *testing.T) {
	code := render(genRecord(newHelper(t), newType(t, "widgets")))
	assert.Contains(t, code, "type Widget struct")
	assert.Contains(t, code, "type CreateWidgetRequest struct{}")
}

// =============================================================================
// genScanner Tests
// =============================================================================

func TestGenScanner(t *testing.T) {
	code := render(genScanner(newHelper(t), usersType(t)))
	assert.Contains(t, code, "func scanUser(scan func(...any) error) (*User, error)")
	assert.Contains(t, code, "scan(&v.ID, &v.CreatedAt, &v.ModifiedAt, &v.Name, &v.Email)")
	assert.Contains(t, code, "return &v, nil")
}
