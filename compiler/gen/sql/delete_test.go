package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenDelete(t *testing.T) {
	assert.Equal(t, "DELETE FROM users WHERE id = $1", deleteQuery(usersType(t)))

	code := render(genDelete(newHelper(t), usersType(t)))
	assert.Contains(t, code, "// deleteUser handles DELETE /users/:id.")
	assert.Contains(t, code, "func deleteUser(c *gin.Context)")
	assert.Contains(t, code, `res, err := db.ExecContext(c.Request.Context(), "DELETE FROM users WHERE id = $1", id)`)
	assert.Contains(t, code, "n, err := res.RowsAffected()")
	assert.Contains(t, code, "if n == 0")
	assert.Contains(t, code, `gin.H{"error": "User not found"}`)
	assert.Contains(t, code, `c.JSON(http.StatusOK, gin.H{"deleted": id})`)
}
