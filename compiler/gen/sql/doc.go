// Package sql generates gin handlers over database/sql for PostgreSQL.
//
// Usage:
//
//	g, err := sql.New()
//	code, err := g.Block(table)   // record, request, scanner, handlers
//	routes, err := g.Routes(table) // r.POST("/users", createUser), ...
//
// Generated code for table "users":
//
//	type User struct { ID, CreatedAt, ModifiedAt, <fields> }
//	type CreateUserRequest struct { <fields> }
//	func scanUser(scan func(...any) error) (*User, error)
//	func createUser(c *gin.Context) // POST   /users      201
//	func listUsers(c *gin.Context)  // GET    /users      200
//	func getUser(c *gin.Context)    // GET    /users/:id  200, 404
//	func updateUser(c *gin.Context) // PUT    /users/:id  200, 404
//	func deleteUser(c *gin.Context) // DELETE /users/:id  200, 404
//
// Every statement returns the full row with RETURNING, so responses carry
// server-assigned values. Malformed ids and bodies answer 400; database
// failures are logged with slog and answer 500 without detail.
package sql
