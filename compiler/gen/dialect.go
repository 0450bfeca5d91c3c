package gen

import "github.com/dave/jennifer/jen"

// =============================================================================
// Interface Segregation: the block is built from a few focused generators
// =============================================================================

// RecordGenerator generates the data types of a table.
type RecordGenerator interface {
	// GenRecord generates the record struct and the create request.
	GenRecord(t *Type) []jen.Code
	// GenScanner generates the positional row scanner.
	GenScanner(t *Type) []jen.Code
}

// HandlerGenerator generates the HTTP handlers of a table.
type HandlerGenerator interface {
	// GenCreate generates the create handler.
	GenCreate(t *Type) []jen.Code
	// GenQuery generates the get and list handlers.
	GenQuery(t *Type) []jen.Code
	// GenUpdate generates the update handler.
	GenUpdate(t *Type) []jen.Code
	// GenDelete generates the delete handler.
	GenDelete(t *Type) []jen.Code
}

// RouteGenerator renders the route registrations of a table.
type RouteGenerator interface {
	// GenRoutes returns one statement per route, in registration order.
	GenRoutes(t *Type) []jen.Code
}

// Dialect is everything Generator needs to build a block.
type Dialect interface {
	RecordGenerator
	HandlerGenerator
	RouteGenerator
}

// GeneratorHelper exposes generator settings to dialect packages.
type GeneratorHelper interface {
	// Config returns the generator configuration.
	Config() *Config
	// Router returns the jennifer code of the router variable.
	Router() *jen.Statement
	// DB returns the jennifer code of the database handle.
	DB() *jen.Statement
}
