// Package gen builds the Go source a scaffolded service is made of.
//
// # Architecture
//
// Generation runs per table:
//
//	schema.Table (validated name and fields)
//	        ↓
//	   Type (Go names, columns in storage order)
//	        ↓
//	   Dialect (jennifer declarations and route statements)
//	        ↓
//	   Code (gofmt-clean declarations + import paths)
//
// The Code and the route lines are spliced into the target file by
// package splice. The project writer renders the files of a new service
// (docker-compose.yml, go.mod, Dockerfile, main.go) in parallel.
//
// # Interface Hierarchy
//
//	Dialect
//	├── RecordGenerator (GenRecord, GenScanner)
//	├── HandlerGenerator (GenCreate, GenQuery, GenUpdate, GenDelete)
//	└── RouteGenerator (GenRoutes)
//
// Package gen/sql provides the PostgreSQL dialect with gin handlers.
//
// # Naming
//
// Table "order_items" yields the record OrderItem, the request
// CreateOrderItemRequest, the scanner scanOrderItem and the handlers
// createOrderItem, getOrderItem, listOrderItems, updateOrderItem and
// deleteOrderItem. Check rejects a table whose names clash with another
// table already present in the file.
//
// # Error Handling
//
// Invalid options return *ConfigError, generation failures
// *GenerationError and name clashes *CollisionError. All of them match
// their sentinel with errors.Is.
package gen
