package sql

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/compiler/gen"
)

// Import paths of the packages generated handlers use.
const (
	ginPkg     = "github.com/gin-gonic/gin"
	sqlPkg     = "database/sql"
	httpPkg    = "net/http"
	slogPkg    = "log/slog"
	errorsPkg  = "errors"
	strconvPkg = "strconv"
)

// ctx returns the request context expression.
func ctx() *jen.Statement {
	return jen.Id("c").Dot("Request").Dot("Context").Call()
}

// ginContext returns the handler parameter list.
func ginContext() *jen.Statement {
	return jen.Id("c").Op("*").Qual(ginPkg, "Context")
}

// reply writes a JSON response with the given net/http status constant.
func reply(status string, body jen.Code) *jen.Statement {
	return jen.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, status), body)
}

// errorBody returns gin.H{"error": msg}.
func errorBody(msg jen.Code) *jen.Statement {
	return jen.Qual(ginPkg, "H").Values(jen.Dict{jen.Lit("error"): msg})
}

// fail logs err with the operation and table, then answers 500 with a
// body that carries no detail.
func fail(t *gen.Type, op string) []jen.Code {
	return []jen.Code{
		jen.Qual(slogPkg, "Error").Call(
			jen.Lit(fmt.Sprintf("%s %s failed", op, t.TableName())),
			jen.Lit("error"), jen.Err(),
		),
		reply("StatusInternalServerError", errorBody(jen.Lit("internal server error"))),
		jen.Return(),
	}
}

// ifErrFail returns "if err != nil { <fail> }".
func ifErrFail(t *gen.Type, op string) *jen.Statement {
	return jen.If(jen.Err().Op("!=").Nil()).Block(fail(t, op)...)
}

// notFound answers 404.
func notFound(t *gen.Type) []jen.Code {
	return []jen.Code{
		reply("StatusNotFound", errorBody(jen.Lit(t.Name+" not found"))),
		jen.Return(),
	}
}

// parseID reads the :id path parameter and answers 400 when it is not an
// integer.
func parseID() []jen.Code {
	return []jen.Code{
		jen.List(jen.Id("id"), jen.Err()).Op(":=").Qual(strconvPkg, "ParseInt").Call(
			jen.Id("c").Dot("Param").Call(jen.Lit("id")), jen.Lit(10), jen.Lit(64),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			reply("StatusBadRequest", errorBody(jen.Lit("invalid id"))),
			jen.Return(),
		),
	}
}

// bindRequest decodes the JSON body into req and answers 400 on failure.
func bindRequest(t *gen.Type) []jen.Code {
	return []jen.Code{
		jen.Var().Id("req").Id(t.Request()),
		jen.If(
			jen.Err().Op(":=").Id("c").Dot("ShouldBindJSON").Call(jen.Op("&").Id("req")),
			jen.Err().Op("!=").Nil(),
		).Block(
			reply("StatusBadRequest", errorBody(jen.Err().Dot("Error").Call())),
			jen.Return(),
		),
	}
}

// requestArgs returns req.<Field> for every user field, in column order.
func requestArgs(t *gen.Type) []jen.Code {
	args := make([]jen.Code, len(t.Fields))
	for i, f := range t.Fields {
		args[i] = jen.Id("req").Dot(f.StructField)
	}
	return args
}

// scanOne runs a single-row query through the scanner into v, err.
func scanOne(h gen.GeneratorHelper, t *gen.Type, query string, args ...jen.Code) *jen.Statement {
	return jen.List(jen.Id("v"), jen.Err()).Op(":=").Id(t.Scanner()).Call(
		h.DB().Dot("QueryRowContext").Call(append([]jen.Code{ctx(), jen.Lit(query)}, args...)...).Dot("Scan"),
	)
}

// handler declares "func name(c *gin.Context) { body }" with a doc comment.
func handler(name, doc string, body ...jen.Code) *jen.Statement {
	return jen.Comment(doc).Line().Func().Id(name).Params(ginContext()).Block(body...)
}
