package sql

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/compiler/gen"
)

func selectQuery(t *gen.Type) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", t.Selection(), t.TableIdent(), t.ID.Ident())
}

func listQuery(t *gen.Type) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC", t.Selection(), t.TableIdent(), t.ID.Ident())
}

// genQuery generates the get and list handlers.
func genQuery(h gen.GeneratorHelper, t *gen.Type) []jen.Code {
	get := append(parseID(),
		scanOne(h, t, selectQuery(t), jen.Id("id")),
		ifNoRows(t),
		ifErrFail(t, "get"),
		reply("StatusOK", jen.Id("v")),
	)
	list := []jen.Code{
		jen.List(jen.Id("rows"), jen.Err()).Op(":=").Add(h.DB()).Dot("QueryContext").Call(ctx(), jen.Lit(listQuery(t))),
		ifErrFail(t, "list"),
		jen.Defer().Id("rows").Dot("Close").Call(),
		jen.Id("list").Op(":=").Index().Op("*").Id(t.Name).Values(),
		jen.For(jen.Id("rows").Dot("Next").Call()).Block(
			jen.List(jen.Id("v"), jen.Err()).Op(":=").Id(t.Scanner()).Call(jen.Id("rows").Dot("Scan")),
			ifErrFail(t, "list"),
			jen.Id("list").Op("=").Append(jen.Id("list"), jen.Id("v")),
		),
		jen.If(jen.Err().Op(":=").Id("rows").Dot("Err").Call(), jen.Err().Op("!=").Nil()).Block(fail(t, "list")...),
		reply("StatusOK", jen.Id("list")),
	}
	return []jen.Code{
		handler(t.GetHandler(), fmt.Sprintf("%s handles GET %s.", t.GetHandler(), t.ItemPath()), get...),
		handler(t.ListHandler(), fmt.Sprintf("%s handles GET %s, ordered by id.", t.ListHandler(), t.Path()), list...),
	}
}

// ifNoRows answers 404 when the single-row query found nothing.
func ifNoRows(t *gen.Type) *jen.Statement {
	return jen.If(jen.Qual(errorsPkg, "Is").Call(jen.Err(), jen.Qual(sqlPkg, "ErrNoRows"))).Block(notFound(t)...)
}
