package sql

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/compiler/gen"
)

func deleteQuery(t *gen.Type) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = $1", t.TableIdent(), t.ID.Ident())
}

// genDelete generates the delete handler. Deleting a missing row answers
// 404 rather than succeeding silently.
func genDelete(h gen.GeneratorHelper, t *gen.Type) []jen.Code {
	body := append(parseID(),
		jen.List(jen.Id("res"), jen.Err()).Op(":=").Add(h.DB()).Dot("ExecContext").Call(ctx(), jen.Lit(deleteQuery(t)), jen.Id("id")),
		ifErrFail(t, "delete"),
		jen.List(jen.Id("n"), jen.Err()).Op(":=").Id("res").Dot("RowsAffected").Call(),
		ifErrFail(t, "delete"),
		jen.If(jen.Id("n").Op("==").Lit(0)).Block(notFound(t)...),
		reply("StatusOK", jen.Qual(ginPkg, "H").Values(jen.Dict{jen.Lit("deleted"): jen.Id("id")})),
	)
	return []jen.Code{
		handler(t.DeleteHandler(), fmt.Sprintf("%s handles DELETE %s.", t.DeleteHandler(), t.ItemPath()), body...),
	}
}
