package sql

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/compiler/gen"
)

// updateQuery returns the UPDATE statement of t. The id is bound after the
// fields. A table without user fields assigns id to itself so the update
// still happens and fires the timestamp trigger.
func updateQuery(t *gen.Type) string {
	if len(t.Fields) == 0 {
		id := t.ID.Ident()
		return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = $1 RETURNING %s", t.TableIdent(), id, id, id, t.Selection())
	}
	sets := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		sets[i] = fmt.Sprintf("%s = $%d", f.Ident(), i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		t.TableIdent(), strings.Join(sets, ", "), t.ID.Ident(), len(t.Fields)+1, t.Selection())
}

// genUpdate generates the update handler.
func genUpdate(h gen.GeneratorHelper, t *gen.Type) []jen.Code {
	body := parseID()
	if len(t.Fields) > 0 {
		body = append(body, bindRequest(t)...)
	}
	args := append(requestArgs(t), jen.Id("id"))
	body = append(body,
		scanOne(h, t, updateQuery(t), args...),
		ifNoRows(t),
		ifErrFail(t, "update"),
		reply("StatusOK", jen.Id("v")),
	)
	return []jen.Code{
		handler(t.UpdateHandler(), fmt.Sprintf("%s handles PUT %s.", t.UpdateHandler(), t.ItemPath()), body...),
	}
}
