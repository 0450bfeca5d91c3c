package sql

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/compiler/gen"
)

// insertQuery returns the INSERT statement of t. A table without user
// fields uses DEFAULT VALUES, since an empty column list is invalid.
func insertQuery(t *gen.Type) string {
	if len(t.Fields) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", t.TableIdent(), t.Selection())
	}
	cols := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		cols[i] = f.Ident()
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.TableIdent(), strings.Join(cols, ", "), gen.Placeholders(1, len(t.Fields)), t.Selection())
}

// genCreate generates the create handler. The response is the row as
// returned by the database, so server-assigned columns are accurate.
func genCreate(h gen.GeneratorHelper, t *gen.Type) []jen.Code {
	var body []jen.Code
	if len(t.Fields) > 0 {
		body = append(body, bindRequest(t)...)
	}
	body = append(body,
		scanOne(h, t, insertQuery(t), requestArgs(t)...),
		ifErrFail(t, "create"),
		reply("StatusCreated", jen.Id("v")),
	)
	return []jen.Code{
		handler(t.CreateHandler(), fmt.Sprintf("%s handles POST %s.", t.CreateHandler(), t.Path()), body...),
	}
}
