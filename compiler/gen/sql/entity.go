package sql

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/scaffold/compiler/gen"
)

// genRecord generates the record struct and the create request struct.
func genRecord(_ gen.GeneratorHelper, t *gen.Type) []jen.Code {
	record := jen.Commentf("%s is a row of the %s table.", t.Name, t.TableName()).Line().
		Type().Id(t.Name).StructFunc(func(group *jen.Group) {
		for _, f := range t.Columns() {
			group.Id(f.StructField).Add(f.GoType()).Tag(f.Tags())
		}
	})
	request := jen.Commentf("%s is the JSON body accepted by %s and %s.", t.Request(), t.CreateHandler(), t.UpdateHandler()).Line().
		Type().Id(t.Request()).StructFunc(func(group *jen.Group) {
		for _, f := range t.Fields {
			group.Id(f.StructField).Add(f.GoType()).Tag(f.Tags())
		}
	})
	return []jen.Code{record, request}
}

// genScanner generates the scanner reading one row in column order. It
// takes the Scan method value of either *sql.Row or *sql.Rows.
func genScanner(_ gen.GeneratorHelper, t *gen.Type) []jen.Code {
	dests := make([]jen.Code, 0, len(t.Columns()))
	for _, f := range t.Columns() {
		dests = append(dests, jen.Op("&").Id("v").Dot(f.StructField))
	}
	return []jen.Code{
		jen.Comment(fmt.Sprintf("%s reads one %s row in column order.", t.Scanner(), t.TableName())).Line().
			Func().Id(t.Scanner()).
			Params(jen.Id("scan").Func().Params(jen.Op("...").Any()).Error()).
			Params(jen.Op("*").Id(t.Name), jen.Error()).
			Block(
				jen.Var().Id("v").Id(t.Name),
				jen.If(
					jen.Err().Op(":=").Id("scan").Call(dests...),
					jen.Err().Op("!=").Nil(),
				).Block(jen.Return(jen.Nil(), jen.Err())),
				jen.Return(jen.Op("&").Id("v"), jen.Nil()),
			),
	}
}
