package typescript

import (
	"encoding/json"

	"github.com/yefei/zenorm-generate/internal/codegen/artifact"
	"github.com/yefei/zenorm-generate/internal/codegen/writer"
	"github.com/yefei/zenorm-generate/internal/naming"
	"github.com/yefei/zenorm-generate/internal/schema"
)

// Binding is the table binding a model stub hands to the ORM
type Binding struct {
	PrimaryKey string
	// Name is the model's slug
	Name string
	// Table is the physical table name, set only when it differs from Name
	Table string
}

// BindingFor derives the binding record for a compiled model
func BindingFor(m schema.Model) Binding {
	b := Binding{PrimaryKey: m.PrimaryKey, Name: m.Slug}
	if naming.NeedsTableRef(m.Table) {
		b.Table = m.Table
	}
	return b
}

// Compile turns one table into its shape block, its model record and the
// create-once stub artifact. It has no side effects.
func (g *Generator) Compile(t schema.Table) (string, schema.Model, artifact.Artifact) {
	pk, pkType := t.PrimaryKey()
	m := schema.Model{
		Table:          t.Name,
		Slug:           naming.Slug(t.Name),
		TypeName:       naming.TypeName(t.Name),
		PrimaryKey:     pk,
		PrimaryKeyType: pkType,
	}

	return g.tableBlock(t, m), m, g.stub(m)
}

func (g *Generator) tableBlock(t schema.Table, m schema.Model) string {
	w := writer.NewWriter(indent)

	opener := "export class " + m.TypeName + "Table {"
	if g.globalFilename != "" {
		opener = "export class " + m.TypeName + "Table extends _Global {"
	}

	w.WriteBlock(opener, "}", func() {
		columns, _ := json.Marshal(t.ColumnNames())
		w.WriteLinef("static columns = %s;", columns)
		for _, c := range t.Columns {
			w.WriteDocBlock(c.Comment)
			mark := "?"
			if c.Required {
				mark = "!"
			}
			w.WriteLinef("%s%s: %s;", propertyName(c.Name), mark, c.Type)
		}
	})

	return w.String()
}

func (g *Generator) stub(m schema.Model) artifact.Artifact {
	return artifact.Artifact{
		Name:   m.Slug + FileExtension,
		Policy: artifact.CreateIfAbsent,
		Render: func() string {
			b := BindingFor(m)
			w := writer.NewWriter(indent)
			w.WriteLinef("import { model } from %s;", quote(g.ormModule))
			w.WriteLinef("import { %sTable } from %s;", m.TypeName, quote("./"+g.tablesFilename))
			w.BlankLine()
			w.WriteBlock("@model({", "})", func() {
				w.WriteLinef("pk: %s,", quote(b.PrimaryKey))
				w.WriteLinef("name: %s,", quote(b.Name))
				if b.Table != "" {
					w.WriteLinef("table: %s,", quote(b.Table))
				}
			})
			w.WriteLinef("export default class %s extends %sTable {", m.TypeName, m.TypeName)
			w.WriteLine("}")
			return w.String()
		},
	}
}
