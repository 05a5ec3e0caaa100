package typescript

import (
	"fmt"
	"strings"

	"github.com/yefei/zenorm-generate/internal/codegen/artifact"
	"github.com/yefei/zenorm-generate/internal/codegen/writer"
	"github.com/yefei/zenorm-generate/internal/config"
	"github.com/yefei/zenorm-generate/internal/runheader"
	"github.com/yefei/zenorm-generate/internal/schema"
)

// operation is a convenience method forwarded to the bound repository
type operation struct {
	Name string
	// Params is the parameter list; %[1]s is the model type, %[2]s the key type
	Params string
	// Args is the argument list passed through to the repository
	Args string
}

// staticOperations are emitted on every model class when bindQuery is set
var staticOperations = []operation{
	{Name: "find", Params: "where?: Where<%[1]s>", Args: "where"},
	{Name: "findByKey", Params: "key: %[2]s", Args: "key"},
	{Name: "getByKey", Params: "key: %[2]s", Args: "key"},
	{Name: "count", Params: "where?: Where<%[1]s>", Args: "where"},
	{Name: "exists", Params: "where?: Where<%[1]s>", Args: "where"},
	{Name: "create", Params: "data: Partial<%[1]s>", Args: "data"},
	{Name: "createAndGet", Params: "data: Partial<%[1]s>", Args: "data"},
}

// instanceOperations delegate from a model instance to its repository
var instanceOperations = []operation{
	{Name: "save", Args: "this"},
	{Name: "update", Params: "data: Partial<%[1]s>", Args: "this, data"},
	{Name: "delete", Args: "this"},
}

// RepositoriesFile renders the always-regenerated aggregator: one exported
// class per model, plus the optional multi-tenant container and its module
// augmentations.
func (g *Generator) RepositoriesFile(h runheader.Header, models []schema.Model) artifact.Artifact {
	return artifact.Artifact{
		Name:   g.repositoriesFilename + FileExtension,
		Policy: artifact.AlwaysOverwrite,
		Render: func() string {
			w := writer.NewWriter(indent)
			g.writeHeader(w, h)
			g.writeImports(w, models)
			w.BlankLine()

			for _, m := range models {
				g.writeModelClass(w, m)
				w.BlankLine()
			}

			if g.generateRepositories {
				g.writeRepositories(w, models)
				for _, d := range g.declarations {
					w.BlankLine()
					writeDeclaration(w, d)
				}
				w.BlankLine()
			}

			return w.String()
		},
	}
}

func (g *Generator) writeImports(w *writer.Writer, models []schema.Model) {
	names := []string{}
	if g.generateRepositories {
		names = append(names, "QueryParam")
	}
	if g.bindQuery != nil {
		names = append(names, "Where")
	}
	names = append(names, "createRepositoryQuery")
	w.WriteLinef("import { %s } from %s;", strings.Join(names, ", "), quote(g.ormModule))

	if g.bindQuery != nil {
		w.WriteLinef("import { %s } from %s;", g.bindQuery.Export, quote(g.bindQuery.Module))
	}
	for _, m := range models {
		w.WriteLinef("import _%s from %s;", m.TypeName, quote("./"+m.Slug))
	}
}

func (g *Generator) writeModelClass(w *writer.Writer, m schema.Model) {
	w.WriteBlock("export class "+m.TypeName+" extends _"+m.TypeName+" {", "}", func() {
		w.WriteLinef("static query = createRepositoryQuery%s(%s);", typeArgs(m.TypeName, m.PrimaryKeyType), m.TypeName)
		if g.bindQuery == nil {
			return
		}

		w.WriteLinef("static get repository() { return %s.query(%s); }", m.TypeName, g.bindQuery.Export)
		for _, op := range staticOperations {
			w.WriteLinef("static %s(%s) { return %s.repository.%s(%s); }",
				op.Name, op.params(m), m.TypeName, op.Name, op.Args)
		}
		for _, op := range instanceOperations {
			w.WriteLinef("%s(%s) { return %s.repository.%s(%s); }",
				op.Name, op.params(m), m.TypeName, op.Name, op.Args)
		}
	})
}

func (g *Generator) writeRepositories(w *writer.Writer, models []schema.Model) {
	w.WriteBlock("export class Repositories {", "}", func() {
		w.WriteLine("constructor(private _query: QueryParam) {}")
		for _, m := range models {
			w.WriteLinef("get %sRepository() { return %s.query(this._query); }", m.TypeName, m.TypeName)
		}
	})
}

// writeDeclaration augments the container interface of module d.Module with a
// Repositories member. Dotted container paths open nested namespaces.
func writeDeclaration(w *writer.Writer, d config.ModuleDeclaration) {
	w.WriteBlock("declare module "+quote(d.Module)+" {", "}", func() {
		path := strings.Split(d.Container, ".")
		for _, ns := range path[:len(path)-1] {
			w.WriteLinef("namespace %s {", ns)
			w.Indent()
		}
		w.WriteBlock("interface "+path[len(path)-1]+" {", "}", func() {
			w.WriteLinef("%s: Repositories;", d.Member)
		})
		for range path[:len(path)-1] {
			w.Dedent()
			w.WriteLine("}")
		}
	})
}

func (op operation) params(m schema.Model) string {
	if op.Params == "" {
		return ""
	}
	return fmt.Sprintf(op.Params, m.TypeName, m.PrimaryKeyType)
}
