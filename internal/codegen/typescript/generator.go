package typescript

import (
	"fmt"
	"strings"

	"github.com/yefei/zenorm-generate/internal/codegen/artifact"
	"github.com/yefei/zenorm-generate/internal/codegen/writer"
	"github.com/yefei/zenorm-generate/internal/config"
	"github.com/yefei/zenorm-generate/internal/runheader"
)

// FileExtension is appended to every generated file name
const FileExtension = ".ts"

// IndexName is the base name of the index file
const IndexName = "index"

const indent = "  " // TypeScript typically uses 2 spaces

// Generator emits zenorm model code in TypeScript
type Generator struct {
	ormModule            string
	tablesFilename       string
	repositoriesFilename string
	globalFilename       string
	generateRepositories bool
	declarations         []config.ModuleDeclaration
	bindQuery            *config.QueryBinding
}

// NewGenerator creates a TypeScript generator for cfg. cfg is expected to
// have defaults applied; malformed bindQuery or module paths are rejected.
func NewGenerator(cfg *config.Config) (*Generator, error) {
	g := &Generator{
		ormModule:            cfg.OrmModule,
		tablesFilename:       cfg.TablesFilename,
		repositoriesFilename: cfg.RepositoriesFilename,
		globalFilename:       cfg.GlobalFilename,
		generateRepositories: cfg.GenerateRepositories,
	}
	if g.ormModule == "" {
		g.ormModule = config.DefaultOrmModule
	}

	if cfg.BindQuery != "" {
		b, err := config.ParseBindQuery(cfg.BindQuery)
		if err != nil {
			return nil, err
		}
		g.bindQuery = &b
	}

	for _, m := range cfg.DeclareRepositoriesToModules {
		d, err := config.ParseModulePath(m)
		if err != nil {
			return nil, err
		}
		g.declarations = append(g.declarations, d)
	}

	return g, nil
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "typescript"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return FileExtension
}

// TablesFile renders the machine-owned table shape declarations
func (g *Generator) TablesFile(h runheader.Header, blocks []string) artifact.Artifact {
	return artifact.Artifact{
		Name:   g.tablesFilename + FileExtension,
		Policy: artifact.AlwaysOverwrite,
		Render: func() string {
			w := writer.NewWriter(indent)
			g.writeHeader(w, h)
			if g.globalFilename != "" {
				w.WriteLinef("import _Global from %s;", quote("./"+g.globalFilename))
			}
			w.BlankLine()
			for _, b := range blocks {
				w.Write(b)
				w.BlankLine()
			}
			return w.String()
		},
	}
}

// GlobalFile renders the shared base class. ok is false when no global file is configured.
func (g *Generator) GlobalFile() (a artifact.Artifact, ok bool) {
	if g.globalFilename == "" {
		return artifact.Artifact{}, false
	}
	return artifact.Artifact{
		Name:   g.globalFilename + FileExtension,
		Policy: artifact.CreateIfAbsent,
		Render: func() string {
			return "export default class Global {}\n"
		},
	}, true
}

// IndexFile renders the barrel file re-exporting the generated modules
func (g *Generator) IndexFile() artifact.Artifact {
	return artifact.Artifact{
		Name:   IndexName + FileExtension,
		Policy: artifact.CreateIfAbsent,
		Render: func() string {
			w := writer.NewWriter(indent)
			w.WriteLinef("export * from %s;", quote("./"+g.tablesFilename))
			w.WriteLinef("export * from %s;", quote("./"+g.repositoriesFilename))
			return w.String()
		},
	}
}

func (g *Generator) writeHeader(w *writer.Writer, h runheader.Header) {
	w.WriteComment("Code generated by zenorm-generate. DO NOT EDIT.")
	w.WriteComment("This file is rewritten every time the database structure is regenerated.")
	w.WriteComment("create at: " + h.CreatedAt.Format(runheader.TimeLayout))
	w.WriteComment("create by: " + h.CreatedBy())
	w.WriteComment("database: " + h.Database)
}

// quote renders s as a single-quoted string literal
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return "'" + s + "'"
}

// propertyName returns name unchanged when it is a valid identifier and quoted otherwise
func propertyName(name string) string {
	if isIdentifier(name) {
		return name
	}
	return quote(name)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func typeArgs(args ...string) string {
	return fmt.Sprintf("<%s>", strings.Join(args, ", "))
}
