package source

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yefei/zenorm-generate/internal/config"
	"github.com/yefei/zenorm-generate/internal/schema"
)

// document is the layout of a descriptor file. JSON documents are accepted
// too since they are valid YAML.
//
//	tables:
//	  - name: user_account
//	    columns:
//	      - { name: id, type: number, pk: true, required: true }
//	      - { name: email, type: string, comment: "login email" }
type document struct {
	Tables []fileTable `yaml:"tables"`
}

type fileTable struct {
	Name    string       `yaml:"name"`
	Columns []fileColumn `yaml:"columns"`
}

type fileColumn struct {
	PrimaryKey bool        `yaml:"pk"`
	Name       string      `yaml:"name"`
	Type       string      `yaml:"type"`
	Required   bool        `yaml:"required"`
	Comment    commentText `yaml:"comment"`
}

// commentText accepts either a single (possibly multi-line) string or a list
// of lines
type commentText []string

func (c *commentText) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = commentLines(node.Value)
		return nil
	case yaml.SequenceNode:
		var lines []string
		if err := node.Decode(&lines); err != nil {
			return err
		}
		*c = lines
		return nil
	default:
		return fmt.Errorf("line %d: comment must be a string or a list of strings", node.Line)
	}
}

// fileSource serves tables decoded from a descriptor document
type fileSource struct {
	tables []schema.Table
}

// OpenFile reads the descriptor named by cfg.File
func OpenFile(cfg *config.Config) (Source, error) {
	if cfg.File == "" {
		return nil, errors.New("file backend: file is required")
	}
	data, err := os.ReadFile(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("file backend: %w", err)
	}
	return ParseDocument(data)
}

// ParseDocument decodes a descriptor document
func ParseDocument(data []byte) (Source, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}

	tables := make([]schema.Table, 0, len(doc.Tables))
	for i, ft := range doc.Tables {
		if ft.Name == "" {
			return nil, fmt.Errorf("parse descriptor: table %d has no name", i)
		}
		t := schema.Table{Name: ft.Name}
		for j, fc := range ft.Columns {
			if fc.Name == "" {
				return nil, fmt.Errorf("parse descriptor: column %d of %s has no name", j, ft.Name)
			}
			typ := fc.Type
			if typ == "" {
				typ = TypeAny
			}
			t.Columns = append(t.Columns, schema.Column{
				PrimaryKey: fc.PrimaryKey,
				Name:       fc.Name,
				Type:       typ,
				Required:   fc.Required,
				Comment:    []string(fc.Comment),
			})
		}
		tables = append(tables, t)
	}

	return &fileSource{tables: tables}, nil
}

func (s *fileSource) Tables(ctx context.Context) iter.Seq2[schema.Table, error] {
	return func(yield func(schema.Table, error) bool) {
		for _, t := range s.tables {
			if err := ctx.Err(); err != nil {
				yield(schema.Table{}, err)
				return
			}
			if !yield(t, nil) {
				return
			}
		}
	}
}

func (s *fileSource) Close() error {
	return nil
}
