// Package schema holds the table metadata consumed by the generator.
package schema

// Table describes one database table as reported by a metadata source
type Table struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// Column describes a single table column
type Column struct {
	// PrimaryKey marks the key column. At most one column per table is expected to set it.
	PrimaryKey bool   `json:"pk" yaml:"pk"`
	Name       string `json:"name" yaml:"name"`
	// Type is the semantic output type, e.g. "number", "string", "boolean"
	Type     string   `json:"type" yaml:"type"`
	Required bool     `json:"required" yaml:"required"`
	Comment  []string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

const (
	// DefaultPrimaryKey is used when no column is flagged as primary
	DefaultPrimaryKey = "id"
	// DefaultPrimaryKeyType pairs with DefaultPrimaryKey
	DefaultPrimaryKeyType = "number"
)

// PrimaryKey returns the name and type of the table's key column, falling back to
// ("id", "number") when none is flagged. If several columns are flagged the last wins.
func (t Table) PrimaryKey() (name, typ string) {
	name, typ = DefaultPrimaryKey, DefaultPrimaryKeyType
	for _, c := range t.Columns {
		if c.PrimaryKey {
			name, typ = c.Name, c.Type
		}
	}
	return name, typ
}

// ColumnNames returns the column names in declaration order
func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Model is the per-table result the generator accumulates during a run
type Model struct {
	// Table is the raw table name as reported by the source
	Table          string
	Slug           string
	TypeName       string
	PrimaryKey     string
	PrimaryKeyType string
}
