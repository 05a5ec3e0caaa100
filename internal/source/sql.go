package source

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"github.com/yefei/zenorm-generate/internal/config"
	"github.com/yefei/zenorm-generate/internal/schema"
)

// dialect describes how one database engine exposes its catalog.
//
// columnsQuery must select, in order: column name, base data type, full column
// type, nullability ("YES"/"NO"), primary-key flag (0/1) and comment.
type dialect struct {
	name string
	open func(cfg *config.Config) (db *sql.DB, catalog string, err error)

	tablesQuery  string
	columnsQuery string
	// catalogArg reports whether both queries take the catalog name as their
	// first argument
	catalogArg bool

	mapType func(dataType, columnType string) string
}

// sqlSource reads table metadata through database/sql
type sqlSource struct {
	db      *sql.DB
	dialect dialect
	catalog string
}

func factoryFor(d dialect) Factory {
	return func(cfg *config.Config) (Source, error) {
		db, catalog, err := d.open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", d.name, err)
		}
		return newSQLSource(db, d, catalog), nil
	}
}

func newSQLSource(db *sql.DB, d dialect, catalog string) *sqlSource {
	return &sqlSource{db: db, dialect: d, catalog: catalog}
}

// Tables lists table names once, then reads columns one table at a time as
// the consumer pulls.
func (s *sqlSource) Tables(ctx context.Context) iter.Seq2[schema.Table, error] {
	return func(yield func(schema.Table, error) bool) {
		names, err := s.tableNames(ctx)
		if err != nil {
			yield(schema.Table{}, err)
			return
		}

		for _, name := range names {
			cols, err := s.columns(ctx, name)
			if err != nil {
				yield(schema.Table{}, fmt.Errorf("read columns of %s: %w", name, err))
				return
			}
			if !yield(schema.Table{Name: name, Columns: cols}, nil) {
				return
			}
		}
	}
}

func (s *sqlSource) Close() error {
	return s.db.Close()
}

func (s *sqlSource) args(rest ...any) []any {
	if s.dialect.catalogArg {
		return append([]any{s.catalog}, rest...)
	}
	return rest
}

func (s *sqlSource) tableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.tablesQuery, s.args()...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

func (s *sqlSource) columns(ctx context.Context, table string) ([]schema.Column, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.columnsQuery, s.args(table)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []schema.Column
	for rows.Next() {
		var (
			name, dataType, columnType, nullable string
			pk                                   int
			comment                              sql.NullString
		)
		if err := rows.Scan(&name, &dataType, &columnType, &nullable, &pk, &comment); err != nil {
			return nil, err
		}
		cols = append(cols, schema.Column{
			PrimaryKey: pk != 0,
			Name:       name,
			Type:       s.dialect.mapType(dataType, columnType),
			Required:   nullable == "NO",
			Comment:    commentLines(comment.String),
		})
	}
	return cols, rows.Err()
}
