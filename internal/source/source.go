// Package source reads table metadata from databases and descriptor files
// and exposes it as an ordered stream.
package source

import (
	"context"
	"iter"

	"github.com/yefei/zenorm-generate/internal/schema"
)

// Source produces table descriptors. Tables are yielded in a stable order and
// a failure is reported as the final element of the stream.
type Source interface {
	Tables(ctx context.Context) iter.Seq2[schema.Table, error]
	Close() error
}

// Collect drains a stream into a slice, stopping at the first error
func Collect(seq iter.Seq2[schema.Table, error]) ([]schema.Table, error) {
	var tables []schema.Table
	for t, err := range seq {
		if err != nil {
			return tables, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}
