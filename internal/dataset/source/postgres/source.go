// Package postgres implements a source.ColumnSource backed by pgx.
package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"formatcheck/internal/dataset"
	"formatcheck/internal/dataset/source"
)

func init() {
	source.Register("postgres", New)
}

// Source reads one table's columns through a pgx connection pool.
type Source struct {
	pool *pgxpool.Pool
	cfg  source.Config
}

// New opens a pool for the configured DSN. Connectivity errors surface on the
// first query, not here; pgxpool connects lazily.
func New(ctx context.Context, cfg source.Config) (source.ColumnSource, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return &Source{pool: pool, cfg: cfg}, nil
}

// Close closes the connection pool.
func (s *Source) Close() {
	s.pool.Close()
}

// FetchColumns runs one SELECT and stringifies every cell. NULL becomes the
// empty string via dataset.Stringify.
func (s *Source) FetchColumns(ctx context.Context) (*dataset.Dataset, error) {
	rows, err := s.pool.Query(ctx, buildSelectSQL(s.cfg.Table, s.cfg.Columns, s.cfg.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0, len(rows.FieldDescriptions()))
	for _, fd := range rows.FieldDescriptions() {
		names = append(names, fd.Name)
	}

	ds := dataset.New(names)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = dataset.Stringify(v)
		}
		ds.AppendRow(row)
	}
	return ds, rows.Err()
}

// buildSelectSQL constructs the sampling query.
//
// Pure and deterministic so placeholder-free quoting and LIMIT handling can
// be unit tested without a database.
func buildSelectSQL(table string, columns []string, limit int) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(columns) == 0 {
		b.WriteString("*")
	} else {
		for i, c := range columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(pgIdent(c))
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(pgIdent(table))
	if limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(limit))
	}
	return b.String()
}

func pgIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
