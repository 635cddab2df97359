// Package sqlite implements a source.ColumnSource backed by modernc.org/sqlite.
//
// The driver is pure Go, so this backend also serves as the no-server option
// for local files and tests.
package sqlite

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"formatcheck/internal/dataset"
	"formatcheck/internal/dataset/source"
)

func init() {
	source.Register("sqlite", New)
}

type Source struct {
	db  *sql.DB
	cfg source.Config
}

func New(ctx context.Context, cfg source.Config) (source.ColumnSource, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Source{db: db, cfg: cfg}, nil
}

func (s *Source) Close() { _ = s.db.Close() }

func (s *Source) FetchColumns(ctx context.Context) (*dataset.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, buildSelectSQL(s.cfg.Table, s.cfg.Columns, s.cfg.Limit))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	ds := dataset.New(names)
	vals := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
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
			b.WriteString(sqlIdent(c))
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(sqlIdent(table))
	if limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(limit))
	}
	return b.String()
}

func sqlIdent(id string) string {
	// SQLite supports "quoted identifiers"
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
