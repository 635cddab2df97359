// Package mssql implements a source.ColumnSource for Microsoft SQL Server.
package mssql

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"formatcheck/internal/dataset"
	"formatcheck/internal/dataset/source"
)

func init() {
	source.Register("mssql", New)
}

type Source struct {
	db  *sql.DB
	cfg source.Config
}

// New constructs a Source using database/sql and the "sqlserver" driver.
// Connectivity is validated via PingContext.
func New(ctx context.Context, cfg source.Config) (source.ColumnSource, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
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

// buildSelectSQL constructs the sampling query. SQL Server has no LIMIT
// clause; row limits use TOP (n).
func buildSelectSQL(table string, columns []string, limit int) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if limit > 0 {
		b.WriteString("TOP (")
		b.WriteString(strconv.Itoa(limit))
		b.WriteString(") ")
	}
	if len(columns) == 0 {
		b.WriteString("*")
	} else {
		for i, c := range columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(bracketIdent(c))
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(bracketIdent(table))
	return b.String()
}

func bracketIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
