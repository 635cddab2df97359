package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSniffFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "html_document", in: "  \n<html><table></table></html>", want: "html"},
		{name: "json_object", in: "{\"rows\": []}", want: "json"},
		{name: "json_array", in: "\t[{\"a\": 1}]", want: "json"},
		{name: "csv_header", in: "email,phone\na@x.com,1\n", want: "csv"},
		{name: "empty_defaults_csv", in: "", want: "csv"},
		{name: "whitespace_only_defaults_csv", in: " \n\t", want: "csv"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := sniffFormat([]byte(tc.in)); got != tc.want {
				t.Fatalf("sniffFormat(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty_is_nil", in: "", want: nil},
		{name: "whitespace_is_nil", in: "   ", want: nil},
		{name: "trims_segments", in: " email , phone ,,id", want: []string{"email", "phone", "id"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := splitList(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("splitList(%q)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCommaRune(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    rune
		wantErr bool
	}{
		{name: "comma", in: ",", want: ','},
		{name: "semicolon", in: ";", want: ';'},
		{name: "tab_escape", in: `\t`, want: '\t'},
		{name: "literal_tab", in: "\t", want: '\t'},
		{name: "empty_rejected", in: "", wantErr: true},
		{name: "multichar_rejected", in: ";;", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := commaRune(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("commaRune(%q) err=nil, want error", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("commaRune(%q) err=%v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("commaRune(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "postgres", want: "postgres"},
		{in: "PostgreSQL", want: "postgres"},
		{in: "sqlserver", want: "mssql"},
		{in: " MSSQL ", want: "mssql"},
		{in: "sqlite", want: "sqlite"},
		{in: "oracle", want: "oracle"},
	}

	for _, tc := range tests {
		if got := normalizeBackend(tc.in); got != tc.want {
			t.Fatalf("normalizeBackend(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveDSN_Precedence(t *testing.T) {
	old := os.Getenv("DSN")
	t.Cleanup(func() { _ = os.Setenv("DSN", old) })

	_ = os.Setenv("DSN", "env-dsn")
	if got := resolveDSN("flag-dsn"); got != "flag-dsn" {
		t.Fatalf("resolveDSN with flag=%q, want flag-dsn", got)
	}
	if got := resolveDSN(""); got != "env-dsn" {
		t.Fatalf("resolveDSN from env=%q, want env-dsn", got)
	}

	_ = os.Setenv("DSN", "  ")
	if got := resolveDSN(""); got != "" {
		t.Fatalf("resolveDSN blank env=%q, want empty", got)
	}
}

func TestSQLConfig_ForwardsColumnSelection(t *testing.T) {
	old := os.Getenv("DSN")
	t.Cleanup(func() { _ = os.Setenv("DSN", old) })
	_ = os.Setenv("DSN", "")

	cfg := sqlConfig("postgresql", "dsn://x", "accounts", []string{"email", "phone"}, 500)

	if cfg.Kind != "postgres" {
		t.Fatalf("Kind=%q, want postgres", cfg.Kind)
	}
	if cfg.DSN != "dsn://x" || cfg.Table != "accounts" || cfg.Limit != 500 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Columns, []string{"email", "phone"}) {
		t.Fatalf("Columns=%v, want the requested selection pushed down", cfg.Columns)
	}

	if got := sqlConfig("sqlite", "", "t", nil, 0); got.Columns != nil {
		t.Fatalf("Columns=%v, want nil for all-columns", got.Columns)
	}
}

func TestLoadFile_SniffsAndParses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "input.csv")
	content := "email,code\na@x.com,A1\nb@x.com,B2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ds, err := loadFile(path, "", "table", "", ",")
	if err != nil {
		t.Fatalf("loadFile() err=%v", err)
	}
	if got := ds.Columns(); !reflect.DeepEqual(got, []string{"email", "code"}) {
		t.Fatalf("Columns()=%v, want [email code]", got)
	}
	emails, _ := ds.Column("email")
	if !reflect.DeepEqual(emails, []string{"a@x.com", "b@x.com"}) {
		t.Fatalf("Column(email)=%v", emails)
	}
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "input.bin")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := loadFile(path, "parquet", "table", "", ","); err == nil {
		t.Fatalf("loadFile() err=nil, want unsupported format error")
	}
}
