package dataset

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		opt      CSVOptions
		wantCols []string
		wantRows map[string][]string
	}{
		{
			name:     "basic",
			in:       "email,code\na@x.com,A1\nb@x.com,B2\n",
			wantCols: []string{"email", "code"},
			wantRows: map[string][]string{
				"email": {"a@x.com", "b@x.com"},
				"code":  {"A1", "B2"},
			},
		},
		{
			name:     "trims_header_and_values",
			in:       " email , code \n a@x.com , A1 \n",
			wantCols: []string{"email", "code"},
			wantRows: map[string][]string{
				"email": {"a@x.com"},
				"code":  {"A1"},
			},
		},
		{
			name:     "misaligned_rows_skipped",
			in:       "a,b\n1,2\nonly-one\n3,4,5\n6,7\n",
			wantCols: []string{"a", "b"},
			wantRows: map[string][]string{
				"a": {"1", "6"},
				"b": {"2", "7"},
			},
		},
		{
			name:     "semicolon_delimiter",
			in:       "a;b\n1;2\n",
			opt:      CSVOptions{Comma: ';'},
			wantCols: []string{"a", "b"},
			wantRows: map[string][]string{
				"a": {"1"},
				"b": {"2"},
			},
		},
		{
			name:     "duplicate_headers_suffixed",
			in:       "id,id,email\n1,2,a@x.com\n3,4,b@x.com\n",
			wantCols: []string{"id", "id.2", "email"},
			wantRows: map[string][]string{
				"id":    {"1", "3"},
				"id.2":  {"2", "4"},
				"email": {"a@x.com", "b@x.com"},
			},
		},
		{
			name:     "duplicate_headers_colliding_with_suffix",
			in:       "id,id,id.2\n1,2,3\n",
			wantCols: []string{"id", "id.2", "id.2.2"},
			wantRows: map[string][]string{
				"id":     {"1"},
				"id.2":   {"2"},
				"id.2.2": {"3"},
			},
		},
		{
			name:     "lazy_quotes_tolerated",
			in:       "a,b\nsay \"hi\",2\n",
			wantCols: []string{"a", "b"},
			wantRows: map[string][]string{
				"a": {`say "hi"`},
				"b": {"2"},
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d, err := LoadCSV(strings.NewReader(tc.in), tc.opt)
			if err != nil {
				t.Fatalf("LoadCSV() err=%v", err)
			}
			if got := d.Columns(); !reflect.DeepEqual(got, tc.wantCols) {
				t.Fatalf("Columns()=%v, want %v", got, tc.wantCols)
			}
			for col, want := range tc.wantRows {
				got, ok := d.Column(col)
				if !ok || !reflect.DeepEqual(got, want) {
					t.Fatalf("Column(%q)=%v ok=%t, want %v", col, got, ok, want)
				}
			}
		})
	}
}

func TestLoadCSV_EmptyInput(t *testing.T) {
	t.Parallel()

	d, err := LoadCSV(strings.NewReader(""), CSVOptions{})
	if err != nil {
		t.Fatalf("LoadCSV() err=%v", err)
	}
	if got := d.Columns(); len(got) != 0 {
		t.Fatalf("Columns()=%v, want empty", got)
	}
}

func TestLoadCSV_Latin1(t *testing.T) {
	t.Parallel()

	// 0xE9 is "é" in ISO-8859-1; invalid as a standalone UTF-8 byte.
	in := "name\ncaf\xe9\n"
	d, err := LoadCSV(strings.NewReader(in), CSVOptions{Charset: "latin1"})
	if err != nil {
		t.Fatalf("LoadCSV() err=%v", err)
	}
	names, _ := d.Column("name")
	if !reflect.DeepEqual(names, []string{"café"}) {
		t.Fatalf("Column(name)=%v, want [café]", names)
	}
}

func TestLoadCSV_UnsupportedCharset(t *testing.T) {
	t.Parallel()

	_, err := LoadCSV(strings.NewReader("a\n1\n"), CSVOptions{Charset: "ebcdic"})
	if err == nil || !strings.Contains(err.Error(), "unsupported charset") {
		t.Fatalf("LoadCSV() err=%v, want unsupported charset", err)
	}
}
