package dataset

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		wantCols []string
		wantRows map[string][]string
	}{
		{
			name:     "array_of_objects",
			in:       `[{"email":"a@x.com","age":30},{"email":"b@x.com","age":41}]`,
			wantCols: []string{"age", "email"},
			wantRows: map[string][]string{
				"email": {"a@x.com", "b@x.com"},
				"age":   {"30", "41"},
			},
		},
		{
			name:     "ndjson_stream",
			in:       `{"a":"1"}` + "\n" + `{"a":"2"}` + "\n",
			wantCols: []string{"a"},
			wantRows: map[string][]string{"a": {"1", "2"}},
		},
		{
			name:     "envelope_with_records",
			in:       `{"status":"ok","rows":[{"a":"1"},{"a":"2"}],"meta":[1,2,3]}`,
			wantCols: []string{"a"},
			wantRows: map[string][]string{"a": {"1", "2"}},
		},
		{
			name:     "nested_objects_flattened",
			in:       `[{"name":"ann","address":{"city":"oslo","zip":"0150"}}]`,
			wantCols: []string{"address.city", "address.zip", "name"},
			wantRows: map[string][]string{
				"address.city": {"oslo"},
				"name":         {"ann"},
			},
		},
		{
			name:     "missing_keys_become_empty",
			in:       `[{"a":"1","b":"x"},{"a":"2"}]`,
			wantCols: []string{"a", "b"},
			wantRows: map[string][]string{
				"a": {"1", "2"},
				"b": {"x", ""},
			},
		},
		{
			name:     "null_becomes_empty",
			in:       `[{"a":null}]`,
			wantCols: []string{"a"},
			wantRows: map[string][]string{"a": {""}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d, err := LoadJSON(strings.NewReader(tc.in))
			if err != nil {
				t.Fatalf("LoadJSON() err=%v", err)
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

func TestLoadJSON_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{name: "scalar_root", in: `42`},
		{name: "malformed", in: `{"a":`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := LoadJSON(strings.NewReader(tc.in)); err == nil {
				t.Fatalf("LoadJSON() err=nil, want error")
			}
		})
	}
}

func TestLoadJSON_EmptyInput(t *testing.T) {
	t.Parallel()

	d, err := LoadJSON(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadJSON() err=%v", err)
	}
	if got := d.Columns(); len(got) != 0 {
		t.Fatalf("Columns()=%v, want empty", got)
	}
}
