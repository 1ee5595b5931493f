package params

import (
	"fmt"
	"reflect"
	"testing"
)

func dollar(i int) string { return fmt.Sprintf("$%d", i) }
func question(int) string { return "?" }

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []Param
	}{
		{
			name: "simple parameters",
			sql:  "SELECT * FROM users WHERE id = :id AND name = :name",
			want: []Param{{Name: "id"}, {Name: "name"}},
		},
		{
			name: "defaults",
			sql:  "SELECT * FROM fruit WHERE kind = :kind|'Green apple' LIMIT :limit|10",
			want: []Param{
				{Name: "kind", Default: "Green apple", HasDefault: true},
				{Name: "limit", Default: "10", HasDefault: true},
			},
		},
		{
			name: "duplicate keeps first position",
			sql:  "SELECT :a, :b, :a|5",
			want: []Param{{Name: "a", Default: "5", HasDefault: true}, {Name: "b"}},
		},
		{
			name: "comments ignored",
			sql:  "SELECT 1 -- :hidden\n/* :also_hidden */ WHERE x = :shown",
			want: []Param{{Name: "shown"}},
		},
		{
			name: "casts and times ignored",
			sql:  "SELECT '10:30', created::date FROM t WHERE id = :id",
			want: []Param{{Name: "id"}},
		},
		{
			name: "literals and quoted identifiers ignored",
			sql:  `SELECT 'key:value', "col:x", 'it''s :not' FROM t WHERE id = :id`,
			want: []Param{{Name: "id"}},
		},
		{
			name: "comment markers inside literals",
			sql:  "SELECT 'a--b', '/* :x */' FROM t WHERE id = :id -- :hidden",
			want: []Param{{Name: "id"}},
		},
		{
			name: "quotes inside comments",
			sql:  "SELECT :a -- don't\nFROM t WHERE b = :b",
			want: []Param{{Name: "a"}, {Name: "b"}},
		},
		{
			name: "no parameters",
			sql:  "SELECT 1",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.sql); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name        string
		sql         string
		placeholder Placeholder
		wantSQL     string
		wantNames   []string
	}{
		{
			name:        "numbered placeholders reuse index",
			sql:         "SELECT * FROM t WHERE a = :a OR b = :a AND c = :c|3",
			placeholder: dollar,
			wantSQL:     "SELECT * FROM t WHERE a = $1 OR b = $1 AND c = $2",
			wantNames:   []string{"a", "c"},
		},
		{
			name:        "positional placeholders repeat",
			sql:         "SELECT * FROM t WHERE a = :a OR b = :a AND c = :c",
			placeholder: question,
			wantSQL:     "SELECT * FROM t WHERE a = ? OR b = ? AND c = ?",
			wantNames:   []string{"a", "a", "c"},
		},
		{
			name:        "comments stripped",
			sql:         "SELECT :x -- trailing :y",
			placeholder: question,
			wantSQL:     "SELECT ?",
			wantNames:   []string{"x"},
		},
		{
			name:        "comment marker inside literal kept",
			sql:         "SELECT 'a--b', :x",
			placeholder: dollar,
			wantSQL:     "SELECT 'a--b', $1",
			wantNames:   []string{"x"},
		},
		{
			name:        "colon inside literal kept",
			sql:         "SELECT * FROM kv WHERE k = 'key:value' AND v = :v /* :c */",
			placeholder: question,
			wantSQL:     "SELECT * FROM kv WHERE k = 'key:value' AND v = ?",
			wantNames:   []string{"v"},
		},
		{
			name:        "no parameters",
			sql:         "SELECT 'a--b'",
			placeholder: dollar,
			wantSQL:     "SELECT 'a--b'",
			wantNames:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotNames := Rewrite(tt.sql, tt.placeholder)
			if gotSQL != tt.wantSQL {
				t.Errorf("Rewrite() sql = %q, want %q", gotSQL, tt.wantSQL)
			}
			if !reflect.DeepEqual(gotNames, tt.wantNames) {
				t.Errorf("Rewrite() names = %v, want %v", gotNames, tt.wantNames)
			}
		})
	}
}

func TestBind(t *testing.T) {
	sql, args, err := Bind("SELECT * FROM t WHERE a = :a AND b = :b|7", map[string]any{"a": 1}, dollar)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if sql != "SELECT * FROM t WHERE a = $1 AND b = $2" {
		t.Errorf("Bind() sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{1, "7"}) {
		t.Errorf("Bind() args = %v", args)
	}

	if _, _, err := Bind("SELECT :missing", nil, dollar); err == nil {
		t.Error("Bind() with missing value should fail")
	}
}

func TestBindEmptyDefault(t *testing.T) {
	sql, args, err := Bind("SELECT * FROM t WHERE note = :note|''", nil, question)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if sql != "SELECT * FROM t WHERE note = ?" {
		t.Errorf("Bind() sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{""}) {
		t.Errorf("Bind() args = %#v, want [\"\"]", args)
	}
}

func TestArgs(t *testing.T) {
	declared := []Param{
		{Name: "a"},
		{Name: "b", Default: "", HasDefault: true},
		{Name: "c", Default: "3", HasDefault: true},
	}

	tests := []struct {
		name    string
		names   []string
		values  map[string]any
		want    []any
		wantErr bool
	}{
		{"values win over defaults", []string{"a", "c"}, map[string]any{"a": 1, "c": 9}, []any{1, 9}, false},
		{"empty default used", []string{"b"}, nil, []any{""}, false},
		{"default used", []string{"c", "c"}, nil, []any{"3", "3"}, false},
		{"no value no default", []string{"a"}, nil, nil, true},
		{"undeclared", []string{"z"}, nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Args(tt.names, tt.values, declared)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Args() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Args() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestResolveAndMissing(t *testing.T) {
	defaults := map[string]string{"id": "", "limit": "10", "name": ""}

	values := Resolve(defaults, map[string]string{"id": "4", "unknown": "x"})
	want := map[string]string{"id": "4", "limit": "10", "name": ""}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("Resolve() = %v, want %v", values, want)
	}

	if got := Missing(defaults, values); !reflect.DeepEqual(got, []string{"name"}) {
		t.Errorf("Missing() = %v, want [name]", got)
	}

	if err := Validate(map[string]string{"unknown": "x"}, defaults); err == nil {
		t.Error("Validate() should reject unknown parameters")
	}
	if err := Validate(map[string]string{"id": "1"}, defaults); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestRequired(t *testing.T) {
	sql := "SELECT * FROM t WHERE a = :a AND note = :note|'' AND n = :n|3"

	got := Required(sql)
	if !reflect.DeepEqual(got, map[string]string{"a": ""}) {
		t.Errorf("Required() = %v, want map[a:]", got)
	}

	values := Resolve(Defaults(sql), map[string]string{"a": "1"})
	if missing := Missing(Required(sql), values); len(missing) != 0 {
		t.Errorf("Missing() = %v, want none", missing)
	}
}

func TestPositional(t *testing.T) {
	got := Positional("SELECT * FROM t WHERE b = :b AND a = :a", []string{"2", "1", "extra"})
	want := map[string]string{"b": "2", "a": "1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Positional() = %v, want %v", got, want)
	}
}

func TestDisplay(t *testing.T) {
	got := Display("SELECT * FROM t WHERE id = :id AND name = :name|'x' AND k = :k",
		map[string]string{"id": "42", "name": "O'Brien"})
	want := "SELECT * FROM t WHERE id = 42 AND name = 'O''Brien' AND k = :k"
	if got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}

	got = Display("SELECT 'at :id', created::date FROM t WHERE id = :id", map[string]string{"id": "7"})
	want = "SELECT 'at :id', created::date FROM t WHERE id = 7"
	if got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}
}
