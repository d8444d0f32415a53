package apply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "simple statements",
			sql:  "CREATE TABLE a (id int);\nCREATE TABLE b (id int);",
			want: []string{"CREATE TABLE a (id int)", "CREATE TABLE b (id int)"},
		},
		{
			name: "no trailing semicolon",
			sql:  "SELECT 1;\nSELECT 2",
			want: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name: "empty statements dropped",
			sql:  " ; ;\n;SELECT 1;;",
			want: []string{"SELECT 1"},
		},
		{
			name: "semicolon in string literal",
			sql:  "INSERT INTO t VALUES ('a;b', 'it''s; fine');SELECT 1;",
			want: []string{"INSERT INTO t VALUES ('a;b', 'it''s; fine')", "SELECT 1"},
		},
		{
			name: "backslash escapes in E string",
			sql:  `INSERT INTO t VALUES (E'it\'s; fine', e'\\');SELECT 1;`,
			want: []string{`INSERT INTO t VALUES (E'it\'s; fine', e'\\')`, "SELECT 1"},
		},
		{
			name: "backslash is literal in standard string",
			sql:  `INSERT INTO t VALUES ('C:\');SELECT 1;`,
			want: []string{`INSERT INTO t VALUES ('C:\')`, "SELECT 1"},
		},
		{
			name: "identifier ending in e is not an E string",
			sql:  `SELECT name FROM t WHERE code = type'a\';SELECT 1;`,
			want: []string{`SELECT name FROM t WHERE code = type'a\'`, "SELECT 1"},
		},
		{
			name: "semicolon in quoted identifier",
			sql:  `SELECT "odd;name" FROM t;`,
			want: []string{`SELECT "odd;name" FROM t`},
		},
		{
			name: "line comments removed",
			sql:  "-- header; with semicolon\nSELECT 1; -- trailing;\nSELECT 2;",
			want: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name: "nested block comment",
			sql:  "/* outer /* inner; */ still; */SELECT 1;",
			want: []string{"SELECT 1"},
		},
		{
			name: "comment only script",
			sql:  "-- nothing here\n/* or here */\n",
			want: nil,
		},
		{
			name: "anonymous dollar quote",
			sql: `CREATE FUNCTION f() RETURNS trigger AS $$
BEGIN
  NEW.updated_at = NOW();
  RETURN NEW;
END;
$$ LANGUAGE plpgsql;
SELECT 1;`,
			want: []string{
				"CREATE FUNCTION f() RETURNS trigger AS $$\nBEGIN\n  NEW.updated_at = NOW();\n  RETURN NEW;\nEND;\n$$ LANGUAGE plpgsql",
				"SELECT 1",
			},
		},
		{
			name: "tagged dollar quote containing $$",
			sql:  "DO $body$ BEGIN PERFORM '$$;'; END $body$;SELECT 2;",
			want: []string{"DO $body$ BEGIN PERFORM '$$;'; END $body$", "SELECT 2"},
		},
		{
			name: "positional parameter is not a tag",
			sql:  "PREPARE p AS SELECT $1;EXECUTE p(1);",
			want: []string{"PREPARE p AS SELECT $1", "EXECUTE p(1)"},
		},
		{
			name: "dollar inside identifier",
			sql:  "SELECT a$b$ FROM t;SELECT 2;",
			want: []string{"SELECT a$b$ FROM t", "SELECT 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.sql))
		})
	}
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Checksum(""))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Checksum("abc"))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "CREATE TABLE a (", firstLine("CREATE TABLE a (\n  id int\n)"))
	assert.Equal(t, "SELECT 1", firstLine("SELECT 1"))
}

func TestSchemaApplicationVersion(t *testing.T) {
	assert.Equal(t, "ba7816bf8f01", SchemaApplication{Checksum: Checksum("abc")}.Version())
	assert.Equal(t, "short", SchemaApplication{Checksum: "short"}.Version())
}
