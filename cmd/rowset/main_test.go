package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alp4ka/rowset"
	"github.com/Alp4ka/rowset/export"
)

const peopleJSON = `[
	{"id": 1, "name": "Ann", "age": 31, "city": "Oslo"},
	{"id": 2, "name": "bob", "age": 25, "city": "Rome"},
	{"id": 3, "name": "Cid", "age": 42, "city": "Oslo"},
	{"id": 4, "name": "Dee", "age": 38}
]`

const peopleSchema = `columns:
  - name: id
    type: integer
    nullable: false
  - name: name
    type: string
  - name: city
    type: string
    nullable: false
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func jsonIDs(t *testing.T, out string) []string {
	t.Helper()

	var ids []string
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var row struct {
			ID json.Number `json:"id"`
		}
		require.NoError(t, json.Unmarshal([]byte(sc.Text()), &row))
		ids = append(ids, row.ID.String())
	}

	return ids
}

func Test_Query(t *testing.T) {
	people := writeTemp(t, "people.json", peopleJSON)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "filter sort and columns as csv",
			args: []string{"query", people, "--where", "age > 30", "--sort", "age desc", "--format", "csv", "--columns", "id,name"},
			want: "\"id\",\"name\"\n\"3\",\"Cid\"\n\"4\",\"Dee\"\n\"1\",\"Ann\"\n",
		},
		{
			name: "secondary sort key",
			args: []string{"query", people, "--where", "city == 'Oslo'|'Rome'", "--sort", "city desc", "--sort", "age", "-f", "tsv", "-c", "name"},
			want: "\"name\"\n\"bob\"\n\"Ann\"\n\"Cid\"\n",
		},
		{
			name: "custom comparator",
			args: []string{"query", people, "--where", "name cel('a.startsWith(b)') 'C'|'D'", "-f", "csv", "-c", "id"},
			want: "\"id\"\n\"3\"\n\"4\"\n",
		},
		{
			name: "schema drops invalid rows and orders columns",
			args: []string{"query", people, "--schema", writeTemp(t, "people.yaml", peopleSchema), "-f", "csv", "--where", "id <= 2"},
			want: "\"id\",\"name\",\"city\"\n\"1\",\"Ann\",\"Oslo\"\n\"2\",\"bob\",\"Rome\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func Test_Query_Pagination(t *testing.T) {
	people := writeTemp(t, "people.json", peopleJSON)

	out, logs, err := run(t, "", "query", people, "--sort", "id", "--rows-per-page", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, jsonIDs(t, out))

	token := rowset.NewPageToken(2).String()
	assert.Contains(t, logs, "next_page_token="+token)

	out, logs, err = run(t, "", "query", people, "--sort", "id", "--rows-per-page", "2", "--page-token", token)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, jsonIDs(t, out))
	assert.NotContains(t, logs, "next_page_token")

	out, _, err = run(t, "", "query", people, "--sort", "id desc", "--rows-per-page", "3", "--page", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, jsonIDs(t, out))

	_, _, err = run(t, "", "query", people, "--page", "2", "--page-token", token)
	assert.Error(t, err)
}

func Test_Query_Stdin(t *testing.T) {
	jsonl := `{"id": 1, "tags": ["a", "b"]}
{"id": 2, "tags": ["c"]}
`
	out, _, err := run(t, jsonl, "query", "-", "-f", "csv", "--sort", "id desc")
	require.NoError(t, err)
	assert.Equal(t, "\"id\",\"tags\"\n\"2\",\"c\"\n\"1\",\"a;b\"\n", out)
}

func Test_Query_Compressed(t *testing.T) {
	people := writeTemp(t, "people.json", peopleJSON)

	out, _, err := run(t, "", "query", people, "-f", "tsv", "-c", "name", "--compress", "zstd", "--where", "id === 1")
	require.NoError(t, err)

	r, err := export.NewReader(strings.NewReader(out), export.CompressionZstd)
	require.NoError(t, err)
	defer r.Close()

	plain, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "\"name\"\n\"Ann\"\n", string(plain))
}

func Test_Query_Config(t *testing.T) {
	people := writeTemp(t, "people.json", peopleJSON)
	t.Setenv("ROWSET_EXPORT_FORMAT", "csv")
	t.Setenv("ROWSET_PAGE_SIZE", "1")

	out, _, err := run(t, "", "query", people, "-c", "id", "--page", "3")
	require.NoError(t, err)
	assert.Equal(t, "\"id\"\n\"3\"\n", out)
}

func Test_Query_Errors(t *testing.T) {
	people := writeTemp(t, "people.json", peopleJSON)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"query", filepath.Join(t.TempDir(), "missing.json")}},
		{"bad filter", []string{"query", people, "--where", "age >"}},
		{"bad sort", []string{"query", people, "--sort", "age sideways"}},
		{"bad format", []string{"query", people, "--format", "xml"}},
		{"bad compression", []string{"query", people, "--compress", "rar"}},
		{"bad cel", []string{"query", people, "--where", "name cel('a +') 'x'"}},
		{"bad token", []string{"query", people, "--page-token", "!!"}},
		{"bad log level", []string{"query", people, "--log-level", "loud"}},
		{"missing schema", []string{"query", people, "--schema", filepath.Join(t.TempDir(), "none.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func Test_Validate(t *testing.T) {
	people := writeTemp(t, "people.json", peopleJSON)
	yamlSchema := writeTemp(t, "people.yaml", peopleSchema)

	out, _, err := run(t, "", "validate", people, "--schema", yamlSchema)
	require.NoError(t, err)
	assert.Contains(t, out, "row 4: column 'city'")
	assert.Contains(t, out, "3 of 4 rows valid")

	_, _, err = run(t, "", "validate", people, "--schema", yamlSchema, "--strict")
	assert.Error(t, err)

	jsonSchema := writeTemp(t, "people.json", `{"type": "object", "required": ["id", "name"]}`)
	out, _, err = run(t, "", "validate", people, "--schema", jsonSchema, "--strict")
	require.NoError(t, err)
	assert.Equal(t, "4 of 4 rows valid\n", out)

	_, _, err = run(t, "", "validate", people)
	assert.Error(t, err, "schema is required")
}

func Test_readRows(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"empty", "  \n", 0, false},
		{"array", `[{"a": 1}, {"a": 2}]`, 2, false},
		{"lines", "{\"a\": 1}\n\n{\"a\": 2}\n{\"a\": 3}", 3, false},
		{"array of scalars", `[1, 2]`, 0, true},
		{"broken line", "{\"a\": 1}\n{\"a\":", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := readRows(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}
}
