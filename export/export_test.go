package export

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alp4ka/rowset"
)

func Test_ParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"tsv", FormatTSV, false},
		{"tdt", FormatTSV, false},
		{" txt ", FormatTSV, false},
		{"xlsx", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Write(t *testing.T) {
	rows := []rowset.Row{
		{"id": 1, "name": "a, b", "tags": []string{"x", "y"}},
		{"id": 2, "name": "tab\there", "meta": map[string]any{"k": 1}},
		{"id": 0, "name": nil},
	}
	columns := []string{"id", "name", "tags", "meta"}

	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{
			name:   "csv",
			format: FormatCSV,
			want: `"id","name","tags","meta"` + "\n" +
				`"1","a; b","x;y",""` + "\n" +
				"\"2\",\"tab\there\",\"\",\"{\"k\":1}\"\n" +
				`"0","","",""`,
		},
		{
			name:   "tsv",
			format: FormatTSV,
			want: "\"id\"\t\"name\"\t\"tags\"\t\"meta\"\n" +
				"\"1\"\t\"a, b\"\t\"x,y\"\t\"\"\n" +
				"\"2\"\t\"tab\\there\"\t\"\"\t\"{\"k\":1}\"\n" +
				"\"0\"\t\"\"\t\"\"\t\"\"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, tt.format, columns, rows))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	assert.ErrorIs(t, Write(io.Discard, FormatCSV, nil, rows), ErrNoColumns)
	assert.Error(t, Write(io.Discard, "xml", columns, rows))
}

func Test_Cursor(t *testing.T) {
	store := rowset.NewRowStore(
		rowset.WithLogger(rowset.NoopLogger()),
		rowset.WithRows([]rowset.Row{{"v": 2}, {"v": 3}, {"v": 1}}),
	)
	c := store.NewCursor().
		Where("v", rowset.OperatorGT, 1).
		OrderBy("v", rowset.DirectionDESC).
		Execute()

	var buf bytes.Buffer
	require.NoError(t, Cursor(&buf, FormatCSV, []string{"v"}, c))
	assert.Equal(t, "\"v\"\n\"3\"\n\"2\"", buf.String())
}

func Test_NewWriter(t *testing.T) {
	payload := bytes.Repeat([]byte(`"a","b"`+"\n"), 200)

	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionZstd, CompressionLZ4} {
		t.Run(string(c), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, c)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if c != CompressionNone {
				assert.Less(t, buf.Len(), len(payload))
			}

			r, err := NewReader(&buf, c)
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}

	_, err := NewWriter(io.Discard, "brotli")
	assert.Error(t, err)
	_, err = NewReader(bytes.NewReader(nil), "brotli")
	assert.Error(t, err)
}

func Test_ParseCompression(t *testing.T) {
	c, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	c, err = ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)
	assert.Equal(t, ".zst", c.Extension())

	_, err = ParseCompression("rar")
	assert.Error(t, err)
}
