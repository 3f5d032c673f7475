package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alp4ka/rowset"
)

func Test_Load(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
		want Config
	}{
		{
			name: "defaults",
			want: Config{
				Log:    LogConfig{Level: "info"},
				Page:   PageConfig{Size: rowset.DefaultRowsPerPage},
				Export: ExportConfig{Format: FormatJSON, Compression: "none"},
			},
		},
		{
			name: "environment",
			env: map[string]string{
				"ROWSET_LOG_LEVEL":          "debug",
				"ROWSET_PAGE_SIZE":          "5000",
				"ROWSET_EXPORT_FORMAT":      "tsv",
				"ROWSET_EXPORT_COMPRESSION": "zstd",
			},
			want: Config{
				Log:    LogConfig{Level: "debug"},
				Page:   PageConfig{Size: rowset.MaxRowsPerPage},
				Export: ExportConfig{Format: "tsv", Compression: "zstd"},
			},
		},
		{
			name: "file under environment",
			env:  map[string]string{"ROWSET_PAGE_SIZE": "7"},
			file: "log:\n  level: warn\npage:\n  size: 50\nexport:\n  format: csv\n",
			want: Config{
				Log:    LogConfig{Level: "warn"},
				Page:   PageConfig{Size: 7},
				Export: ExportConfig{Format: "csv", Compression: "none"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "rowset.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))
			}

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func Test_Load_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		path string
	}{
		{"bad level", map[string]string{"ROWSET_LOG_LEVEL": "loud"}, ""},
		{"bad format", map[string]string{"ROWSET_EXPORT_FORMAT": "xml"}, ""},
		{"bad compression", map[string]string{"ROWSET_EXPORT_COMPRESSION": "rar"}, ""},
		{"missing file", nil, filepath.Join(os.TempDir(), "rowset-missing-config.yaml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(tt.path)
			assert.Error(t, err)
		})
	}
}

func Test_Config_LogLevel(t *testing.T) {
	cfg := Config{Log: LogConfig{Level: "TRACE"}}
	assert.Equal(t, rowset.LogLevelTrace, cfg.LogLevel())
}
