package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFormat(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    string
		wantErr bool
	}{
		{name: "csv", file: "prices.csv", want: FormatCSV},
		{name: "upper case xlsx", file: "Prices.XLSX", want: FormatXLSX},
		{name: "directory prefix", file: "uploads/data.csv", want: FormatCSV},
		{name: "legacy excel", file: "prices.xls", wantErr: true},
		{name: "no extension", file: "prices", wantErr: true},
		{name: "excel lock file", file: "~$prices.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DataFormat(tt.file)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileValidator_ValidateFile(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(t *testing.T) string
		errorContains string
	}{
		{
			name: "readable file",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "in.json")
				require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
				return path
			},
		},
		{
			name:          "missing file",
			setup:         func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.csv") },
			errorContains: "does not exist",
		},
		{
			name:          "directory",
			setup:         func(t *testing.T) string { return t.TempDir() },
			errorContains: "is a directory",
		},
	}

	v := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFile(tt.setup(t))
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestFileValidator_ValidateOutputFile(t *testing.T) {
	v := NewFileValidator(nil)

	t.Run("creates missing directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "out")
		require.NoError(t, v.ValidateOutputFile(filepath.Join(dir, "result.json")))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("parent is a file", func(t *testing.T) {
		parent := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(parent, nil, 0644))
		assert.Error(t, v.ValidateOutputFile(filepath.Join(parent, "result.json")))
	})
}
