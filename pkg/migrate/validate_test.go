package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	cases := map[string]struct {
		name    string
		content string
		wantErr string
	}{
		"bad filename": {
			name:    "create_things.sql",
			content: "-- +goose Up\n-- +goose Down\n",
			wantErr: "invalid migration filename",
		},
		"missing down": {
			name:    "20250101000000_things.sql",
			content: "-- +goose Up\nSELECT 1;\n",
			wantErr: "missing",
		},
		"down before up": {
			name:    "20250101000000_things.sql",
			content: "-- +goose Down\nSELECT 1;\n-- +goose Up\nSELECT 1;\n",
			wantErr: "Down before Up",
		},
		"unbalanced statements": {
			name:    "20250101000000_things.sql",
			content: "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n",
			wantErr: "unbalanced",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tc.name), []byte(tc.content), 0o644))
			err := ValidateDir(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateDirRejectsDuplicateVersions(t *testing.T) {
	dir := t.TempDir()
	body := []byte("-- +goose Up\n-- +goose Down\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_a.sql"), body, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_b.sql"), body, 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version")
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	path, err := createSQLMigrationAt(dir, "Add Order Notes!", at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20250301123000_add_order_notes.sql"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "-- +goose Up"))
	require.NoError(t, ValidateDir(dir))

	_, err = createSQLMigrationAt(dir, "Add Order Notes!", at)
	require.Error(t, err, "same version must not be overwritten")

	_, err = createSQLMigrationAt(dir, "!!!", at)
	require.Error(t, err)
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("20250301120200")
	require.NoError(t, err)
	assert.Equal(t, int64(20250301120200), v)

	for _, bad := range []string{"", "2025", "20251301120200", "seed"} {
		_, err := ParseVersion(bad)
		assert.Error(t, err, bad)
	}
}
