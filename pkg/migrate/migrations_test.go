package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/buybuddy-backend/pkg/migrate"
)

func embedded(t *testing.T) fs.FS {
	t.Helper()
	src, err := migrate.Source("")
	require.NoError(t, err)
	return src
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	src := embedded(t)
	require.NoError(t, migrate.Validate(src))

	names, err := fs.Glob(src, "*.sql")
	require.NoError(t, err)
	assert.Len(t, names, 5)
}

func TestEmbeddedMatchesDisk(t *testing.T) {
	onDisk, err := migrate.Source("migrations")
	require.NoError(t, err)

	names, err := fs.Glob(onDisk, "*.sql")
	require.NoError(t, err)
	for _, name := range names {
		want, err := fs.ReadFile(onDisk, name)
		require.NoError(t, err)
		got, err := fs.ReadFile(embedded(t), name)
		require.NoError(t, err, name)
		assert.Equal(t, string(want), string(got), name)
	}
}

func TestOrdersMigrationDeclaresConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE TABLE IF NOT EXISTS shipments",
		"CONSTRAINT shipments_tracking_code_key UNIQUE (tracking_code)",
		"address_id uuid REFERENCES addresses(id) ON DELETE SET NULL",
		"product_id uuid REFERENCES products(id) ON DELETE SET NULL",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestUsersMigrationEnforcesSingleDefaultAddress(t *testing.T) {
	assert.Contains(t, readMigration(t, "*_create_users.sql"), "ON addresses (user_id) WHERE is_default")
}

func TestCatalogMigrationGuardsStock(t *testing.T) {
	assert.Contains(t, readMigration(t, "*_create_catalog.sql"), "CHECK (stock >= 0)")
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)

	path, err := migrate.Create(dir, "Add Coupons!", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260504030201_add_coupons.sql"), path)
	require.NoError(t, migrate.Validate(os.DirFS(dir)))

	_, err = migrate.Create(dir, "add coupons", now)
	assert.Error(t, err, "same version must not be overwritten")

	_, err = migrate.Create(dir, "!!!", now)
	assert.Error(t, err)
}

func TestValidateRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, migrate.Validate(os.DirFS(dir)))

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_only_up.sql"), []byte("-- +goose Up\n"), 0o644))
	err := migrate.Validate(os.DirFS(dir))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "goose Down"))
}

func TestParseVersion(t *testing.T) {
	v, err := migrate.ParseVersion("20260301090300")
	require.NoError(t, err)
	assert.EqualValues(t, 20260301090300, v)

	for _, bad := range []string{"", "abc", "2026"} {
		_, err := migrate.ParseVersion(bad)
		assert.Error(t, err, bad)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	src := embedded(t)
	matches, err := fs.Glob(src, pattern)
	require.NoError(t, err)
	require.NotEmpty(t, matches, pattern)
	data, err := fs.ReadFile(src, matches[0])
	require.NoError(t, err)
	return string(data)
}
