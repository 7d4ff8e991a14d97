//go:build integration

package sqlstore

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to STOREFRONT_TEST_DATABASE_URL using
// STOREFRONT_TEST_DATABASE_DRIVER (default postgres), resets the schema and
// applies all migrations.
func openTestDB(t *testing.T) (*sql.DB, Dialect) {
	t.Helper()

	url := os.Getenv("STOREFRONT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("STOREFRONT_TEST_DATABASE_URL not set")
	}
	driver := os.Getenv("STOREFRONT_TEST_DATABASE_DRIVER")
	if driver == "" {
		driver = "postgres"
	}

	d, err := DialectFor(driver)
	require.NoError(t, err)

	db, err := sql.Open(d.DriverName, d.PrepareDSN(url))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, Migrate(ctx, db, d, "reset", nil))
	require.NoError(t, Migrate(ctx, db, d, "up", nil))

	return db, d
}

func TestUserStoreIntegration(t *testing.T) {
	db, d := openTestDB(t)
	ctx := context.Background()
	s := NewUserStore(db, d, nil)

	u, err := domain.NewUser("Ada", "ada@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, u))
	assert.Positive(t, u.ID)

	dup, err := domain.NewUser("Other", "ADA@example.com", "hash")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Create(ctx, dup), store.ErrEmailExists)

	got, err := s.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	name := "Ada"
	updated, err := s.Update(ctx, u.ID, domain.UserUpdate{Name: &name})
	require.NoError(t, err, "unchanged values still match the row")
	assert.Equal(t, "Ada", updated.Name)

	_, err = s.Update(ctx, u.ID+1000, domain.UserUpdate{Name: &name})
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.Delete(ctx, u.ID))
	assert.ErrorIs(t, s.Delete(ctx, u.ID), store.ErrUserNotFound)
}

func TestProductStoreIntegration(t *testing.T) {
	db, d := openTestDB(t)
	ctx := context.Background()
	s := NewProductStore(db, d, nil)

	p, err := domain.NewProduct("Lamp", "desk lamp", 19.99, 4)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, p))
	assert.Positive(t, p.ID)

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 19.99, got.Price, 0.001)

	price := 9.5
	updated, err := s.Update(ctx, p.ID, domain.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.InDelta(t, 9.5, updated.Price, 0.001)
	assert.Equal(t, 4, updated.Stock)

	require.NoError(t, s.Delete(ctx, p.ID))
	_, err = s.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}
