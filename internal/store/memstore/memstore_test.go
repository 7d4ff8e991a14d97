package memstore

import (
	"context"
	"testing"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(name, email, "hash")
	require.NoError(t, err)
	return u
}

func TestUserStoreLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore()

	ada := newUser(t, "Ada", "ada@example.com")
	require.NoError(t, s.Create(ctx, ada))
	assert.Equal(t, int64(1), ada.ID)

	bob := newUser(t, "Bob", "bob@example.com")
	require.NoError(t, s.Create(ctx, bob))
	assert.Equal(t, int64(2), bob.ID)

	err := s.Create(ctx, newUser(t, "Ada Again", "ADA@example.com"))
	assert.ErrorIs(t, err, store.ErrEmailExists)

	got, err := s.GetByEmail(ctx, "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, ada.ID, got.ID)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ada", all[0].Name)

	newEmail := "bob@example.com"
	_, err = s.Update(ctx, ada.ID, domain.UserUpdate{Email: &newEmail})
	assert.ErrorIs(t, err, store.ErrEmailExists)

	newName := "Ada L."
	updated, err := s.Update(ctx, ada.ID, domain.UserUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)

	_, err = s.Update(ctx, 99, domain.UserUpdate{Name: &newName})
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	blank := "   "
	_, err = s.Update(ctx, ada.ID, domain.UserUpdate{Name: &blank})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	got, err = s.GetByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", got.Name)

	assert.ErrorIs(t, s.Create(ctx, &domain.User{Email: "x@example.com", PasswordHash: "h"}), store.ErrInvalidEntity)

	require.NoError(t, s.Delete(ctx, ada.ID))
	assert.ErrorIs(t, s.Delete(ctx, ada.ID), store.ErrUserNotFound)

	_, err = s.GetByID(ctx, ada.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestProductStoreLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewProductStore()

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	p, err := domain.NewProduct("Lamp", "desk lamp", 20, 1)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, p))
	assert.Equal(t, int64(1), p.ID)

	stock := 7
	updated, err := s.Update(ctx, p.ID, domain.ProductUpdate{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, "Lamp", updated.Name)

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	blank := " "
	_, err = s.Update(ctx, p.ID, domain.ProductUpdate{Name: &blank})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	require.NoError(t, s.Delete(ctx, p.ID))
	assert.ErrorIs(t, s.Delete(ctx, p.ID), store.ErrProductNotFound)
}
