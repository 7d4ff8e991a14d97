// Package memstore provides in-process implementations of the store
// interfaces. They back the "memory" database driver for local development
// and the handler tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// UserStore is a map-backed store.UserStore.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]domain.User
	now    func() time.Time
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore returns an empty UserStore. IDs start at 1.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]domain.User), now: time.Now}
}

// Create implements store.UserStore.
func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(user.Email, 0) {
		return store.ErrEmailExists
	}

	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = *user
	return nil
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail implements store.UserStore.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = domain.NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// List implements store.UserStore.
func (s *UserStore) List(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update implements store.UserStore.
func (s *UserStore) Update(_ context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	if err := upd.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	if upd.Email != nil && s.emailTaken(domain.NormalizeEmail(*upd.Email), id) {
		return nil, store.ErrEmailExists
	}

	upd.Apply(&u, s.now().UTC())
	s.users[id] = u
	return &u, nil
}

// Delete implements store.UserStore.
func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// emailTaken must be called with s.mu held.
func (s *UserStore) emailTaken(email string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

// ProductStore is a map-backed store.ProductStore.
type ProductStore struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]domain.Product
	now      func() time.Time
}

var _ store.ProductStore = (*ProductStore)(nil)

// NewProductStore returns an empty ProductStore. IDs start at 1.
func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[int64]domain.Product), now: time.Now}
}

// Create implements store.ProductStore.
func (s *ProductStore) Create(_ context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = s.nextID
	s.products[p.ID] = *p
	return nil
}

// GetByID implements store.ProductStore.
func (s *ProductStore) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return &p, nil
}

// List implements store.ProductStore.
func (s *ProductStore) List(_ context.Context) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update implements store.ProductStore.
func (s *ProductStore) Update(_ context.Context, id int64, upd domain.ProductUpdate) (*domain.Product, error) {
	if err := upd.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	upd.Apply(&p, s.now().UTC())
	s.products[id] = p
	return &p, nil
}

// Delete implements store.ProductStore.
func (s *ProductStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return store.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}
