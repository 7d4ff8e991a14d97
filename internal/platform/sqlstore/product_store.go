package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

const productColumns = "id, name, description, price, stock, created_at, updated_at"

// ProductStore implements store.ProductStore on a SQL database.
type ProductStore struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
	now     func() time.Time
}

var _ store.ProductStore = (*ProductStore)(nil)

// NewProductStore creates a ProductStore. The connection pool is owned by the caller.
func NewProductStore(db *sql.DB, dialect Dialect, logger *slog.Logger) *ProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "product_store")),
		now:     time.Now,
	}
}

// Create implements store.ProductStore.Create.
func (s *ProductStore) Create(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const insert = `INSERT INTO products (name, description, price, stock, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	id, err := insertReturningID(ctx, s.db, s.dialect, insert,
		p.Name, p.Description, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		s.logger.Error("failed to insert product", slog.String("error", err.Error()))
		return store.NewStoreError("product", "create", "insert failed", MapError(err))
	}

	p.ID = id
	s.logger.Debug("product created", slog.Int64("product_id", id))
	return nil
}

// GetByID implements store.ProductStore.GetByID.
func (s *ProductStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.getByID(ctx, s.db, id)
}

// List implements store.ProductStore.List.
func (s *ProductStore) List(ctx context.Context) ([]*domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, store.NewStoreError("product", "list", "query failed", MapError(err))
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, store.NewStoreError("product", "list", "scan failed", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("product", "list", "iteration failed", err)
	}
	return products, nil
}

// Update implements store.ProductStore.Update.
func (s *ProductStore) Update(ctx context.Context, id int64, upd domain.ProductUpdate) (*domain.Product, error) {
	if upd.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}
	if err := upd.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	// Only the columns present in upd are written; updated_at always moves
	sets, args := productAssignments(upd)
	sets = append(sets, "updated_at = ?")
	args = append(args, s.now().UTC(), id)
	query := s.dialect.Rebind("UPDATE products SET " + strings.Join(sets, ", ") + " WHERE id = ?")

	var updated *domain.Product
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		// Zero rows affected means the id does not exist
		if err := CheckRowsAffected(result, store.ErrProductNotFound); err != nil {
			return err
		}
		updated, err = s.getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, store.ErrProductNotFound
		}
		s.logger.Error("failed to update product", slog.Int64("product_id", id), slog.String("error", err.Error()))
		return nil, store.NewStoreError("product", "update", "update failed", MapError(err))
	}
	return updated, nil
}

// Delete implements store.ProductStore.Delete.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.dialect.Rebind("DELETE FROM products WHERE id = ?"), id)
	if err != nil {
		s.logger.Error("failed to delete product", slog.Int64("product_id", id), slog.String("error", err.Error()))
		return store.NewStoreError("product", "delete", "delete failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrProductNotFound)
}

// productAssignments enumerates the columns a ProductUpdate may write.
func productAssignments(upd domain.ProductUpdate) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*upd.Name))
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *upd.Price)
	}
	if upd.Stock != nil {
		sets = append(sets, "stock = ?")
		args = append(args, *upd.Stock)
	}
	return sets, args
}

func (s *ProductStore) getByID(ctx context.Context, q store.DBTX, id int64) (*domain.Product, error) {
	query := s.dialect.Rebind("SELECT " + productColumns + " FROM products WHERE id = ?")
	p, err := scanProduct(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProductNotFound
		}
		return nil, store.NewStoreError("product", "get", "query failed", MapError(err))
	}
	return p, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}
