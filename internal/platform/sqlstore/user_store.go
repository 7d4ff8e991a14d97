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

const userColumns = "id, name, email, password_hash, created_at, updated_at"

// UserStore implements store.UserStore on a SQL database.
type UserStore struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
	now     func() time.Time
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore. The connection pool is owned by the caller.
// If logger is nil, slog.Default() is used.
func NewUserStore(db *sql.DB, dialect Dialect, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "user_store")),
		now:     time.Now,
	}
}

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const insert = `INSERT INTO users (name, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	args := []any{user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt}

	id, err := insertReturningID(ctx, s.db, s.dialect, insert, args...)
	if err != nil {
		if IsUniqueViolation(err) {
			s.logger.Debug("user email already exists")
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		s.logger.Error("failed to insert user", slog.String("error", err.Error()))
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	user.ID = id
	s.logger.Debug("user created", slog.Int64("user_id", id))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getOne(ctx, s.db, "id", id)
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, s.db, "email", domain.NormalizeEmail(email))
}

// List implements store.UserStore.List.
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, store.NewStoreError("user", "list", "query failed", MapError(err))
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, store.NewStoreError("user", "list", "scan failed", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("user", "list", "iteration failed", err)
	}
	return users, nil
}

// Update implements store.UserStore.Update. The UPDATE and the re-read of
// the row share a transaction so the returned user is what was written.
func (s *UserStore) Update(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	if upd.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}
	if err := upd.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	// Only the columns present in upd are written; updated_at always moves
	sets, args := userAssignments(upd)
	sets = append(sets, "updated_at = ?")
	args = append(args, s.now().UTC(), id)
	query := s.dialect.Rebind("UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?")

	var updated *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		// Zero rows affected means the id does not exist
		if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
			return err
		}
		updated, err = s.getOne(ctx, tx, "id", id)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			return nil, store.ErrUserNotFound
		case IsUniqueViolation(err):
			return nil, fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		s.logger.Error("failed to update user", slog.Int64("user_id", id), slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "update", "update failed", MapError(err))
	}
	return updated, nil
}

// Delete implements store.UserStore.Delete.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.dialect.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		s.logger.Error("failed to delete user", slog.Int64("user_id", id), slog.String("error", err.Error()))
		return store.NewStoreError("user", "delete", "delete failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// userAssignments enumerates the columns a UserUpdate may write.
func userAssignments(upd domain.UserUpdate) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*upd.Name))
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, domain.NormalizeEmail(*upd.Email))
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *upd.PasswordHash)
	}
	return sets, args
}

// getOne fetches a single user by a fixed key column.
func (s *UserStore) getOne(ctx context.Context, q store.DBTX, column string, value any) (*domain.User, error) {
	query := s.dialect.Rebind("SELECT " + userColumns + " FROM users WHERE " + column + " = ?")
	u, err := scanUser(q.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.NewStoreError("user", "get", "query failed", MapError(err))
	}
	return u, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

// insertReturningID runs an INSERT written with '?' placeholders and returns
// the generated id, using RETURNING where the dialect has it.
func insertReturningID(ctx context.Context, q store.DBTX, d Dialect, insert string, args ...any) (int64, error) {
	if d.SupportsReturning() {
		var id int64
		err := q.QueryRowContext(ctx, d.Rebind(insert+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	result, err := q.ExecContext(ctx, d.Rebind(insert), args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
