package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/storefront-api/internal/database"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Repository handles user persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// CreateTables creates the users table if it does not exist
func (r *Repository) CreateTables(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// Create inserts u, hashing its staged password
func (r *Repository) Create(ctx context.Context, u *User) error {
	plain, staged := u.Password, u.PasswordChanged()

	_, err := r.db.NewInsert().
		Model(u).
		Exec(ctx)
	if err != nil {
		if staged {
			u.SetPassword(plain)
		}
		if database.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID loads a user without its password hash
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u := new(User)
	err := r.db.NewSelect().
		Model(u).
		ExcludeColumn("password").
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// GetByIDWithPassword loads a user including the password hash
func (r *Repository) GetByIDWithPassword(ctx context.Context, id uuid.UUID) (*User, error) {
	u := new(User)
	err := r.db.NewSelect().
		Model(u).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// GetByEmailWithPassword loads a user including the password hash, for login
func (r *Repository) GetByEmailWithPassword(ctx context.Context, email string) (*User, error) {
	u := new(User)
	err := r.db.NewSelect().
		Model(u).
		Where("u.email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// List returns every user, newest first, without password hashes
func (r *Repository) List(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.NewSelect().
		Model(&users).
		ExcludeColumn("password").
		Order("u.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update writes every mutable column of u. The password column is only
// written when a new password was staged with SetPassword. A failed write
// leaves the password staged so the call can be retried.
func (r *Repository) Update(ctx context.Context, u *User) error {
	plain, staged := u.Password, u.PasswordChanged()

	excluded := []string{"id", "created_at"}
	if !staged {
		excluded = append(excluded, "password")
	}

	result, err := r.db.NewUpdate().
		Model(u).
		ExcludeColumn(excluded...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if staged {
			u.SetPassword(plain)
		}
		if database.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
