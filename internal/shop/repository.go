package shop

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
	ErrNotFound       = errors.New("shop not found")
	ErrDuplicateEmail = errors.New("shop email already exists")
)

// Repository handles shop persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateTables(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*Shop)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create shops table: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, s *Shop) error {
	plain, staged := s.Password, s.PasswordChanged()

	_, err := r.db.NewInsert().
		Model(s).
		Exec(ctx)
	if err != nil {
		if staged {
			s.SetPassword(plain)
		}
		if database.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create shop: %w", err)
	}
	return nil
}

// GetByID loads a shop without its password hash
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Shop, error) {
	s := new(Shop)
	err := r.db.NewSelect().
		Model(s).
		ExcludeColumn("password").
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shop by id: %w", err)
	}
	return s, nil
}

func (r *Repository) GetByEmailWithPassword(ctx context.Context, email string) (*Shop, error) {
	s := new(Shop)
	err := r.db.NewSelect().
		Model(s).
		Where("s.email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shop by email: %w", err)
	}
	return s, nil
}
