package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/token"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrIncorrectOldPassword = errors.New("old password is incorrect")
	ErrPasswordMismatch     = errors.New("passwords do not match")
)

// RegisterInput carries the fields accepted at sign-up
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Avatar   string
}

// Service holds customer account logic
type Service struct {
	repo   *Repository
	issuer token.Issuer
	logger *logging.Logger
}

func NewService(repo *Repository, issuer token.Issuer, logger *logging.Logger) *Service {
	return &Service{
		repo:   repo,
		issuer: issuer,
		logger: logger,
	}
}

// Register validates and stores a new customer with the default role
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	return s.create(ctx, in, RoleUser)
}

// CreateAdmin stores a new account with the admin role
func (s *Service) CreateAdmin(ctx context.Context, in RegisterInput) (*User, error) {
	return s.create(ctx, in, RoleAdmin)
}

func (s *Service) create(ctx context.Context, in RegisterInput, role Role) (*User, error) {
	u := &User{
		Name:   in.Name,
		Email:  in.Email,
		Avatar: in.Avatar,
		Role:   role,
	}
	u.SetPassword(in.Password)

	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Login checks credentials and returns the user with a fresh token
func (s *Service) Login(ctx context.Context, email, plain string) (*User, string, error) {
	if email == "" || plain == "" {
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !u.ComparePassword(plain) {
		return nil, "", ErrInvalidCredentials
	}
	u.Password = ""

	tok, err := u.IssueToken(s.issuer)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return u, tok, nil
}

// IssueToken mints a token for an existing user id
func (s *Service) IssueToken(ctx context.Context, id uuid.UUID) (string, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.IssueToken(s.issuer)
}

// ChangePassword replaces the password after checking the old one
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword, confirmPassword string) error {
	u, err := s.repo.GetByIDWithPassword(ctx, id)
	if err != nil {
		return err
	}

	if !u.ComparePassword(oldPassword) {
		return ErrIncorrectOldPassword
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if err := CheckPasswordLength(newPassword); err != nil {
		return err
	}

	u.SetPassword(newPassword)
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	s.logger.Info("user password changed", "user_id", u.ID)
	return nil
}

// AddAddress appends an address to the user's address book
func (s *Service) AddAddress(ctx context.Context, id uuid.UUID, addr Address) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.AddAddress(addr); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// List returns all users for the admin dashboard
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
