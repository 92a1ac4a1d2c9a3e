package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/token"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Address     string
	PhoneNumber *int64
	ZipCode     int
	Avatar      string
}

// Service holds seller account logic
type Service struct {
	repo   *Repository
	issuer token.Issuer
	logger *logging.Logger
}

func NewService(repo *Repository, issuer token.Issuer, logger *logging.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, logger: logger}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Shop, error) {
	sh := &Shop{
		Name:        in.Name,
		Email:       in.Email,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
		ZipCode:     in.ZipCode,
		Avatar:      in.Avatar,
		Role:        RoleSeller,
	}
	sh.SetPassword(in.Password)

	if err := sh.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sh); err != nil {
		return nil, err
	}

	s.logger.Info("shop registered", "shop_id", sh.ID)
	return sh, nil
}

// Login checks seller credentials and returns the shop with a fresh token
func (s *Service) Login(ctx context.Context, email, plain string) (*Shop, string, error) {
	if email == "" || plain == "" {
		return nil, "", ErrInvalidCredentials
	}

	sh, err := s.repo.GetByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !sh.ComparePassword(plain) {
		return nil, "", ErrInvalidCredentials
	}
	sh.Password = ""

	tok, err := sh.IssueToken(s.issuer)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return sh, tok, nil
}
