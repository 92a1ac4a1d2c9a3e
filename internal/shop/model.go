package shop

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/storefront-api/internal/password"
	"github.com/redmonkez12/storefront-api/internal/token"
)

// RoleSeller is the default role of every shop
const RoleSeller = "seller"

const MinPasswordLength = 6

var (
	ErrNameRequired       = errors.New("shop name is required")
	ErrEmailRequired      = errors.New("shop email is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong    = password.ErrTooLong
	ErrAddressRequired    = errors.New("shop address is required")
	ErrAvatarRequired     = errors.New("avatar is required")
)

// Shop is a seller account, authenticated independently from customers
type Shop struct {
	bun.BaseModel `bun:"table:shops,alias:s"`

	ID                 uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Name               string     `bun:"name,notnull" json:"name"`
	Email              string     `bun:"email,notnull,unique" json:"email"`
	Password           string     `bun:"password,notnull" json:"-"`
	Description        string     `bun:"description" json:"description,omitempty"`
	Address            string     `bun:"address,notnull" json:"address"`
	PhoneNumber        *int64     `bun:"phone_number" json:"phone_number,omitempty"`
	Role               string     `bun:"role,notnull,default:'seller'" json:"role"`
	Avatar             string     `bun:"avatar,notnull" json:"avatar"`
	ZipCode            int        `bun:"zip_code" json:"zip_code"`
	CreatedAt          time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	ResetPasswordToken *string    `bun:"reset_password_token" json:"-"`
	ResetPasswordTime  *time.Time `bun:"reset_password_time" json:"-"`

	passwordChanged bool
}

var _ bun.BeforeAppendModelHook = (*Shop)(nil)

func (s *Shop) SetPassword(plain string) {
	s.Password = plain
	s.passwordChanged = true
}

func (s *Shop) PasswordChanged() bool {
	return s.passwordChanged
}

// BeforeAppendModel fills insert defaults and hashes a staged password.
func (s *Shop) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
		if s.Role == "" {
			s.Role = RoleSeller
		}
	case *bun.UpdateQuery:
	default:
		return nil
	}

	if !s.passwordChanged {
		return nil
	}

	hash, err := password.Hash(s.Password)
	if err != nil {
		return err
	}
	s.Password = hash
	s.passwordChanged = false
	return nil
}

func (s *Shop) ComparePassword(plain string) bool {
	return password.Compare(s.Password, plain)
}

func (s *Shop) IssueToken(issuer token.Issuer) (string, error) {
	return issuer.Issue(s.ID)
}

func (s *Shop) Validate() error {
	switch {
	case s.Name == "":
		return ErrNameRequired
	case s.Email == "":
		return ErrEmailRequired
	case s.Password == "":
		return ErrPasswordRequired
	case s.Address == "":
		return ErrAddressRequired
	case s.Avatar == "":
		return ErrAvatarRequired
	}

	if _, err := mail.ParseAddress(s.Email); err != nil {
		return ErrInvalidEmailFormat
	}
	if s.passwordChanged {
		switch {
		case len(s.Password) < MinPasswordLength:
			return ErrPasswordTooShort
		case len(s.Password) > password.MaxLength:
			return ErrPasswordTooLong
		}
	}
	return nil
}
