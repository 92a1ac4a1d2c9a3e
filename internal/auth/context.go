package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/shop"
	"github.com/redmonkez12/storefront-api/internal/user"
)

// Kind tells which principal variant a request carries
type Kind int

const (
	KindNone Kind = iota
	KindCustomer
	KindSeller
)

func (k Kind) String() string {
	switch k {
	case KindCustomer:
		return "customer"
	case KindSeller:
		return "seller"
	default:
		return "none"
	}
}

// Principal is the authenticated entity attached to a request. Exactly one
// of Customer and Seller is set unless Kind is KindNone.
type Principal struct {
	Kind     Kind
	Customer *user.User
	Seller   *shop.Shop
}

// Role returns the principal's role, or "" for KindNone
func (p Principal) Role() string {
	switch p.Kind {
	case KindCustomer:
		return string(p.Customer.Role)
	case KindSeller:
		return p.Seller.Role
	default:
		return ""
	}
}

// ID returns the principal's id, or uuid.Nil for KindNone
func (p Principal) ID() uuid.UUID {
	switch p.Kind {
	case KindCustomer:
		return p.Customer.ID
	case KindSeller:
		return p.Seller.ID
	default:
		return uuid.Nil
	}
}

type (
	customerContextKey struct{}
	sellerContextKey   struct{}
)

// WithCustomer attaches an authenticated customer to ctx
func WithCustomer(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, customerContextKey{}, u)
}

// WithSeller attaches an authenticated seller to ctx
func WithSeller(ctx context.Context, s *shop.Shop) context.Context {
	return context.WithValue(ctx, sellerContextKey{}, s)
}

// CustomerFromContext returns the customer attached by RequireCustomer
func CustomerFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(customerContextKey{}).(*user.User)
	return u, ok && u != nil
}

// SellerFromContext returns the seller attached by RequireSeller
func SellerFromContext(ctx context.Context) (*shop.Shop, bool) {
	s, ok := ctx.Value(sellerContextKey{}).(*shop.Shop)
	return s, ok && s != nil
}

// PrincipalFromContext returns the attached principal. A customer takes
// precedence over a seller; with neither the result has KindNone.
func PrincipalFromContext(ctx context.Context) Principal {
	if u, ok := CustomerFromContext(ctx); ok {
		return Principal{Kind: KindCustomer, Customer: u}
	}
	if s, ok := SellerFromContext(ctx); ok {
		return Principal{Kind: KindSeller, Seller: s}
	}
	return Principal{Kind: KindNone}
}
