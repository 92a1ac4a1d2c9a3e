package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/shop"
	"github.com/redmonkez12/storefront-api/internal/token"
	"github.com/redmonkez12/storefront-api/internal/user"
)

const msgLoginRequired = "Please login to continue"

// UserStore loads customers by id
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// ShopStore loads sellers by id
type ShopStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*shop.Shop, error)
}

// Authenticator builds the authentication and authorization middlewares.
// It holds no per-request state and is safe for concurrent use.
type Authenticator struct {
	verifier token.Verifier
	users    UserStore
	shops    ShopStore
	logger   *logging.Logger
}

func NewAuthenticator(verifier token.Verifier, users UserStore, shops ShopStore, logger *logging.Logger) *Authenticator {
	return &Authenticator{
		verifier: verifier,
		users:    users,
		shops:    shops,
		logger:   logger,
	}
}

// variant describes one principal type guarded by the same
// token -> verify -> lookup -> attach sequence.
type variant[T any] struct {
	kind        Kind
	cookie      string
	invalidMsg  string
	notFoundMsg string
	notFound    error
	lookup      func(ctx context.Context, id uuid.UUID) (T, error)
	attach      func(ctx context.Context, p T) context.Context
}

// RequireCustomer rejects requests without a valid customer token and
// attaches the customer otherwise.
func (a *Authenticator) RequireCustomer(next http.Handler) http.Handler {
	return guard(a, variant[*user.User]{
		kind:        KindCustomer,
		cookie:      CustomerCookieName,
		invalidMsg:  "Invalid or expired token",
		notFoundMsg: "User not found",
		notFound:    user.ErrNotFound,
		lookup:      a.users.GetByID,
		attach:      WithCustomer,
	}, next)
}

// RequireSeller rejects requests without a valid seller token and attaches
// the shop otherwise.
func (a *Authenticator) RequireSeller(next http.Handler) http.Handler {
	return guard(a, variant[*shop.Shop]{
		kind:        KindSeller,
		cookie:      SellerCookieName,
		invalidMsg:  "Invalid or expired seller token",
		notFoundMsg: "Seller not found",
		notFound:    shop.ErrNotFound,
		lookup:      a.shops.GetByID,
		attach:      WithSeller,
	}, next)
}

func guard[T any](a *Authenticator, v variant[T], next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.FromContext(ctx, a.logger).WithFields(map[string]any{"principal": v.kind.String()})

		raw, ok := extractToken(r, v.cookie)
		if !ok {
			logger.Debug("no token provided")
			httputil.WriteError(w, httputil.Unauthenticated(httputil.CodeMissingAuth, msgLoginRequired))
			return
		}

		subjectID, err := a.verifier.Verify(raw)
		if err != nil {
			logger.Debug("token verification failed", "error", err)
			httputil.WriteError(w, httputil.Unauthenticated(httputil.CodeInvalidToken, v.invalidMsg))
			return
		}

		principal, err := v.lookup(ctx, subjectID)
		if err != nil {
			if errors.Is(err, v.notFound) {
				logger.Warn("token subject not found", "subject_id", subjectID)
				httputil.WriteError(w, httputil.Unauthenticated(httputil.CodePrincipalNotFound, v.notFoundMsg))
				return
			}
			logger.Error("principal lookup failed", "subject_id", subjectID, "error", err)
			httputil.WriteError(w, httputil.Internal("failed to authenticate request"))
			return
		}

		next.ServeHTTP(w, r.WithContext(v.attach(ctx, principal)))
	})
}
