package auth

import (
	"net/http"
	"strings"
	"time"
)

const (
	// CustomerCookieName carries the customer token
	CustomerCookieName = "token"
	// SellerCookieName carries the seller token
	SellerCookieName = "seller_token"

	bearerPrefix = "Bearer "
)

// CookieConfig controls how token cookies are written
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

// SetTokenCookie writes an httpOnly token cookie that lives as long as the token.
func SetTokenCookie(w http.ResponseWriter, name, value string, cfg CookieConfig) {
	sameSite := http.SameSiteLaxMode
	if cfg.Secure {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(cfg.TTL),
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: sameSite,
	})
}

// ClearTokenCookie expires the named cookie immediately
func ClearTokenCookie(w http.ResponseWriter, name string, cfg CookieConfig) {
	sameSite := http.SameSiteLaxMode
	if cfg.Secure {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: sameSite,
	})
}

// extractToken returns the token from the named cookie, falling back to an
// "Authorization: Bearer <token>" header. ok is false when neither carries a
// non-empty token.
func extractToken(r *http.Request, cookieName string) (string, bool) {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value, true
	}

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	fields := strings.Fields(strings.TrimPrefix(header, bearerPrefix))
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}
