package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/storefront-api/internal/auth"
	"github.com/redmonkez12/storefront-api/internal/config"
	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/user"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Users         *auth.Handler
	Sellers       *auth.SellerHandler
	Authenticator *auth.Authenticator
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	r.Use(SecurityHeaders(cfg.Auth.CookieSecure))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled", "path", "/swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	authn := h.Authenticator

	r.Route("/api/v2/user", func(r chi.Router) {
		r.Post("/create-user", h.Users.CreateUser)
		r.Post("/login-user", h.Users.LoginUser)
		r.Get("/logout", h.Users.LogoutUser)

		r.Group(func(r chi.Router) {
			r.Use(authn.RequireCustomer)
			r.Get("/getuser", h.Users.GetUser)
			r.Put("/update-user-password", h.Users.UpdatePassword)
			r.Put("/update-user-addresses", h.Users.UpdateAddresses)
			r.With(authn.RequireRoles(string(user.RoleAdmin))).Get("/admin-all-users", h.Users.AdminAllUsers)
		})
	})

	r.Route("/api/v2/shop", func(r chi.Router) {
		r.Post("/create-shop", h.Sellers.CreateShop)
		r.Post("/login-shop", h.Sellers.LoginShop)
		r.Get("/logout", h.Sellers.LogoutShop)
		r.With(authn.RequireSeller).Get("/getSeller", h.Sellers.GetSeller)
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
