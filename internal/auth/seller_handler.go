package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/shop"
)

// SellerHandler contains the shop account endpoints
type SellerHandler struct {
	shops   *shop.Service
	cookies CookieConfig
	logger  *logging.Logger
}

func NewSellerHandler(shops *shop.Service, cookies CookieConfig, logger *logging.Logger) *SellerHandler {
	return &SellerHandler{
		shops:   shops,
		cookies: cookies,
		logger:  logger,
	}
}

// CreateShopRequest represents the shop registration request body
type CreateShopRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Address     string `json:"address"`
	PhoneNumber *int64 `json:"phone_number"`
	ZipCode     int    `json:"zip_code"`
	Avatar      string `json:"avatar"`
}

// SellerResponse wraps a single shop
type SellerResponse struct {
	Success bool       `json:"success"`
	Seller  *shop.Shop `json:"seller"`
	Token   string     `json:"token,omitempty"`
}

// CreateShop handles seller registration
// @Summary      Register a shop
// @Tags         shop
// @Accept       json
// @Produce      json
// @Param        request body CreateShopRequest true "Shop details"
// @Success      201 {object} SellerResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Router       /api/v2/shop/create-shop [post]
func (h *SellerHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	var req CreateShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, httputil.BadRequest(httputil.CodeInvalidRequestBody, "invalid request body"))
		return
	}

	sh, err := h.shops.Register(r.Context(), shop.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		ZipCode:     req.ZipCode,
		Avatar:      req.Avatar,
	})
	if err != nil {
		h.writeShopError(w, logger, "shop registration failed", err)
		return
	}

	httputil.RespondJSON(w, SellerResponse{Success: true, Seller: sh}, http.StatusCreated)
}

// LoginShop handles seller login
// @Summary      Seller login
// @Tags         shop
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} SellerResponse
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Router       /api/v2/shop/login-shop [post]
func (h *SellerHandler) LoginShop(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, httputil.BadRequest(httputil.CodeInvalidRequestBody, "invalid request body"))
		return
	}

	sh, tok, err := h.shops.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeShopError(w, logger, "shop login failed", err)
		return
	}

	logger.Info("seller logged in", "shop_id", sh.ID)
	SetTokenCookie(w, SellerCookieName, tok, h.cookies)
	httputil.RespondJSON(w, SellerResponse{Success: true, Seller: sh, Token: tok}, http.StatusOK)
}

// LogoutShop clears the seller token cookie
// @Summary      Seller logout
// @Tags         shop
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       /api/v2/shop/logout [get]
func (h *SellerHandler) LogoutShop(w http.ResponseWriter, r *http.Request) {
	ClearTokenCookie(w, SellerCookieName, h.cookies)
	httputil.RespondJSON(w, MessageResponse{Success: true, Message: "Log out successful!"}, http.StatusOK)
}

// GetSeller returns the authenticated shop
// @Summary      Current seller
// @Tags         shop
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} SellerResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Router       /api/v2/shop/getSeller [get]
func (h *SellerHandler) GetSeller(w http.ResponseWriter, r *http.Request) {
	sh, ok := SellerFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, httputil.Unauthenticated(httputil.CodeMissingAuth, msgLoginRequired))
		return
	}
	httputil.RespondJSON(w, SellerResponse{Success: true, Seller: sh}, http.StatusOK)
}

func (h *SellerHandler) writeShopError(w http.ResponseWriter, logger *logging.Logger, msg string, err error) {
	switch {
	case errors.Is(err, shop.ErrNameRequired),
		errors.Is(err, shop.ErrEmailRequired),
		errors.Is(err, shop.ErrInvalidEmailFormat),
		errors.Is(err, shop.ErrPasswordRequired),
		errors.Is(err, shop.ErrPasswordTooShort),
		errors.Is(err, shop.ErrPasswordTooLong),
		errors.Is(err, shop.ErrAddressRequired),
		errors.Is(err, shop.ErrAvatarRequired):
		logger.Warn(msg+": validation error", "error", err)
		httputil.WriteError(w, httputil.BadRequest(httputil.CodeValidationFailed, err.Error()))
	case errors.Is(err, shop.ErrDuplicateEmail):
		logger.Warn(msg + ": email already exists")
		httputil.WriteError(w, httputil.Conflict(httputil.CodeEmailAlreadyExists, "Shop already exists"))
	case errors.Is(err, shop.ErrInvalidCredentials):
		logger.Warn(msg + ": invalid credentials")
		httputil.WriteError(w, httputil.Unauthenticated(httputil.CodeInvalidCredentials, "Please provide the correct information"))
	default:
		logger.Error(msg+": internal error", "error", err)
		httputil.WriteError(w, httputil.Internal(msg))
	}
}
