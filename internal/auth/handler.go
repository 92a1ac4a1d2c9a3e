package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/user"
)

// Handler contains the customer account endpoints
type Handler struct {
	users   *user.Service
	cookies CookieConfig
	logger  *logging.Logger
}

func NewHandler(users *user.Service, cookies CookieConfig, logger *logging.Logger) *Handler {
	return &Handler{
		users:   users,
		cookies: cookies,
		logger:  logger,
	}
}

// CreateUserRequest represents the registration request body
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdatePasswordRequest represents the password change request body
type UpdatePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserResponse wraps a single user
type UserResponse struct {
	Success bool       `json:"success"`
	User    *user.User `json:"user"`
	Token   string     `json:"token,omitempty"`
}

// UsersResponse wraps a list of users
type UsersResponse struct {
	Success bool        `json:"success"`
	Users   []user.User `json:"users"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateUser handles customer registration
// @Summary      Register a new customer
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "Registration details"
// @Success      201 {object} UserResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Router       /api/v2/user/create-user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err)
		httputil.WriteError(w, httputil.BadRequest(httputil.CodeInvalidRequestBody, "invalid request body"))
		return
	}

	u, err := h.users.Register(r.Context(), user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		h.writeUserError(w, logger, "registration failed", err)
		return
	}

	httputil.RespondJSON(w, UserResponse{Success: true, User: u}, http.StatusCreated)
}

// LoginUser handles customer login
// @Summary      Customer login
// @Description  Sets the token cookie and returns the token for non-browser clients
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} UserResponse
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Router       /api/v2/user/login-user [post]
func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err)
		httputil.WriteError(w, httputil.BadRequest(httputil.CodeInvalidRequestBody, "invalid request body"))
		return
	}

	u, tok, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeUserError(w, logger, "login failed", err)
		return
	}

	logger.Info("user logged in", "user_id", u.ID)
	SetTokenCookie(w, CustomerCookieName, tok, h.cookies)
	httputil.RespondJSON(w, UserResponse{Success: true, User: u, Token: tok}, http.StatusOK)
}

// LogoutUser clears the customer token cookie
// @Summary      Customer logout
// @Tags         user
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       /api/v2/user/logout [get]
func (h *Handler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	ClearTokenCookie(w, CustomerCookieName, h.cookies)
	httputil.RespondJSON(w, MessageResponse{Success: true, Message: "Log out successful!"}, http.StatusOK)
}

// GetUser returns the authenticated customer
// @Summary      Current customer
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} UserResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Router       /api/v2/user/getuser [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, ok := CustomerFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, httputil.Unauthenticated(httputil.CodeMissingAuth, msgLoginRequired))
		return
	}
	httputil.RespondJSON(w, UserResponse{Success: true, User: u}, http.StatusOK)
}

// UpdatePassword changes the authenticated customer's password
// @Summary      Change password
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdatePasswordRequest true "Old and new passwords"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Incorrect old password or mismatch"
// @Router       /api/v2/user/update-user-password [put]
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	u, ok := CustomerFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, httputil.Unauthenticated(httputil.CodeMissingAuth, msgLoginRequired))
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, httputil.BadRequest(httputil.CodeInvalidRequestBody, "invalid request body"))
		return
	}

	if err := h.users.ChangePassword(r.Context(), u.ID, req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		h.writeUserError(w, logger, "password change failed", err)
		return
	}

	httputil.RespondJSON(w, MessageResponse{Success: true, Message: "Password updated successfully!"}, http.StatusOK)
}

// UpdateAddresses adds an address to the authenticated customer's address book
// @Summary      Add address
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body user.Address true "Address"
// @Success      200 {object} UserResponse
// @Failure      400 {object} httputil.ErrorResponse "Address type already exists"
// @Router       /api/v2/user/update-user-addresses [put]
func (h *Handler) UpdateAddresses(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	u, ok := CustomerFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, httputil.Unauthenticated(httputil.CodeMissingAuth, msgLoginRequired))
		return
	}

	var addr user.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		httputil.WriteError(w, httputil.BadRequest(httputil.CodeInvalidRequestBody, "invalid request body"))
		return
	}

	updated, err := h.users.AddAddress(r.Context(), u.ID, addr)
	if err != nil {
		h.writeUserError(w, logger, "address update failed", err)
		return
	}

	httputil.RespondJSON(w, UserResponse{Success: true, User: updated}, http.StatusOK)
}

// AdminAllUsers lists every customer account
// @Summary      List users (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} UsersResponse
// @Failure      403 {object} httputil.ErrorResponse "Role not allowed"
// @Router       /api/v2/user/admin-all-users [get]
func (h *Handler) AdminAllUsers(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	users, err := h.users.List(r.Context())
	if err != nil {
		h.writeUserError(w, logger, "listing users failed", err)
		return
	}

	httputil.RespondJSON(w, UsersResponse{Success: true, Users: users}, http.StatusOK)
}

func (h *Handler) writeUserError(w http.ResponseWriter, logger *logging.Logger, msg string, err error) {
	switch {
	case errors.Is(err, user.ErrNameRequired),
		errors.Is(err, user.ErrEmailRequired),
		errors.Is(err, user.ErrInvalidEmailFormat),
		errors.Is(err, user.ErrPasswordRequired),
		errors.Is(err, user.ErrPasswordTooShort),
		errors.Is(err, user.ErrPasswordTooLong),
		errors.Is(err, user.ErrAvatarRequired):
		logger.Warn(msg+": validation error", "error", err)
		httputil.WriteError(w, httputil.BadRequest(httputil.CodeValidationFailed, err.Error()))
	case errors.Is(err, user.ErrDuplicateEmail):
		logger.Warn(msg + ": email already exists")
		httputil.WriteError(w, httputil.Conflict(httputil.CodeEmailAlreadyExists, "User already exists"))
	case errors.Is(err, user.ErrInvalidCredentials):
		logger.Warn(msg + ": invalid credentials")
		httputil.WriteError(w, httputil.Unauthenticated(httputil.CodeInvalidCredentials, "Please provide the correct information"))
	case errors.Is(err, user.ErrIncorrectOldPassword):
		httputil.WriteError(w, httputil.BadRequest(httputil.CodeIncorrectOldPassword, "Old password is incorrect!"))
	case errors.Is(err, user.ErrPasswordMismatch):
		httputil.WriteError(w, httputil.BadRequest(httputil.CodePasswordMismatch, "Passwords do not match"))
	case errors.Is(err, user.ErrAddressTypeExists):
		httputil.WriteError(w, httputil.BadRequest(httputil.CodeAddressTypeExists, err.Error()))
	case errors.Is(err, user.ErrNotFound):
		httputil.WriteError(w, httputil.Unauthenticated(httputil.CodePrincipalNotFound, "User not found"))
	default:
		logger.Error(msg+": internal error", "error", err)
		httputil.WriteError(w, httputil.Internal(msg))
	}
}
