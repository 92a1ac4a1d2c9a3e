package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/redmonkez12/storefront-api/internal/database"
	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/shop"
	"github.com/redmonkez12/storefront-api/internal/token"
	"github.com/redmonkez12/storefront-api/internal/user"
)

type testServer struct {
	router http.Handler
	users  *user.Service
}

// newTestServer wires the account handlers over an in-memory SQLite database
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := user.NewRepository(db)
	shopRepo := shop.NewRepository(db)
	require.NoError(t, userRepo.CreateTables(ctx))
	require.NoError(t, shopRepo.CreateTables(ctx))

	codec, err := token.NewJWTCodec([]byte("handler-secret"), time.Hour)
	require.NoError(t, err)

	logger := logging.New(zaptest.NewLogger(t))
	users := user.NewService(userRepo, codec, logger)
	shops := shop.NewService(shopRepo, codec, logger)
	authn := NewAuthenticator(codec, userRepo, shopRepo, logger)
	cookies := CookieConfig{TTL: codec.TTL()}

	h := NewHandler(users, cookies, logger)
	sh := NewSellerHandler(shops, cookies, logger)

	r := chi.NewRouter()
	r.Route("/api/v2/user", func(r chi.Router) {
		r.Post("/create-user", h.CreateUser)
		r.Post("/login-user", h.LoginUser)
		r.Get("/logout", h.LogoutUser)
		r.Group(func(r chi.Router) {
			r.Use(authn.RequireCustomer)
			r.Get("/getuser", h.GetUser)
			r.Put("/update-user-password", h.UpdatePassword)
			r.Put("/update-user-addresses", h.UpdateAddresses)
			r.With(authn.RequireRoles(string(user.RoleAdmin))).Get("/admin-all-users", h.AdminAllUsers)
		})
	})
	r.Route("/api/v2/shop", func(r chi.Router) {
		r.Post("/create-shop", sh.CreateShop)
		r.Post("/login-shop", sh.LoginShop)
		r.Get("/logout", sh.LogoutShop)
		r.With(authn.RequireSeller).Get("/getSeller", sh.GetSeller)
	})

	return &testServer{router: r, users: users}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func registerAndLogin(t *testing.T, s *testServer, email, pass string) *http.Cookie {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v2/user/create-user", CreateUserRequest{
		Name: "Ada", Email: email, Password: pass, Avatar: "avatars/ada.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v2/user/login-user", LoginRequest{Email: email, Password: pass})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	c := findCookie(rec, CustomerCookieName)
	require.NotNil(t, c)
	return c
}

func TestHandler_RegisterLoginGetUser(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v2/user/create-user", CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "s3cret", Avatar: "avatars/ada.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "s3cret")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(t, http.MethodPost, "/api/v2/user/login-user", LoginRequest{Email: "ada@example.com", Password: "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)

	var login UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))
	assert.True(t, login.Success)
	assert.NotEmpty(t, login.Token)

	cookie := findCookie(rec, CustomerCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, login.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	rec = s.do(t, http.MethodGet, "/api/v2/user/getuser", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var me UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	assert.Equal(t, "ada@example.com", me.User.Email)
	assert.Equal(t, user.RoleUser, me.User.Role)
}

func TestHandler_CreateUserErrors(t *testing.T) {
	s := newTestServer(t)
	registerAndLogin(t, s, "ada@example.com", "s3cret")

	tests := []struct {
		name   string
		req    CreateUserRequest
		status int
		msg    string
	}{
		{"missing name", CreateUserRequest{Email: "x@example.com", Password: "pass", Avatar: "a"}, http.StatusBadRequest, "name is required"},
		{"bad email", CreateUserRequest{Name: "X", Email: "nope", Password: "pass", Avatar: "a"}, http.StatusBadRequest, "invalid email format"},
		{"short password", CreateUserRequest{Name: "X", Email: "x@example.com", Password: "abc", Avatar: "a"}, http.StatusBadRequest, user.ErrPasswordTooShort.Error()},
		{"duplicate email", CreateUserRequest{Name: "X", Email: "ada@example.com", Password: "pass", Avatar: "a"}, http.StatusConflict, "User already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v2/user/create-user", tt.req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, decodeError(t, rec).Error)
		})
	}
}

func TestHandler_OverlongPasswordIsClientError(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v2/user/create-user", CreateUserRequest{
		Name: "Ada", Email: "long@example.com", Password: strings.Repeat("p", 73), Avatar: "avatars/ada.png",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, httputil.CodeValidationFailed, body.Code)
	assert.Equal(t, user.ErrPasswordTooLong.Error(), body.Error)

	cookie := registerAndLogin(t, s, "ada@example.com", "s3cret")
	long := strings.Repeat("p", 80)
	rec = s.do(t, http.MethodPut, "/api/v2/user/update-user-password",
		UpdatePasswordRequest{OldPassword: "s3cret", NewPassword: long, ConfirmPassword: long}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeValidationFailed, decodeError(t, rec).Code)

	rec = s.do(t, http.MethodPost, "/api/v2/shop/create-shop", CreateShopRequest{
		Name: "Corner Store", Email: "shop@example.com", Password: strings.Repeat("p", 73),
		Address: "2 High St", Avatar: "avatars/shop.png",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeValidationFailed, decodeError(t, rec).Code)
}

func TestHandler_LoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)
	registerAndLogin(t, s, "ada@example.com", "s3cret")

	for name, req := range map[string]LoginRequest{
		"wrong password": {Email: "ada@example.com", Password: "nope"},
		"unknown email":  {Email: "bob@example.com", Password: "s3cret"},
		"empty":          {},
	} {
		t.Run(name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v2/user/login-user", req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Please provide the correct information", decodeError(t, rec).Error)
			assert.Nil(t, findCookie(rec, CustomerCookieName))
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v2/user/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	c := findCookie(rec, CustomerCookieName)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
}

func TestHandler_UpdatePassword(t *testing.T) {
	s := newTestServer(t)
	cookie := registerAndLogin(t, s, "ada@example.com", "s3cret")

	rec := s.do(t, http.MethodPut, "/api/v2/user/update-user-password",
		UpdatePasswordRequest{OldPassword: "wrong", NewPassword: "next-pass", ConfirmPassword: "next-pass"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Old password is incorrect!", decodeError(t, rec).Error)

	rec = s.do(t, http.MethodPut, "/api/v2/user/update-user-password",
		UpdatePasswordRequest{OldPassword: "s3cret", NewPassword: "next-pass", ConfirmPassword: "other"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Passwords do not match", decodeError(t, rec).Error)

	rec = s.do(t, http.MethodPut, "/api/v2/user/update-user-password",
		UpdatePasswordRequest{OldPassword: "s3cret", NewPassword: "next-pass", ConfirmPassword: "next-pass"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v2/user/login-user", LoginRequest{Email: "ada@example.com", Password: "s3cret"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v2/user/login-user", LoginRequest{Email: "ada@example.com", Password: "next-pass"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_UpdateAddresses(t *testing.T) {
	s := newTestServer(t)
	cookie := registerAndLogin(t, s, "ada@example.com", "s3cret")

	home := user.Address{Country: "GB", City: "London", Address1: "1 Main St", ZipCode: 10001, AddressType: "home"}

	rec := s.do(t, http.MethodPut, "/api/v2/user/update-user-addresses", home, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.User.Addresses, 1)
	assert.Equal(t, "home", resp.User.Addresses[0].AddressType)

	rec = s.do(t, http.MethodPut, "/api/v2/user/update-user-addresses", home, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeAddressTypeExists, decodeError(t, rec).Code)

	// the address update must leave the password hash untouched
	rec = s.do(t, http.MethodPost, "/api/v2/user/login-user", LoginRequest{Email: "ada@example.com", Password: "s3cret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_AdminAllUsers(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	customer := registerAndLogin(t, s, "ada@example.com", "s3cret")

	rec := s.do(t, http.MethodGet, "/api/v2/user/admin-all-users", nil, customer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "user cannot access this resource!", decodeError(t, rec).Error)

	_, err := s.users.CreateAdmin(ctx, user.RegisterInput{
		Name: "Root", Email: "root@example.com", Password: "admin-pass", Avatar: "avatars/root.png",
	})
	require.NoError(t, err)

	rec = s.do(t, http.MethodPost, "/api/v2/user/login-user", LoginRequest{Email: "root@example.com", Password: "admin-pass"})
	require.Equal(t, http.StatusOK, rec.Code)
	admin := findCookie(rec, CustomerCookieName)
	require.NotNil(t, admin)

	rec = s.do(t, http.MethodGet, "/api/v2/user/admin-all-users", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UsersResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Users, 2)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestSellerHandler_Flow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v2/shop/create-shop", CreateShopRequest{
		Name: "Corner Store", Email: "shop@example.com", Password: "shop-pass",
		Address: "2 High St", ZipCode: 10002, Avatar: "avatars/shop.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v2/shop/create-shop", CreateShopRequest{
		Name: "Corner Store", Email: "shop@example.com", Password: "shop-pass",
		Address: "2 High St", Avatar: "avatars/shop.png",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v2/shop/login-shop", LoginRequest{Email: "shop@example.com", Password: "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v2/shop/login-shop", LoginRequest{Email: "shop@example.com", Password: "shop-pass"})
	require.Equal(t, http.StatusOK, rec.Code)
	seller := findCookie(rec, SellerCookieName)
	require.NotNil(t, seller)
	assert.Nil(t, findCookie(rec, CustomerCookieName))

	rec = s.do(t, http.MethodGet, "/api/v2/shop/getSeller", nil, seller)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SellerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Corner Store", resp.Seller.Name)
	assert.Equal(t, shop.RoleSeller, resp.Seller.Role)

	// a seller token in the customer cookie resolves to no customer
	rec = s.do(t, http.MethodGet, "/api/v2/user/getuser", nil, &http.Cookie{Name: CustomerCookieName, Value: seller.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", decodeError(t, rec).Error)
}
