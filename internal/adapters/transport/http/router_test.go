package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	myHTTP "github.com/ledgerline/auth-service/internal/adapters/transport/http"
	appjwt "github.com/ledgerline/auth-service/internal/app/auth/jwt"
	"github.com/ledgerline/auth-service/internal/app/auth/password"
	appsvc "github.com/ledgerline/auth-service/internal/app/auth/service"
	authErrors "github.com/ledgerline/auth-service/internal/domain/auth/errors"
	"github.com/ledgerline/auth-service/internal/domain/auth/model"
	"github.com/ledgerline/auth-service/internal/infra/config"
)

type userRepoStub struct{ users map[string]model.User }

func (u *userRepoStub) CreateUser(_ context.Context, m model.User) (uuid.UUID, error) {
	if _, ok := u.users[m.Email]; ok {
		return uuid.Nil, authErrors.ErrAlreadyExists
	}
	u.users[m.Email] = m
	return m.ID, nil
}

func (u *userRepoStub) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	v, ok := u.users[email]
	if !ok {
		return model.User{}, authErrors.ErrNotFound
	}
	return v, nil
}

func (u *userRepoStub) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	for _, v := range u.users {
		if v.ID == id {
			return v, nil
		}
	}
	return model.User{}, authErrors.ErrNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "0123456789abcdef0123456789abcdef",
		TokenTTL:       time.Hour,
		JWTIssuer:      "test",
		JWTAudience:    "test",
		AllowedOrigins: []string{"*"},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *appjwt.JwtUtilImpl) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	util, err := appjwt.NewJWTUtil(cfg)
	require.NoError(t, err)

	ur := &userRepoStub{users: make(map[string]model.User)}
	svc := appsvc.New(ur, util, password.NewHasher(bcrypt.MinCost), validator.New())

	return myHTTP.NewRouter(svc, util, cfg, zap.NewNop()), util
}

func doJSON(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegister_Created(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/register", `{"email":"e@example.com","password":"Aa1aaaaa"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "e@example.com created successfully")
}

func TestRegister_Duplicate(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/register", `{"email":"e@example.com","password":"Aa1aaaaa"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/register", `{"email":"e@example.com","password":"Bb2bbbbb"}`, "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "email already exists")
}

func TestRegister_BadBody(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/register", `{"email":`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/register", `{"email":"not-an-email","password":"Aa1aaaaa"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	router, util := newTestRouter(t)

	doJSON(router, http.MethodPost, "/register", `{"email":"e@example.com","password":"Aa1aaaaa"}`, "")

	w := doJSON(router, http.MethodPost, "/login", `{"email":"e@example.com","password":"Aa1aaaaa"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Login successful", resp.Message)

	claims, err := util.ValidateAccessToken(resp.Token)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestLogin_UniformFailures(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(router, http.MethodPost, "/register", `{"email":"e@example.com","password":"Aa1aaaaa"}`, "")

	wrongPwd := doJSON(router, http.MethodPost, "/login", `{"email":"e@example.com","password":"nope1234"}`, "")
	noUser := doJSON(router, http.MethodPost, "/login", `{"email":"ghost@example.com","password":"nope1234"}`, "")

	require.Equal(t, http.StatusUnauthorized, wrongPwd.Code)
	require.Equal(t, http.StatusUnauthorized, noUser.Code)
	// Same status AND same body: no account enumeration.
	require.Equal(t, wrongPwd.Body.String(), noUser.Body.String())
}

func TestBalance_RequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/protected/account/balance", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBalance_ExpiredToken(t *testing.T) {
	router, _ := newTestRouter(t)

	expiredCfg := testConfig()
	expiredCfg.TokenTTL = -2 * time.Hour
	expiredUtil, err := appjwt.NewJWTUtil(expiredCfg)
	require.NoError(t, err)

	doJSON(router, http.MethodPost, "/register", `{"email":"e@example.com","password":"Aa1aaaaa"}`, "")

	tok, _, _, err := expiredUtil.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	w := doJSON(router, http.MethodGet, "/protected/account/balance", "", tok)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid token")
}

func TestBalance_Success(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(router, http.MethodPost, "/register", `{"email":"e@example.com","password":"Aa1aaaaa"}`, "")

	login := doJSON(router, http.MethodPost, "/login", `{"email":"e@example.com","password":"Aa1aaaaa"}`, "")
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))

	w := doJSON(router, http.MethodGet, "/protected/account/balance", "", resp.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var balance struct {
		Data struct {
			Account struct {
				Balance string `json:"balance"`
				ID      string `json:"id"`
			} `json:"Account"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	require.Equal(t, "0", balance.Data.Account.Balance)
	require.NotEmpty(t, balance.Data.Account.ID)
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ok")
}
