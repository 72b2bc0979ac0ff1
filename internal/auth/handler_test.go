package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/stockroom/internal/auth"
	"github.com/odyssey-erp/stockroom/internal/security"
)

type authFixture struct {
	router   http.Handler
	repo     *stubRepo
	denylist *security.Denylist
}

func newAuthFixture(t *testing.T, withDenylist bool) *authFixture {
	t.Helper()
	hasher := security.NewHasher(4)
	repo := newStubRepo()
	repo.add(t, hasher, 1, "alice", "correct", 1)
	codec := newCodec(t)

	var denylist *security.Denylist
	var gateOpts []auth.GateOption
	if withDenylist {
		mr := miniredis.RunT(t)
		denylist = security.NewDenylist(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
		gateOpts = append(gateOpts, auth.WithDenylist(denylist))
	}

	gate := auth.NewGate(nil, codec, repo, gateOpts...)
	handler := auth.NewHandler(nil, auth.NewService(repo, hasher, codec, denylist), gate, nil, false)
	r := chi.NewRouter()
	r.Route("/api/auth", handler.MountRoutes)
	return &authFixture{router: r, repo: repo, denylist: denylist}
}

func (f *authFixture) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	return res
}

func tokenCookie(res *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range res.Result().Cookies() {
		if c.Name == auth.TokenCookieName {
			return c
		}
	}
	return nil
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t, false)

	res := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"correct"}`)
	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Message   string  `json:"message"`
		Role      int64   `json:"role"`
		Token     string  `json:"token"`
		LastLogin *string `json:"lastLogin"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Equal(t, "Login successful", body.Message)
	require.Equal(t, int64(1), body.Role)
	require.NotEmpty(t, body.Token)
	require.Nil(t, body.LastLogin)

	cookie := tokenCookie(res)
	require.NotNil(t, cookie)
	require.Equal(t, body.Token, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.False(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, 3600, cookie.MaxAge)

	account, err := f.repo.FindByID(t.Context(), 1)
	require.NoError(t, err)
	require.NotNil(t, account.LastLogin)
}

func TestLoginReportsPreviousLastLogin(t *testing.T) {
	f := newAuthFixture(t, false)
	first := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"correct"}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"correct"}`)
	require.Equal(t, http.StatusOK, second.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	require.NotNil(t, body["lastLogin"])
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t, false)

	res := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.JSONEq(t, `{"error":"Incorrect password"}`, res.Body.String())
	require.Nil(t, tokenCookie(res))
}

func TestLoginUnknownUser(t *testing.T) {
	f := newAuthFixture(t, false)

	res := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"nobody","password":"x"}`)
	require.Equal(t, http.StatusNotFound, res.Code)
	require.JSONEq(t, `{"error":"User not found"}`, res.Body.String())
	require.Nil(t, tokenCookie(res))
}

func TestLoginLongCredentialsAreNotInputErrors(t *testing.T) {
	f := newAuthFixture(t, false)

	res := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"`+strings.Repeat("n", 300)+`","password":"x"}`)
	require.Equal(t, http.StatusNotFound, res.Code)

	res = f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"correct`+strings.Repeat("x", 300)+`"}`)
	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Nil(t, tokenCookie(res))
}

func TestLoginBadRequest(t *testing.T) {
	f := newAuthFixture(t, false)

	for _, body := range []string{`{`, `{"username":"alice"}`, `{"password":"correct"}`} {
		res := f.do(t, http.MethodPost, "/api/auth/login", body)
		require.Equal(t, http.StatusBadRequest, res.Code, body)
	}
}

func TestLoginStoreFailure(t *testing.T) {
	f := newAuthFixture(t, false)
	f.repo.findErr = errStoreDown

	res := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"correct"}`)
	require.Equal(t, http.StatusInternalServerError, res.Code)
	require.JSONEq(t, `{"error":"Internal server error"}`, res.Body.String())
}

func TestCheckWithCookie(t *testing.T) {
	f := newAuthFixture(t, false)
	login := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"correct"}`)
	cookie := tokenCookie(login)
	require.NotNil(t, cookie)

	res := f.do(t, http.MethodGet, "/api/auth/check", "", cookie)
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `{"id":1,"username":"alice","role":1}`, res.Body.String())

	res = f.do(t, http.MethodGet, "/api/auth/check", "")
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestCookieTakesPrecedenceOverHeader(t *testing.T) {
	f := newAuthFixture(t, false)
	login := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"correct"}`)
	cookie := tokenCookie(login)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: "garbage"})
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newAuthFixture(t, false)

	for i := 0; i < 2; i++ {
		res := f.do(t, http.MethodPost, "/api/auth/logout", "")
		require.Equal(t, http.StatusOK, res.Code)
		require.JSONEq(t, `{"message":"Logout successful"}`, res.Body.String())
		cookie := tokenCookie(res)
		require.NotNil(t, cookie)
		require.Empty(t, cookie.Value)
		require.Less(t, cookie.MaxAge, 0)
	}
}

func TestLogoutWithoutDenylistLeavesTokenValid(t *testing.T) {
	f := newAuthFixture(t, false)
	cookie := tokenCookie(f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"correct"}`))

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/auth/logout", "", cookie).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/auth/check", "", cookie).Code)
}

func TestLogoutWithDenylistRevokesToken(t *testing.T) {
	f := newAuthFixture(t, true)
	cookie := tokenCookie(f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"correct"}`))
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/auth/check", "", cookie).Code)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/auth/logout", "", cookie).Code)
	require.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/auth/check", "", cookie).Code)
}

func TestDeletedAccountTokenRejected(t *testing.T) {
	f := newAuthFixture(t, false)
	cookie := tokenCookie(f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"correct"}`))
	f.repo.remove(1)

	res := f.do(t, http.MethodGet, "/api/auth/check", "", cookie)
	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.JSONEq(t, `{"error":"Authentication required"}`, res.Body.String())
}
