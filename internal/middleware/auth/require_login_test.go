package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, userID uint, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": float64(userID), "exp": exp.Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func run(t *testing.T, req *http.Request) (error, echo.Context) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	mw := RequireLogin(testSecret)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return err, c
}

func TestRequireLoginCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: signToken(t, 5, time.Now().Add(time.Hour))})

	err, c := run(t, req)
	require.NoError(t, err)

	id, ok := UserID(c)
	require.True(t, ok)
	require.Equal(t, uint(5), id)
}

func TestRequireLoginBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, 8, time.Now().Add(time.Hour)))

	err, c := run(t, req)
	require.NoError(t, err)

	id, _ := UserID(c)
	require.Equal(t, uint(8), id)
}

func TestRequireLoginMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	err, _ := run(t, req)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireLoginExpiredToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: signToken(t, 5, time.Now().Add(-time.Hour))})

	err, _ := run(t, req)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestOptionalUserIDWithoutToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	require.Equal(t, uint(0), OptionalUserID(c, testSecret))
}

func TestOptionalUserIDWithCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: signToken(t, 3, time.Now().Add(time.Hour))})
	c := e.NewContext(req, httptest.NewRecorder())

	require.Equal(t, uint(3), OptionalUserID(c, testSecret))
}
