package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/online-market/internal/model"
	"github.com/iliyamo/online-market/internal/utils"
)

const gateSecret = "gate-test-secret"

func TestExtractBearer(t *testing.T) {
	tok, ok := ExtractBearer("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", tok)

	_, ok = ExtractBearer("")
	assert.False(t, ok)
	_, ok = ExtractBearer("Basic dXNlcjpwYXNz")
	assert.False(t, ok)
	_, ok = ExtractBearer("bearer lowercase-scheme")
	assert.False(t, ok)
}

// gateRequest runs a request with the given Authorization header through
// JWTAuth in front of a handler that echoes the stored principal.
func gateRequest(t *testing.T, authHeader string) (*httptest.ResponseRecorder, model.Principal, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got model.Principal
	var seen bool
	h := JWTAuth(gateSecret)(func(c echo.Context) error {
		got, seen = CurrentPrincipal(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, got, seen
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _, seen := gateRequest(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, seen)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuthMalformedToken(t *testing.T) {
	rec, _, seen := gateRequest(t, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, seen)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuthExpiredToken(t *testing.T) {
	st, err := utils.NewAccessToken(gateSecret, model.Principal{ID: 1, Email: "a@b.c", Role: model.RoleBuyer}, -1)
	require.NoError(t, err)

	rec, _, seen := gateRequest(t, "Bearer "+st.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, seen)
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	st, err := utils.NewRefreshToken(gateSecret, model.Principal{ID: 1, Email: "a@b.c", Role: model.RoleBuyer}, 7)
	require.NoError(t, err)

	rec, _, seen := gateRequest(t, "Bearer "+st.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, seen)
	assert.Contains(t, rec.Body.String(), "wrong token type")
}

func TestJWTAuthValidToken(t *testing.T) {
	p := model.Principal{ID: 7, Email: "seller@example.com", Role: model.RoleSeller}
	st, err := utils.NewAccessToken(gateSecret, p, 15)
	require.NoError(t, err)

	rec, got, seen := gateRequest(t, "Bearer "+st.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, seen)
	assert.Equal(t, p, got)
}
