package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/nurudeen19/rag-fortress/internal/interfaces/http"
	"github.com/nurudeen19/rag-fortress/pkg/token"
)

const (
	testUserID = "00000000-0000-0000-0000-000000000001"
)

func testIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	issuer, err := token.NewIssuer("test-secret-key-for-unit-tests!!", "rag-fortress-test", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return issuer
}

func buildTestApp(t *testing.T, issuer *token.Issuer, allowedRoles ...string) *fiber.App {
	t.Helper()
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.AuthRequired(issuer)}
	if len(allowedRoles) > 0 {
		handlers = append(handlers, apphttp.RequireRole(allowedRoles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"role":      apphttp.GetRole(c),
			"clearance": apphttp.GetClearance(c),
		})
	})
	app.Get("/protected", handlers...)
	return app
}

func accessToken(t *testing.T, issuer *token.Issuer, role string, clearance int) string {
	t.Helper()
	tok, err := issuer.Access(testUserID, role, clearance)
	require.NoError(t, err)
	return tok
}

func get(t *testing.T, app *fiber.App, mutate func(*http.Request)) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if mutate != nil {
		mutate(req)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthRequired_CookieToken(t *testing.T) {
	issuer := testIssuer(t)
	app := buildTestApp(t, issuer)

	resp := get(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: apphttp.AccessCookie, Value: accessToken(t, issuer, "analyst", 3)})
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "analyst", body["role"])
	assert.Equal(t, float64(3), body["clearance"])
}

func TestAuthRequired_BearerFallback(t *testing.T) {
	issuer := testIssuer(t)
	app := buildTestApp(t, issuer)

	resp := get(t, app, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+accessToken(t, issuer, "viewer", 1))
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired_NoToken(t *testing.T) {
	app := buildTestApp(t, testIssuer(t))

	resp := get(t, app, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthRequired_GarbageToken(t *testing.T) {
	app := buildTestApp(t, testIssuer(t))

	resp := get(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: apphttp.AccessCookie, Value: "not.a.jwt"})
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_RefreshTokenRejected(t *testing.T) {
	issuer := testIssuer(t)
	app := buildTestApp(t, issuer)

	refresh, _, err := issuer.Refresh(testUserID, "analyst", 3)
	require.NoError(t, err)

	// A refresh token must not authenticate API calls.
	resp := get(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: apphttp.AccessCookie, Value: refresh})
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_AllowsListedRole(t *testing.T) {
	issuer := testIssuer(t)
	app := buildTestApp(t, issuer, "admin", "analyst")

	resp := get(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: apphttp.AccessCookie, Value: accessToken(t, issuer, "analyst", 3)})
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_BlocksOtherRoles(t *testing.T) {
	issuer := testIssuer(t)
	app := buildTestApp(t, issuer, "admin")

	resp := get(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: apphttp.AccessCookie, Value: accessToken(t, issuer, "viewer", 1)})
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}
