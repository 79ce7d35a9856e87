package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"todoflow/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

func testJWTAuth(t *testing.T) *auth.LocalJWTAuth {
	t.Helper()
	jwtAuth, err := auth.NewLocalJWTAuth("middleware-test-secret", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("failed to create jwt auth: %v", err)
	}
	return jwtAuth
}

func identityEcho() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.JSON(fiber.Map{"user_id": userID})
	}
}

func TestLocalAuthMiddleware_RejectsMissingToken(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", LocalAuthMiddleware(testJWTAuth(t)), identityEcho())

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLocalAuthMiddleware_RejectsGarbageToken(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", LocalAuthMiddleware(testJWTAuth(t)), identityEcho())

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLocalAuthMiddleware_AcceptsValidToken(t *testing.T) {
	jwtAuth := testJWTAuth(t)
	app := fiber.New()
	app.Get("/protected", LocalAuthMiddleware(jwtAuth), identityEcho())

	access, _, err := jwtAuth.GenerateTokens("user-42", "u@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestOptionalLocalAuthMiddleware_AnonymousProceeds(t *testing.T) {
	app := fiber.New()
	app.Get("/list", OptionalLocalAuthMiddleware(testJWTAuth(t)), identityEcho())

	resp, err := app.Test(httptest.NewRequest("GET", "/list", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestOptionalLocalAuthMiddleware_InvalidTokenIsAnonymous(t *testing.T) {
	app := fiber.New()
	app.Get("/list", OptionalLocalAuthMiddleware(testJWTAuth(t)), identityEcho())

	req := httptest.NewRequest("GET", "/list", nil)
	req.Header.Set("Authorization", "Bearer expired.or.garbage")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200 (anonymous fallback)", resp.StatusCode)
	}
}
