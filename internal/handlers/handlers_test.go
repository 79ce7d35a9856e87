package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"todoflow/internal/services"
	"todoflow/internal/tools"

	"github.com/gofiber/fiber/v2"
)

// mockAuth simulates the auth middleware with a fixed caller identity.
// An empty userID simulates an anonymous request on an optional-auth route.
func mockAuth(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
}

func decodeBody(t *testing.T, resp io.Reader) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(resp).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{services.ErrUnauthenticated, fiber.StatusUnauthorized},
		{services.ErrAccessDenied, fiber.StatusForbidden},
		{services.ErrNotFound, fiber.StatusNotFound},
		{fmt.Errorf("%w: title is required", services.ErrValidation), fiber.StatusBadRequest},
		{errors.New("mongo blew up"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		app := fiber.New()
		failing := tt.err
		app.Get("/boom", func(c *fiber.Ctx) error {
			return serviceError(c, failing)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != tt.wantStatus {
			t.Errorf("serviceError(%v) status = %d, want %d", tt.err, resp.StatusCode, tt.wantStatus)
		}
	}
}

func TestServiceError_HidesInternalDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return serviceError(c, errors.New("connection string mongodb://secret@host failed"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	body := decodeBody(t, resp.Body)
	if msg, _ := body["error"].(string); strings.Contains(msg, "mongodb://") {
		t.Errorf("internal error details leaked to client: %q", msg)
	}
}

func TestTaskHandler_CreateRejectsInvalidBody(t *testing.T) {
	app := fiber.New()
	handler := NewTaskHandler(nil)
	app.Post("/api/tasks", mockAuth("user-1"), handler.Create)

	req := httptest.NewRequest("POST", "/api/tasks", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestTaskHandler_BulkReorderRequiresItems(t *testing.T) {
	app := fiber.New()
	handler := NewTaskHandler(nil)
	app.Post("/api/tasks/reorder", mockAuth("user-1"), handler.BulkReorder)

	req := httptest.NewRequest("POST", "/api/tasks/reorder", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

// Anonymous list endpoints return empty results, not errors. The service
// short-circuits on the empty user id before touching any collection, so a
// nil service is safe here.
func TestTaskHandler_AnonymousListIsEmpty(t *testing.T) {
	app := fiber.New()
	handler := NewTaskHandler(nil)
	app.Get("/api/tasks", mockAuth(""), handler.List)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/tasks", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	if count, _ := body["count"].(float64); count != 0 {
		t.Errorf("anonymous list count = %v, want 0", body["count"])
	}
}

func TestProjectHandler_CreateRejectsInvalidBody(t *testing.T) {
	app := fiber.New()
	handler := NewProjectHandler(nil)
	app.Post("/api/projects", mockAuth("user-1"), handler.Create)

	req := httptest.NewRequest("POST", "/api/projects", strings.NewReader("not json at all"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestToolsHandler_ListTools(t *testing.T) {
	app := fiber.New()
	handler := NewToolsHandler(tools.NewRegistry(nil, nil, nil))
	app.Get("/api/tools", mockAuth("user-1"), handler.ListTools)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/tools", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	if count, _ := body["count"].(float64); count != 14 {
		t.Errorf("tool count = %v, want 14", body["count"])
	}
}

func TestToolsHandler_ExecuteUnknownTool(t *testing.T) {
	app := fiber.New()
	handler := NewToolsHandler(tools.NewRegistry(nil, nil, nil))
	app.Post("/api/tools/:name/execute", mockAuth("user-1"), handler.ExecuteTool)

	req := httptest.NewRequest("POST", "/api/tools/teleport_task/execute", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAuthHandler_SignupValidation(t *testing.T) {
	app := fiber.New()
	handler := NewLocalAuthHandler(nil, nil, nil)
	app.Post("/api/auth/signup", handler.Signup)

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"abcdefg1"}`},
		{"bad email", `{"email":"nope","password":"abcdefg1"}`},
		{"weak password", `{"email":"a@b.com","password":"short"}`},
		{"no digits", `{"email":"a@b.com","password":"allletters"}`},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", tt.name, err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, resp.StatusCode)
		}
	}
}

func TestAuthHandler_RefreshRequiresToken(t *testing.T) {
	app := fiber.New()
	handler := NewLocalAuthHandler(nil, nil, nil)
	app.Post("/api/auth/refresh", handler.Refresh)

	req := httptest.NewRequest("POST", "/api/auth/refresh", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
