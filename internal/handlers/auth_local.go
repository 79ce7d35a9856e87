package handlers

import (
	"errors"
	"log"
	"strings"

	"todoflow/internal/models"
	"todoflow/internal/services"
	"todoflow/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

// LocalAuthHandler handles local JWT authentication endpoints
type LocalAuthHandler struct {
	jwtAuth        *auth.LocalJWTAuth
	userService    *services.UserService
	projectService *services.ProjectService
}

// NewLocalAuthHandler creates a new local auth handler
func NewLocalAuthHandler(jwtAuth *auth.LocalJWTAuth, userService *services.UserService, projectService *services.ProjectService) *LocalAuthHandler {
	return &LocalAuthHandler{
		jwtAuth:        jwtAuth,
		userService:    userService,
		projectService: projectService,
	}
}

// Signup creates a new user account and seeds their default project
// POST /api/auth/signup
func (h *LocalAuthHandler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Valid email address is required",
		})
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Failed to hash password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	user, err := h.userService.Create(c.Context(), req.Email, req.Name, passwordHash)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "User with this email already exists",
			})
		}
		return serviceError(c, err)
	}

	// Every account starts with an Inbox so task creation always has a
	// project to target. Signup still succeeds if seeding fails.
	if _, err := h.projectService.Create(c.Context(), user.ID.Hex(), &models.CreateProjectRequest{
		Name:  "Inbox",
		Color: "#246fe0",
	}); err != nil {
		log.Printf("⚠️  Failed to seed Inbox project for %s: %v", user.Email, err)
	}

	log.Printf("✅ User registered: %s", user.Email)
	return h.respondWithTokens(c, fiber.StatusCreated, user)
}

// Login verifies credentials and issues a token pair
// POST /api/auth/login
func (h *LocalAuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.userService.GetByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid email or password",
			})
		}
		return serviceError(c, err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil || !valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	if err := h.userService.TouchLastLogin(c.Context(), user.ID); err != nil {
		log.Printf("⚠️  Failed to record login for %s: %v", user.Email, err)
	}

	return h.respondWithTokens(c, fiber.StatusOK, user)
}

// Refresh exchanges a valid refresh token for a new token pair
// POST /api/auth/refresh
func (h *LocalAuthHandler) Refresh(c *fiber.Ctx) error {
	var req models.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "refresh_token is required",
		})
	}

	claims, err := h.jwtAuth.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired refresh token",
		})
	}

	user, err := h.userService.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired refresh token",
		})
	}

	return h.respondWithTokens(c, fiber.StatusOK, user)
}

// Me returns the authenticated user's profile
// GET /api/auth/me
func (h *LocalAuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.userService.GetByID(c.Context(), callerID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user.ToResponse())
}

func (h *LocalAuthHandler) respondWithTokens(c *fiber.Ctx, status int, user *models.User) error {
	accessToken, refreshToken, err := h.jwtAuth.GenerateTokens(user.ID.Hex(), user.Email)
	if err != nil {
		log.Printf("❌ Failed to generate tokens: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate tokens",
		})
	}

	return c.Status(status).JSON(models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	})
}
