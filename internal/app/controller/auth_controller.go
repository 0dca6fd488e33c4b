package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/service"
	apperrors "github.com/riadice/riadice-backend/internal/errors"
	"github.com/riadice/riadice-backend/internal/middleware"
	"github.com/riadice/riadice-backend/pkg/util"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type SignUpRequest struct {
	Email     string     `json:"email" binding:"required,email"`
	Password  string     `json:"password" binding:"required,min=6"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      model.Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func userJSON(identity *model.Identity) gin.H {
	return gin.H{
		"id":    identity.ID,
		"email": identity.Email,
	}
}

// SignUp handles public self sign-up (disabled unless AUTH_ALLOW_SIGNUP)
// POST /api/v1/auth/signup
func (ctrl *AuthController) SignUp(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid sign-up request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the email and password")
		return
	}

	identity, tokens, err := ctrl.authService.SignUp(req.Email, req.Password, model.IdentityMetadata{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSignupDisabled):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthSignupDisabled, "Sign-up is disabled. Ask an admin for an account")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "This email is already registered")
		default:
			respondError(c, err, "create account")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created",
		"user":    userJSON(identity),
		"tokens":  tokens,
	})
}

// Login handles email/password sign-in
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the email and password")
		return
	}

	identity, tokens, err := ctrl.authService.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		respondError(c, err, "sign in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed in",
		"user":    userJSON(identity),
		"tokens":  tokens,
	})
}

// Refresh exchanges a refresh token for a new pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "refresh_token is required")
		return
	}

	tokens, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExpiredToken):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Your session has expired. Please sign in again")
		case errors.Is(err, service.ErrTokenRevoked):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "This session has ended. Please sign in again")
		case errors.Is(err, util.ErrInvalidToken), errors.Is(err, service.ErrWrongTokenType), errors.Is(err, service.ErrUserNotFound):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid refresh token")
		default:
			respondError(c, err, "refresh session")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout revokes the presented access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	if err := ctrl.authService.SignOut(c.Request.Context(), claims); err != nil {
		respondError(c, err, "sign out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Me returns the signed-in identity with its current role
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetCurrentUser(session.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.Unauthorized(c, "")
			return
		}
		respondError(c, err, "load account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
