package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/riadice/riadice-backend/internal/access"
	"github.com/riadice/riadice-backend/internal/app/service"
	apperrors "github.com/riadice/riadice-backend/internal/errors"
	"github.com/riadice/riadice-backend/pkg/util"
)

// Context keys
const (
	gateKey    = "access_gate"
	sessionKey = "session"
	claimsKey  = "token_claims"
)

type AuthMiddleware struct {
	authService service.AuthService
	roleService service.RoleService
	loginPath   string
}

func NewAuthMiddleware(authService service.AuthService, roleService service.RoleService, loginPath string) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		roleService: roleService,
		loginPath:   loginPath,
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// denyUnauthenticated sends browsers to the login page and gives API clients a 401 that says where to go.
func (m *AuthMiddleware) denyUnauthenticated(c *gin.Context) {
	if wantsHTML(c) {
		c.Redirect(http.StatusFound, m.loginPath)
	} else {
		apperrors.RespondUnauthenticated(c, m.loginPath)
	}
	c.Abort()
}

func isAuthFailure(err error) bool {
	return errors.Is(err, util.ErrInvalidToken) ||
		errors.Is(err, util.ErrExpiredToken) ||
		errors.Is(err, service.ErrWrongTokenType) ||
		errors.Is(err, service.ErrTokenRevoked) ||
		errors.Is(err, service.ErrUserNotFound)
}

// Authenticate resolves the identity behind the bearer token
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)
		gate := access.NewGate()
		c.Set(gateKey, gate)

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Missing or malformed authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			gate.ObserveIdentity(nil)
			m.denyUnauthenticated(c)
			return
		}

		session, claims, err := m.authService.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			if !isAuthFailure(err) {
				log.Error("Failed to verify access token", err)
				apperrors.InternalError(c, "")
				c.Abort()
				return
			}
			log.Warn("Token rejected", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			gate.ObserveIdentity(nil)
			m.denyUnauthenticated(c)
			return
		}

		gate.ObserveIdentity(session)
		c.Set(sessionKey, *session)
		c.Set(claimsKey, claims)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": session.UserID,
		})
		c.Next()
	}
}

// RequireStaff is the admin-area boundary. The role is read from the database on every request.
func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		v, _ := c.Get(gateKey)
		gate, ok := v.(*access.Gate)
		if !ok {
			m.denyUnauthenticated(c)
			return
		}
		session, ok := GetSession(c)
		if ok {
			role, err := m.roleService.Resolve(session.UserID)
			if err != nil {
				log.Error("Role resolution failed", err, map[string]interface{}{
					"user_id": session.UserID,
				})
				apperrors.InternalError(c, "")
				c.Abort()
				return
			}
			gate.ObserveRole(role)
		}

		switch gate.State() {
		case access.StateGranted:
			granted, _ := gate.Session()
			c.Set(sessionKey, granted)
			c.Next()
		case access.StateDeniedUnauthorized:
			log.Warn("Access denied: no staff role", map[string]interface{}{
				"user_id": session.UserID,
				"path":    c.Request.URL.Path,
			})
			apperrors.Forbidden(c, "")
			c.Abort()
		default:
			m.denyUnauthenticated(c)
		}
	}
}

// RequireAdmin guards admin-only actions; it runs after RequireStaff.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok || !session.IsAdmin() {
			GetLoggerFromContext(c).Warn("Access denied: admin only", map[string]interface{}{
				"user_id": session.UserID,
				"role":    session.Role,
				"path":    c.Request.URL.Path,
			})
			apperrors.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession returns the acting session stored by Authenticate (role filled in by RequireStaff).
func GetSession(c *gin.Context) (access.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return access.Session{}, false
	}
	s, ok := v.(access.Session)
	return s, ok
}

func GetClaims(c *gin.Context) (*util.Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*util.Claims)
	return claims, ok
}
