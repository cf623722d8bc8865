package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medivault/medivault-api/internal/models"
	"github.com/medivault/medivault-api/internal/store"
	"github.com/medivault/medivault-api/internal/token"
	"github.com/medivault/medivault-api/internal/utils"
)

// Cookie names shared with the auth handlers.
const (
	AccessTokenCookie  = "AccessToken"
	RefreshTokenCookie = "RefreshToken"
)

const identityKey = "identity"

// RequireAuth resolves the access token into an authenticated identity and
// stores it on the request context. The cookie takes precedence over the
// Authorization header. The identity is looked up in the patient collection
// first, then the doctor collection.
func RequireAuth(ids store.IdentityStore, tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractAccessToken(c)
		if tokenStr == "" {
			utils.Abort(c, utils.Unauthorized("Access token not provided"))
			return
		}

		claims, err := tokens.VerifyAccess(tokenStr)
		if err != nil {
			if err == token.ErrTokenExpired {
				utils.Abort(c, utils.Unauthorized("Access token expired"))
				return
			}
			utils.Abort(c, utils.Unauthorized("Invalid access token"))
			return
		}

		identity, err := ids.FindByID(c.Request.Context(), models.RolePatient, claims.UserID)
		if err == store.ErrNotFound {
			identity, err = ids.FindByID(c.Request.Context(), models.RoleDoctor, claims.UserID)
		}
		if err != nil {
			if err == store.ErrNotFound {
				utils.Abort(c, utils.Unauthorized("User not found. Token may be invalid"))
				return
			}
			utils.Abort(c, err)
			return
		}

		c.Set(identityKey, identity.Sanitized())
		c.Next()
	}
}

// RequireDoctor rejects requests whose authenticated identity is not a doctor.
func RequireDoctor() gin.HandlerFunc {
	return requireRole(models.RoleDoctor, "Only doctors can access this resource")
}

// RequirePatient rejects requests whose authenticated identity is not a patient.
func RequirePatient() gin.HandlerFunc {
	return requireRole(models.RolePatient, "Only patients can access this resource")
}

func requireRole(role models.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok || identity.Role() != role {
			utils.Abort(c, utils.Forbidden(message))
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity attached by RequireAuth.
func CurrentIdentity(c *gin.Context) (*models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*models.Identity)
	return identity, ok
}

func extractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}
