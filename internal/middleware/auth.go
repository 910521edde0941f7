package middleware

import (
	"context"
	"net/http"
	"strings"

	"project-tracker-api/internal/auth"
	"project-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user's id.
const UserIDKey = "user_id"

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// UserLookup resolves the token subject to a stored user.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// JWTAuthMiddleware validates the bearer token in the Authorization header
// and stores the id of the user it names under UserIDKey.
func JWTAuthMiddleware(tokens TokenVerifier, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenString = strings.TrimSpace(parts[1])
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			return
		}

		claims, err := tokens.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		// a token for a deleted or deactivated account is no longer valid
		user, err := users.GetByEmail(c.Request.Context(), claims.Subject)
		if err != nil || !user.IsActive {
			Logger(c).WithField("subject", claims.Subject).Debug("token subject rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}
