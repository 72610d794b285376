package middleware

import (
	"net/http"
	"strings"

	"task-management-system/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// PrincipalKey is the gin context key the authenticated Principal is
// stored under.
const PrincipalKey = "principal"

// AuthTokenCookie matches the cookie the login handler sets, so browser
// clients work without an Authorization header.
const AuthTokenCookie = "authToken"

type AuthzConfig struct {
	Secret string
	Issuer string
}

// AuthMiddleware validates the caller's token and stores the resulting
// Principal in the request context. An unparseable id claim yields the
// anonymous sentinel id, which never matches a real owner.
func AuthMiddleware(config AuthzConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "missing_token",
				"message": "Authorization header or auth cookie is required",
			})
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.Secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Token validation failed",
			})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_claims",
				"message": "Token claims are invalid",
			})
			return
		}

		if config.Issuer != "" {
			if iss, _ := claims["iss"].(string); iss != config.Issuer {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "invalid_issuer",
					"message": "Token issuer is invalid",
				})
				return
			}
		}

		userID, _ := claims["user_id"].(string)
		role, _ := claims["role"].(string)

		c.Set(PrincipalKey, models.NewPrincipal(userID, role))
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Admins always pass.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "not_authenticated",
				"message": "Authentication is required",
			})
			return
		}

		if principal.IsAdmin() {
			c.Next()
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "insufficient_role",
			"message": "User role does not have access to this resource",
		})
	}
}

// CurrentPrincipal fetches the Principal placed by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return models.Principal{}, false
	}

	principal, ok := value.(models.Principal)
	return principal, ok
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := c.Cookie(AuthTokenCookie); err == nil {
		return cookie
	}

	return ""
}
