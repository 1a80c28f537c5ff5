package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/config"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

const (
	ContextAdminID   = "adminID"
	ContextAdminRole = "adminRole"
)

func abortUnauthorized(c *gin.Context, code string) {
	httperr.Unauthorized(c, code, "Требуется авторизация.")
	c.Abort()
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid_authorization_header")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid_token_claims")
			return
		}

		userID, ok1 := claims["user_id"].(float64)
		role, _ := claims["role"].(string)
		if !ok1 {
			abortUnauthorized(c, "invalid_token_payload")
			return
		}

		c.Set(ContextAdminID, int64(userID))
		c.Set(ContextAdminRole, role)

		c.Next()
	}
}

// RequireSuperAdmin gates roster-changing endpoints behind the highest role.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextAdminRole)
		if role != models.RoleSuperAdmin {
			httperr.Forbidden(c, "super_admin_required", "Недостаточно прав.")
			c.Abort()
			return
		}
		c.Next()
	}
}
