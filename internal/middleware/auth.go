package middleware

import (
	"net/http"
	"strings"

	"visacenter_backend/internal/auth"
	"visacenter_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - проверка JWT из заголовка Authorization
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// Сохраняем claims в контекст
		c.Set("userID", claims.UserID)
		c.Set("role", models.UserRole(claims.Role))
		c.Next()
	}
}

// RequirePermission - гейт через явную политику (роль, ресурс, действие)
func RequirePermission(resource auth.Resource, action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := currentRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		if !auth.Allowed(role, resource, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware - короткий гейт только для админа
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := currentRole(c)
		if !ok || role != models.UserRoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: admin only"})
			return
		}
		c.Next()
	}
}

func currentRole(c *gin.Context) (models.UserRole, bool) {
	roleVal, exists := c.Get("role")
	if !exists {
		return "", false
	}

	role, ok := roleVal.(models.UserRole)
	if !ok {
		// Роль могла быть сохранена строкой
		roleStr, isString := roleVal.(string)
		if !isString {
			return "", false
		}
		role = models.UserRole(roleStr)
	}
	return role, true
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}
	return id
}
