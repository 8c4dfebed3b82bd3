package middleware

import (
	"net/http"
	"strings"
	"time"

	"rental/internal/domain"
	"rental/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret = []byte("troque-esta-chave-em-producao")

// SetJWTSecret overrides the signing key; called once at startup with the
// configured value.
func SetJWTSecret(s string) {
	if strings.TrimSpace(s) != "" {
		jwtSecret = []byte(s)
	}
}

// SignToken issues a 24h session token for the user.
func SignToken(u models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"name":    u.Name,
		"role":    u.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// RequireAuth validates the Bearer token and stores the user identity on the
// context for handlers and RequireRoles.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token de acesso ausente"})
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token inválido ou expirado"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token inválido"})
			return
		}
		if id, ok := claims["user_id"].(float64); ok {
			c.Set("userID", int64(id))
		}
		if role, ok := claims["role"].(string); ok {
			c.Set("userRole", role)
		}
		if name, ok := claims["name"].(string); ok {
			c.Set("userName", name)
		}
		c.Next()
	}
}

// RequireRoles only lets through requests whose authenticated role is in the
// allowed set. RequireAuth must run earlier in the chain.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString("userRole")
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "perfil do usuário não identificado"})
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "perfil sem permissão para esta operação"})
			return
		}
		c.Next()
	}
}

// RequestUser rebuilds the request identity stored by RequireAuth.
func RequestUser(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{
		UserID:    c.GetInt64("userID"),
		Role:      c.GetString("userRole"),
		FullName:  c.GetString("userName"),
		RequestID: GetRequestID(c),
	}
}
