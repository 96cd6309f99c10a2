package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/vietlabs/base-backend/internal/repository"
	"github.com/vietlabs/base-backend/internal/service"
	"github.com/vietlabs/base-backend/pkg/apperror"
	"github.com/vietlabs/base-backend/pkg/i18n"
	"github.com/vietlabs/base-backend/pkg/response"
)

type AuthMiddleware struct {
	userRepo repository.UserRepository
	roles    service.RoleService
	secret   string
	i18n     *i18n.Translator
}

func NewAuthMiddleware(userRepo repository.UserRepository, roles service.RoleService, secret string, translator *i18n.Translator) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		roles:    roles,
		secret:   secret,
		i18n:     translator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		var claims jwt.RegisteredClaims
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), uint(userID))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// Authorize gates the route behind a capability. An empty capability only
// requires an authenticated, active principal.
func (m *AuthMiddleware) Authorize(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := response.GetLang(c)

		user, err := response.GetUser(c)
		if err != nil {
			response.Error(c, apperror.New(apperror.ErrNotAcceptable, m.i18n.T("auth.user_inactive", lang, nil)))
			c.Abort()
			return
		}

		if !user.IsActive {
			response.Error(c, apperror.New(apperror.ErrNotAcceptable, m.i18n.T("auth.user_inactive", lang, nil)))
			c.Abort()
			return
		}

		if capability == "" {
			c.Next()
			return
		}

		allowed, err := m.roles.Can(c.Request.Context(), user.Roles, capability)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, apperror.New(apperror.ErrForbidden, m.i18n.T("auth.forbidden", lang, nil)))
			c.Abort()
			return
		}

		c.Next()
	}
}
