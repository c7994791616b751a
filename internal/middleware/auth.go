package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gatherhall/plugin-trust/internal/dto/response"
	"github.com/gatherhall/plugin-trust/internal/security"
	apperrors "github.com/gatherhall/plugin-trust/pkg/errors"
)

// AuthMiddleware provides authentication middleware
type AuthMiddleware struct {
	jwtProvider     *security.JWTProvider
	securityService *security.SecurityService
}

// NewAuthMiddleware creates a new AuthMiddleware instance
func NewAuthMiddleware(jwtProvider *security.JWTProvider, securityService *security.SecurityService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtProvider:     jwtProvider,
		securityService: securityService,
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// Authenticate validates the session token and sets the claims in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, response.NewError[any](apperrors.CodeLoginRequired, "login required"))
			c.Abort()
			return
		}

		claims, err := m.jwtProvider.ValidateToken(token)
		if err != nil {
			switch err {
			case security.ErrExpiredToken:
				c.JSON(http.StatusUnauthorized, response.NewError[any](apperrors.CodeLoginRequired, "token has expired"))
			default:
				c.JSON(http.StatusUnauthorized, response.NewError[any](apperrors.CodeLoginRequired, "invalid token"))
			}
			c.Abort()
			return
		}

		m.securityService.SetCurrentClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth validates the session token if present but doesn't require it
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			if claims, err := m.jwtProvider.ValidateToken(token); err == nil {
				m.securityService.SetCurrentClaims(c, claims)
			}
		}
		c.Next()
	}
}
