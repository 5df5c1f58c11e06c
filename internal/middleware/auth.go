package middleware

import (
	"strings"

	"math_tutor_backend/internal/config"
	"math_tutor_backend/internal/repository"
	"math_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and then re-resolves the
// user row, so tokens for deleted accounts stop working immediately.
func AuthMiddleware(cfg *config.Config, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Unauthorized(c, "Token is missing!")
			c.Abort()
			return
		}

		const scheme = "Bearer "
		if !strings.HasPrefix(authHeader, scheme) {
			util.Unauthorized(c, "Token is invalid!")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, scheme)
		if tokenString == "" {
			util.Unauthorized(c, "Token is missing!")
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c, "Token is invalid!")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			util.Unauthorized(c, "User not found!")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
