package middleware

import (
	"debate_backend/internal/config"
	"debate_backend/internal/model"
	"debate_backend/internal/util"
	"debate_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bearerToken 优先读取 Authorization 头，其次 ?token=
func bearerToken(c *gin.Context) string {
	tokenString := util.BearerToken(c.GetHeader("Authorization"))
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	return tokenString
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			util.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// TryAuthMiddleware 可选认证：令牌有效时写入上下文，无效或缺失时按匿名继续
func TryAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
				c.Set(util.ContextUserKey, claims)
			}
		}
		c.Next()
	}
}

// RequireKind 必须在 AuthMiddleware 之后使用
func RequireKind(kind model.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if user.Kind != kind {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
