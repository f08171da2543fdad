package api

import (
	"net/http"
	"strings"

	"labelhub/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	currentUserContextKey = "current-user"
)

// sessionToken 读取 Bearer 头，其次读取会话 Cookie
func (h *HTTPHandler) sessionToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	cookie, err := c.Cookie(h.cfg.SessionCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie)
}

// AuthMiddleware 会话认证中间件
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := h.sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:     ErrCodeUnauthorized,
				Message:  "authentication required",
				Flash:    dangerFlash("Please log in to continue."),
				Redirect: "/login",
			})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		principal, err := h.services.Auth.Resolve(ctx, token)
		if err != nil {
			logrus.WithError(err).WithField("path", c.Request.URL.Path).Warn("session rejected")
			h.clearSessionCookie(c)
			respondError(c, err, "/login")
			return
		}

		c.Set(currentUserContextKey, principal)
		c.Next()
	}
}

// RequirePermission 权限守卫中间件
func (h *HTTPHandler) RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentPrincipal(c).HasPermission(code) {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeForbidden,
				Message: "missing permission " + code,
				Flash:   dangerFlash("You do not have permission to access this page."),
			})
			return
		}
		c.Next()
	}
}

// CurrentPrincipal 从上下文获取当前认证用户
func CurrentPrincipal(c *gin.Context) *auth.Principal {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*auth.Principal)
	if !ok {
		return nil
	}
	return principal
}
