package api

import (
	"net/http"
	"strings"
	"time"

	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MeResponse 当前用户及其权限
type MeResponse struct {
	User        entity.UserSummary `json:"user"`
	Grant       auth.GrantKind     `json:"grant"`
	Permissions []string           `json:"permissions"`
	IsAdmin     bool               `json:"is_admin"`
	IsEditor    bool               `json:"is_editor"`
}

// LoginStatus 返回当前会话状态
func (h *HTTPHandler) LoginStatus(c *gin.Context) {
	token := h.sessionToken(c)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	principal, err := h.services.Auth.Resolve(ctx, token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          entity.NewUserSummary(principal.User),
		"flash":         &entity.Flash{Category: entity.FlashInfo, Message: "You are already logged in."},
		"redirect":      "/dashboard",
	})
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.services.Auth.Login(ctx, strings.TrimSpace(req.Username), req.Password, service.ClientInfo{
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
	})
	if err != nil {
		logrus.WithError(err).WithField("username", req.Username).Warn("login attempt failed")
		respondError(c, err, "/login")
		return
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	c.JSON(http.StatusOK, entity.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      entity.NewUserSummary(result.User),
		Flash:     successFlash("Welcome back, " + displayName(result.User) + "."),
	})
}

// Logout 注销会话并清除 Cookie；未登录时同样成功
func (h *HTTPHandler) Logout(c *gin.Context) {
	if token := h.sessionToken(c); token != "" {
		ctx, cancel := requestContext(c)
		defer cancel()
		if err := h.services.Auth.Logout(ctx, token); err != nil {
			logrus.WithError(err).Warn("failed to delete session")
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"flash":    &entity.Flash{Category: entity.FlashInfo, Message: "You have been logged out."},
		"redirect": "/login",
	})
}

func (h *HTTPHandler) Me(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if !principal.IsAuthenticated() {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	permissions, err := h.repo.ListPermissions(ctx)
	if err != nil {
		respondError(c, err, "")
		return
	}
	codes := make([]string, 0, len(permissions))
	for _, perm := range permissions {
		if principal.HasPermission(perm.Code) {
			codes = append(codes, perm.Code)
		}
	}

	c.JSON(http.StatusOK, MeResponse{
		User:        entity.NewUserSummary(principal.User),
		Grant:       principal.Grant.Kind(),
		Permissions: codes,
		IsAdmin:     principal.IsAdmin(),
		IsEditor:    principal.IsEditor(),
	})
}

func (h *HTTPHandler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookieName, token, maxAge, "/", "", h.cfg.SessionCookieSecure, true)
}

func (h *HTTPHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookieName, "", -1, "/", "", h.cfg.SessionCookieSecure, true)
}

func displayName(user *entity.User) string {
	if user == nil {
		return ""
	}
	if name := strings.TrimSpace(user.DisplayName); name != "" {
		return name
	}
	return user.Username
}
