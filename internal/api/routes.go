package api

import (
	"net/http"

	"labelhub/internal/entity"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 挂载全部路由
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	r.GET("/login", h.LoginStatus)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	h.mountFiles(r)

	protected := r.Group("")
	protected.Use(h.AuthMiddleware())
	protected.GET("/me", h.Me)
	protected.GET("/dashboard", h.Dashboard)
	protected.GET("/gallery", h.Gallery)

	svc := h.services
	artists := newResource[entity.Artist, entity.ArtistRequest](h, "artists", "Artist", svc.Artists, nil).register(protected)
	h.registerMembers(artists)

	newResource[entity.Album, entity.AlbumRequest](h, "albums", "Album", svc.Albums, gin.H{
		"type":   entity.AlbumTypes,
		"format": entity.AlbumFormats,
	}).register(protected)
	newResource[entity.Track, entity.TrackRequest](h, "tracks", "Track", svc.Tracks, nil).register(protected)
	newResource[entity.Track, entity.TrackRequest](h, "singles", "Single", svc.Singles, nil).register(protected)
	newResource[entity.Event, entity.EventRequest](h, "events", "Event", svc.Events, gin.H{
		"type":   entity.EventTypes,
		"status": entity.EventStatuses,
	}).register(protected)

	news := newResource[entity.News, entity.NewsRequest](h, "news", "News", svc.News.ContentService, gin.H{
		"kind": []string{entity.NewsKindInternal, entity.NewsKindExternal},
	})
	news.view = svc.News.View
	news.register(protected).POST("/:id/publish", h.PublishNews)

	newResource[entity.Service, entity.ServiceRequest](h, "services", "Service", svc.Offerings, gin.H{
		"currency": entity.Currencies,
	}).register(protected)
	newResource[entity.StaffMember, entity.StaffRequest](h, "staff", "Staff member", svc.Staff, nil).register(protected)
	newResource[entity.Document, entity.DocumentRequest](h, "documents", "Document", svc.Documents, gin.H{
		"visibility": []string{entity.VisibilityPrivate, entity.VisibilityPublic},
	}).register(protected).GET("/:id/download", h.DownloadDocument)

	users := protected.Group("/users")
	users.GET("", h.ListUsers)
	users.GET("/new", h.RequirePermission("users.create"), h.NewUserForm)
	users.POST("/new", h.CreateUser)
	users.GET("/:id", h.GetUser)
	users.GET("/:id/edit", h.EditUserForm)
	users.POST("/:id/edit", h.UpdateUser)
	users.POST("/:id/toggle", h.ToggleUser)
	users.POST("/:id/delete", h.DeleteUser)

	roles := protected.Group("/roles")
	roles.Use(h.RequirePermission("roles.manage"))
	roles.GET("", h.ListRoles)
	roles.GET("/new", h.NewRoleForm)
	roles.POST("/new", h.CreateRole)
	roles.GET("/:id", h.GetRole)
	roles.GET("/:id/edit", h.EditRoleForm)
	roles.POST("/:id/edit", h.UpdateRole)
	roles.POST("/:id/delete", h.DeleteRole)
	protected.GET("/permissions", h.ListPermissions)
}
