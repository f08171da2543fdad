package api

import (
	"fmt"
	"net/http"

	"labelhub/internal/entity"

	"github.com/gin-gonic/gin"
)

var legacyRoles = []string{entity.LegacyRoleUser, entity.LegacyRoleEditor, entity.LegacyRoleAdmin}

func userURL(id uint, suffix string) string {
	if id == 0 {
		return "/users" + suffix
	}
	return fmt.Sprintf("/users/%d%s", id, suffix)
}

func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	users, meta, err := h.services.Users.List(ctx, CurrentPrincipal(c), &query)
	if err != nil {
		respondError(c, err, "/dashboard")
		return
	}

	response := entity.UserListResponse{
		Users: make([]entity.UserSummary, 0, len(users)),
		Meta:  meta,
	}
	for idx := range users {
		response.Users = append(response.Users, entity.NewUserSummary(&users[idx]))
	}
	c.JSON(http.StatusOK, response)
}

// userForm 返回可分配的角色
func (h *HTTPHandler) userForm(c *gin.Context) (gin.H, error) {
	ctx, cancel := requestContext(c)
	defer cancel()

	roles, _, err := h.repo.ListRoles(ctx, &entity.RoleQuery{BaseParams: entity.BaseParams{PageSize: 100}})
	if err != nil {
		return nil, err
	}
	options := make([]gin.H, 0, len(roles))
	for _, role := range roles {
		options = append(options, gin.H{"id": role.ID, "name": role.Name, "is_system": role.IsSystem})
	}
	return gin.H{"roles": options, "legacy_roles": legacyRoles}, nil
}

func (h *HTTPHandler) NewUserForm(c *gin.Context) {
	form, err := h.userForm(c)
	if err != nil {
		respondError(c, err, userURL(0, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": form})
}

func (h *HTTPHandler) CreateUser(c *gin.Context) {
	var req entity.UserCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindingError(err), userURL(0, "/new"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.services.Users.Create(ctx, CurrentPrincipal(c), req)
	if err != nil {
		respondError(c, err, userURL(0, "/new"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":     entity.NewUserSummary(user),
		"flash":    successFlash(fmt.Sprintf("User %q created.", user.Username)),
		"redirect": userURL(user.ID, ""),
	})
}

func (h *HTTPHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.services.Users.Get(ctx, CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err, userURL(0, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": entity.NewUserSummary(user)})
}

func (h *HTTPHandler) EditUserForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.services.Users.Get(ctx, CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err, userURL(0, ""))
		return
	}
	form, err := h.userForm(c)
	if err != nil {
		respondError(c, err, userURL(id, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": entity.NewUserSummary(user), "form": form})
}

func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req entity.UserUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindingError(err), userURL(id, "/edit"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.services.Users.Update(ctx, CurrentPrincipal(c), id, req)
	if err != nil {
		respondError(c, err, userURL(id, "/edit"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":     entity.NewUserSummary(user),
		"flash":    successFlash(fmt.Sprintf("User %q updated.", user.Username)),
		"redirect": userURL(id, ""),
	})
}

func (h *HTTPHandler) ToggleUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.services.Users.Toggle(ctx, CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err, userURL(0, ""))
		return
	}
	state := "deactivated"
	if user.IsActive {
		state = "activated"
	}
	c.JSON(http.StatusOK, gin.H{
		"user":     entity.NewUserSummary(user),
		"flash":    successFlash(fmt.Sprintf("User %q %s.", user.Username, state)),
		"redirect": userURL(0, ""),
	})
}

func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.services.Users.Delete(ctx, CurrentPrincipal(c), id); err != nil {
		respondError(c, err, userURL(0, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flash":    successFlash("User deleted."),
		"redirect": userURL(0, ""),
	})
}
