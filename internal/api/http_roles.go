package api

import (
	"fmt"
	"net/http"

	"labelhub/internal/entity"

	"github.com/gin-gonic/gin"
)

func roleURL(id uint, suffix string) string {
	if id == 0 {
		return "/roles" + suffix
	}
	return fmt.Sprintf("/roles/%d%s", id, suffix)
}

func (h *HTTPHandler) ListRoles(c *gin.Context) {
	var query entity.RoleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c, err)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	roles, meta, err := h.services.Roles.List(ctx, CurrentPrincipal(c), &query)
	if err != nil {
		respondError(c, err, "/dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": roles, "meta": meta})
}

func (h *HTTPHandler) ListPermissions(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	groups, err := h.services.Roles.Permissions(ctx, CurrentPrincipal(c))
	if err != nil {
		respondError(c, err, "/dashboard")
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *HTTPHandler) NewRoleForm(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	groups, err := h.services.Roles.Permissions(ctx, CurrentPrincipal(c))
	if err != nil {
		respondError(c, err, roleURL(0, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": gin.H{"permissions": groups}})
}

func (h *HTTPHandler) CreateRole(c *gin.Context) {
	var req entity.RoleRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindingError(err), roleURL(0, "/new"))
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	role, err := h.services.Roles.Create(ctx, CurrentPrincipal(c), req)
	if err != nil {
		respondError(c, err, roleURL(0, "/new"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"item":     role,
		"flash":    successFlash(fmt.Sprintf("Role %q created.", role.Name)),
		"redirect": roleURL(role.ID, ""),
	})
}

func (h *HTTPHandler) GetRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	role, err := h.services.Roles.Get(ctx, CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err, roleURL(0, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": role})
}

func (h *HTTPHandler) EditRoleForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	principal := CurrentPrincipal(c)
	role, err := h.services.Roles.Get(ctx, principal, id)
	if err != nil {
		respondError(c, err, roleURL(0, ""))
		return
	}
	groups, err := h.services.Roles.Permissions(ctx, principal)
	if err != nil {
		respondError(c, err, roleURL(id, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": role, "form": gin.H{"permissions": groups}})
}

func (h *HTTPHandler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req entity.RoleRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindingError(err), roleURL(id, "/edit"))
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	role, err := h.services.Roles.Update(ctx, CurrentPrincipal(c), id, req)
	if err != nil {
		respondError(c, err, roleURL(id, "/edit"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":     role,
		"flash":    successFlash(fmt.Sprintf("Role %q updated.", role.Name)),
		"redirect": roleURL(id, ""),
	})
}

func (h *HTTPHandler) DeleteRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.services.Roles.Delete(ctx, CurrentPrincipal(c), id); err != nil {
		respondError(c, err, roleURL(id, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flash":    successFlash("Role deleted."),
		"redirect": roleURL(0, ""),
	})
}
