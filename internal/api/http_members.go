package api

import (
	"fmt"
	"net/http"

	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/service"

	"github.com/gin-gonic/gin"
)

// registerMembers 挂载 /artists/:id/members 下的成员接口
func (h *HTTPHandler) registerMembers(artists *gin.RouterGroup) {
	members := artists.Group("/:id/members")
	members.GET("", h.ListMembers)
	members.GET("/new", h.NewMemberForm)
	members.POST("/new", h.CreateMember)
	members.GET("/:member_id", h.GetMember)
	members.GET("/:member_id/edit", h.EditMemberForm)
	members.POST("/:member_id/edit", h.UpdateMember)
	members.POST("/:member_id/delete", h.DeleteMember)
}

func membersURL(artistID, memberID uint, suffix string) string {
	if memberID == 0 {
		return fmt.Sprintf("/artists/%d/members%s", artistID, suffix)
	}
	return fmt.Sprintf("/artists/%d/members/%d%s", artistID, memberID, suffix)
}

func memberIDs(c *gin.Context) (uint, uint, bool) {
	artistID, ok := parseID(c, "id")
	if !ok {
		return 0, 0, false
	}
	memberID, ok := parseID(c, "member_id")
	if !ok {
		return 0, 0, false
	}
	return artistID, memberID, true
}

func (h *HTTPHandler) ListMembers(c *gin.Context) {
	artistID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var query entity.ContentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c, err)
		return
	}
	query.Filters = queryFilters(c, service.MembersModule)

	ctx, cancel := requestContext(c)
	defer cancel()

	members, meta, err := h.services.Members.List(ctx, CurrentPrincipal(c), artistID, query)
	if err != nil {
		respondError(c, err, fmt.Sprintf("/artists/%d", artistID))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": members, "meta": meta})
}

func (h *HTTPHandler) NewMemberForm(c *gin.Context) {
	artistID, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	principal := CurrentPrincipal(c)
	artist, err := h.services.Artists.Get(ctx, principal, artistID)
	if err != nil {
		respondError(c, err, "/artists")
		return
	}
	code := service.MembersModule.Permission(auth.ActionCreate)
	if !principal.HasPermission(code) {
		respondError(c, fmt.Errorf("%w: missing permission %s", service.ErrForbidden, code), membersURL(artistID, 0, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"artist": artist, "form": h.formMeta(service.MembersModule, nil)})
}

func (h *HTTPHandler) CreateMember(c *gin.Context) {
	artistID, ok := parseID(c, "id")
	if !ok {
		return
	}
	redirect := membersURL(artistID, 0, "/new")
	var req entity.MemberRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindingError(err), redirect)
		return
	}
	files, err := h.readUploads(c, service.MembersModule.Uploads)
	if err != nil {
		respondError(c, err, redirect)
		return
	}

	ctx, cancel := uploadContext(c)
	defer cancel()

	member, err := h.services.Members.Create(ctx, CurrentPrincipal(c), artistID, &req, files)
	if err != nil {
		respondError(c, err, redirect)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"item":     member,
		"files":    h.fileURLs(member),
		"flash":    successFlash(fmt.Sprintf("Member %q added.", member.Label())),
		"redirect": membersURL(artistID, member.ID, ""),
	})
}

func (h *HTTPHandler) GetMember(c *gin.Context) {
	artistID, memberID, ok := memberIDs(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	member, err := h.services.Members.Get(ctx, CurrentPrincipal(c), artistID, memberID)
	if err != nil {
		respondError(c, err, membersURL(artistID, 0, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": member, "files": h.fileURLs(member)})
}

func (h *HTTPHandler) EditMemberForm(c *gin.Context) {
	artistID, memberID, ok := memberIDs(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	member, err := h.services.Members.Get(ctx, CurrentPrincipal(c), artistID, memberID)
	if err != nil {
		respondError(c, err, membersURL(artistID, 0, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":  member,
		"files": h.fileURLs(member),
		"form":  h.formMeta(service.MembersModule, nil),
	})
}

func (h *HTTPHandler) UpdateMember(c *gin.Context) {
	artistID, memberID, ok := memberIDs(c)
	if !ok {
		return
	}
	redirect := membersURL(artistID, memberID, "/edit")
	var req entity.MemberRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindingError(err), redirect)
		return
	}
	files, err := h.readUploads(c, service.MembersModule.Uploads)
	if err != nil {
		respondError(c, err, redirect)
		return
	}

	ctx, cancel := uploadContext(c)
	defer cancel()

	member, err := h.services.Members.Update(ctx, CurrentPrincipal(c), artistID, memberID, &req, files)
	if err != nil {
		respondError(c, err, redirect)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":     member,
		"files":    h.fileURLs(member),
		"flash":    successFlash(fmt.Sprintf("Member %q updated.", member.Label())),
		"redirect": membersURL(artistID, memberID, ""),
	})
}

func (h *HTTPHandler) DeleteMember(c *gin.Context) {
	artistID, memberID, ok := memberIDs(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.services.Members.Delete(ctx, CurrentPrincipal(c), artistID, memberID); err != nil {
		respondError(c, err, membersURL(artistID, memberID, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flash":    successFlash("Member removed."),
		"redirect": membersURL(artistID, 0, ""),
	})
}
