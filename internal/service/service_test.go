package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"labelhub/internal/auth"
	"labelhub/internal/config"
	"labelhub/internal/entity"
	"labelhub/internal/model"
	"labelhub/internal/storage"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo     model.Repository
	svc      *Services
	filesDir string
	admin    *auth.Principal
	editor   *auth.Principal
	viewer   *auth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{DBType: model.DBTypeSQLite, DBPath: filepath.Join(t.TempDir(), "service.db")}
	repo, err := model.NewRepositoryFactory().CreateRepository(cfg)
	require.NoError(t, err)
	require.NoError(t, model.SeedCatalog(ctx, repo))

	filesDir := t.TempDir()
	local, err := storage.NewLocalStorage(filesDir)
	require.NoError(t, err)
	sessions, err := auth.NewManager("service-test-secret", "labelhub", time.Hour)
	require.NoError(t, err)

	f := &fixture{
		repo:     repo,
		filesDir: filesDir,
		svc: New(repo, Options{
			Sessions:      sessions,
			Uploader:      storage.NewUploader(local, []string{"jpg", "png"}, []string{"pdf"}, 1<<20),
			Paging:        Paging{Default: 10, Max: 50},
			PublicBaseURL: "/files",
		}),
	}
	f.admin = f.addUser(t, "root", entity.LegacyRoleAdmin, nil, true)
	f.editor = f.addUser(t, "edith", entity.LegacyRoleEditor, nil, true)
	f.viewer = f.addUser(t, "vera", entity.LegacyRoleUser, nil, true)
	return f
}

func (f *fixture) addUser(t *testing.T, username, legacy string, roleID *uint, active bool) *auth.Principal {
	t.Helper()
	hash, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)
	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		LegacyRole:   legacy,
		RoleID:       roleID,
		IsActive:     active,
	}
	require.NoError(t, f.repo.CreateUser(context.Background(), user))
	loaded, err := f.repo.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	return auth.NewPrincipal(loaded)
}

func (f *fixture) fileExists(name string) bool {
	_, err := os.Stat(filepath.Join(f.filesDir, name))
	return err == nil
}

func artist(stageName string) func(*entity.Artist) error {
	return func(a *entity.Artist) error {
		a.Name = stageName
		a.StageName = stageName
		a.Active = true
		return nil
	}
}

func photo() map[string]storage.Upload {
	return map[string]storage.Upload{
		entity.SlotPhoto: {Filename: "portrait.JPG", ContentType: "image/jpeg", Data: []byte("jpeg-bytes")},
	}
}

func TestCreateAssignsUniqueSlugs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Artists.Create(ctx, f.admin, artist("The Night Owls"), nil)
	require.NoError(t, err)
	require.Equal(t, "the-night-owls", first.Slug)
	require.Equal(t, f.admin.UserID(), first.CreatorID())

	second, err := f.svc.Artists.Create(ctx, f.admin, artist("The Night Owls"), nil)
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^the-night-owls-[0-9a-f]{6}$`), second.Slug)

	// 标题未变时更新保留带后缀的 slug
	updated, err := f.svc.Artists.Update(ctx, f.admin, second.ID, func(a *entity.Artist) error {
		a.Slug = ""
		a.City = "Lisbon"
		return nil
	}, nil)
	require.NoError(t, err)
	require.Equal(t, second.Slug, updated.Slug)
	require.Equal(t, "Lisbon", updated.City)
}

func TestCreateRejectsDisallowedUpload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Artists.Create(ctx, f.admin, artist("Shell Script"), map[string]storage.Upload{
		entity.SlotPhoto: {Filename: "run.sh", Data: []byte("#!/bin/sh")},
	})
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	require.Equal(t, entity.SlotPhoto, validation.Field)

	entries, err := os.ReadDir(f.filesDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestListIsOwnerScopedForNonElevatedPrincipals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	scoutRole, err := f.svc.Roles.Create(ctx, f.admin, entity.RoleRequest{
		Name:            "scout",
		PermissionCodes: []string{"artists.create", "artists.read"},
	})
	require.NoError(t, err)
	scout := f.addUser(t, "sam", entity.LegacyRoleUser, &scoutRole.ID, true)

	own, err := f.svc.Artists.Create(ctx, scout, artist("Garage Find"), nil)
	require.NoError(t, err)
	other, err := f.svc.Artists.Create(ctx, f.admin, artist("Label Act"), nil)
	require.NoError(t, err)

	items, meta, err := f.svc.Artists.List(ctx, scout, entity.ContentQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, own.ID, items[0].ID)
	require.EqualValues(t, 1, meta.Total)

	items, _, err = f.svc.Artists.List(ctx, f.admin, entity.ContentQuery{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	_, err = f.svc.Artists.Get(ctx, scout, other.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// 创建者无需 update 权限即可修改自己的记录
	_, err = f.svc.Artists.Update(ctx, scout, own.ID, func(a *entity.Artist) error {
		a.Genre = "garage"
		return nil
	}, nil)
	require.NoError(t, err)

	_, _, err = f.svc.Albums.List(ctx, scout, entity.ContentQuery{})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteRemovesCascadedFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	band, err := f.svc.Artists.Create(ctx, f.admin, artist("Paper Lanterns"), photo())
	require.NoError(t, err)
	require.NotEmpty(t, band.Photo)
	require.True(t, f.fileExists(band.Photo))

	member, err := f.svc.Members.Create(ctx, f.admin, band.ID, &entity.MemberRequest{FirstName: "Ana", Active: true}, photo())
	require.NoError(t, err)
	require.Equal(t, band.ID, member.ArtistID)
	require.True(t, f.fileExists(member.Photo))

	require.NoError(t, f.svc.Artists.Delete(ctx, f.admin, band.ID))
	require.False(t, f.fileExists(band.Photo))
	require.False(t, f.fileExists(member.Photo))

	_, err = f.svc.Artists.Get(ctx, f.admin, band.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateReplacesFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	band, err := f.svc.Artists.Create(ctx, f.admin, artist("Second Take"), photo())
	require.NoError(t, err)
	oldPhoto := band.Photo

	updated, err := f.svc.Artists.Update(ctx, f.admin, band.ID, func(*entity.Artist) error { return nil }, photo())
	require.NoError(t, err)
	require.NotEqual(t, oldPhoto, updated.Photo)
	require.False(t, f.fileExists(oldPhoto))
	require.True(t, f.fileExists(updated.Photo))
}

func TestMemberMustBelongToArtist(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Artists.Create(ctx, f.admin, artist("First Band"), nil)
	require.NoError(t, err)
	second, err := f.svc.Artists.Create(ctx, f.admin, artist("Second Band"), nil)
	require.NoError(t, err)
	member, err := f.svc.Members.Create(ctx, f.admin, first.ID, &entity.MemberRequest{FirstName: "Lee"}, nil)
	require.NoError(t, err)

	_, err = f.svc.Members.Get(ctx, f.admin, second.ID, member.ID)
	require.ErrorIs(t, err, ErrNotFound)

	members, _, err := f.svc.Members.List(ctx, f.admin, first.ID, entity.ContentQuery{})
	require.NoError(t, err)
	require.Len(t, members, 1)

	// 新增成员需要 artists.update
	_, err = f.svc.Members.Create(ctx, f.viewer, first.ID, &entity.MemberRequest{FirstName: "Kim"}, nil)
	require.ErrorIs(t, err, ErrForbidden)
}

func news(title string, published bool) func(*entity.News) error {
	return func(n *entity.News) error {
		req := entity.NewsRequest{Title: title, Body: "body", Published: published}
		return req.Apply(n)
	}
}

func TestLegacyEditorCannotDeleteOthersNews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	adminPost, err := f.svc.News.Create(ctx, f.admin, news("Tour announced", true), nil)
	require.NoError(t, err)
	editorPost, err := f.svc.News.Create(ctx, f.editor, news("New signing", false), nil)
	require.NoError(t, err)

	err = f.svc.News.Delete(ctx, f.editor, adminPost.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// 旧版编辑没有 news.delete，自己的新闻也不能删除
	err = f.svc.News.Delete(ctx, f.editor, editorPost.ID)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.News.Get(ctx, f.editor, editorPost.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.News.Delete(ctx, f.admin, editorPost.ID))
	require.NoError(t, f.svc.News.Delete(ctx, f.admin, adminPost.ID))
}

func TestDeleteRequiresPermissionEvenForOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	scoutRole, err := f.svc.Roles.Create(ctx, f.admin, entity.RoleRequest{
		Name:            "scout",
		PermissionCodes: []string{"artists.create", "artists.read"},
	})
	require.NoError(t, err)
	scout := f.addUser(t, "sam", entity.LegacyRoleUser, &scoutRole.ID, true)

	own, err := f.svc.Artists.Create(ctx, scout, artist("Garage Find"), photo())
	require.NoError(t, err)
	require.True(t, f.fileExists(own.Photo))

	err = f.svc.Artists.Delete(ctx, scout, own.ID)
	require.ErrorIs(t, err, ErrForbidden)
	require.True(t, f.fileExists(own.Photo))

	kept, err := f.svc.Artists.Get(ctx, scout, own.ID)
	require.NoError(t, err)
	require.Equal(t, own.Photo, kept.Photo)
}

func TestPublishRequiresUpdatePermission(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	reporterRole, err := f.svc.Roles.Create(ctx, f.admin, entity.RoleRequest{
		Name:            "reporter",
		PermissionCodes: []string{"news.create", "news.read"},
	})
	require.NoError(t, err)
	reporter := f.addUser(t, "rita", entity.LegacyRoleUser, &reporterRole.ID, true)

	draft, err := f.svc.News.Create(ctx, reporter, news("Studio diary", false), nil)
	require.NoError(t, err)

	_, err = f.svc.News.Publish(ctx, reporter, draft.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// 作者仍可编辑自己的草稿
	edited, err := f.svc.News.Update(ctx, reporter, draft.ID, news("Studio diary, part one", false), nil)
	require.NoError(t, err)
	require.False(t, edited.Published)

	published, err := f.svc.News.Publish(ctx, f.editor, draft.ID)
	require.NoError(t, err)
	require.True(t, published.Published)
}

func TestNewsVisibilityAndViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	draft, err := f.svc.News.Create(ctx, f.admin, news("Draft", false), nil)
	require.NoError(t, err)
	require.False(t, draft.Published)

	_, err = f.svc.News.View(ctx, f.viewer, draft.ID)
	require.ErrorIs(t, err, ErrForbidden)

	published, err := f.svc.News.Publish(ctx, f.admin, draft.ID)
	require.NoError(t, err)
	require.True(t, published.Published)
	require.NotNil(t, published.PublishAt)

	seen, err := f.svc.News.View(ctx, f.viewer, draft.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, seen.Views)

	items, _, err := f.svc.News.List(ctx, f.viewer, entity.ContentQuery{})
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSinglesAreMarked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	band, err := f.svc.Artists.Create(ctx, f.editor, artist("Coastal Radio"), nil)
	require.NoError(t, err)

	single, err := f.svc.Singles.Create(ctx, f.editor, func(tr *entity.Track) error {
		tr.ArtistID = band.ID
		tr.Title = "Summer Song"
		return nil
	}, nil)
	require.NoError(t, err)
	require.True(t, single.IsSingle)
	require.Equal(t, band.ID, single.ArtistID)

	items, _, err := f.svc.Singles.List(ctx, f.admin, entity.ContentQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestTrackRequiresArtist(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Tracks.Create(ctx, f.editor, func(tr *entity.Track) error {
		tr.Title = "Orphan Demo"
		return nil
	}, map[string]storage.Upload{
		entity.SlotCover: {Filename: "cover.png", ContentType: "image/png", Data: []byte("png-bytes")},
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "artist_id", validation.Field)

	entries, err := os.ReadDir(f.filesDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDocumentDownloadHonoursVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	contract := func(visibility string) func(*entity.Document) error {
		req := entity.DocumentRequest{Title: "Distribution contract", Kind: "contract", Visibility: visibility}
		return req.Apply
	}
	pdf := map[string]storage.Upload{
		entity.SlotFile: {Filename: "Contract 2024.PDF", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
	}

	_, err := f.svc.Documents.Create(ctx, f.editor, contract(""), nil)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, entity.SlotFile, validation.Field)

	doc, err := f.svc.Documents.Create(ctx, f.editor, contract(""), pdf)
	require.NoError(t, err)
	require.Equal(t, entity.VisibilityPrivate, doc.Visibility)
	require.Equal(t, "Contract 2024.PDF", doc.OriginalName)
	require.EqualValues(t, len("%PDF-1.4"), doc.Size)
	require.True(t, f.fileExists(doc.FileName))

	_, _, err = f.svc.Documents.Open(ctx, f.viewer, doc.ID, entity.SlotFile)
	require.ErrorIs(t, err, ErrForbidden)

	_, reader, err := f.svc.Documents.Open(ctx, f.admin, doc.ID, entity.SlotFile)
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	require.NoError(t, reader.Close())
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(data))

	_, err = f.svc.Documents.Update(ctx, f.editor, doc.ID, contract(entity.VisibilityPublic), nil)
	require.NoError(t, err)
	_, reader, err = f.svc.Documents.Open(ctx, f.viewer, doc.ID, entity.SlotFile)
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	items, _, err := f.svc.Documents.List(ctx, f.viewer, entity.ContentQuery{})
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestAuthLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Auth.Login(ctx, "edith", "wrong", ClientInfo{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Auth.Login(ctx, "nobody", "secret-pass", ClientInfo{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	result, err := f.svc.Auth.Login(ctx, "edith@example.com", "secret-pass", ClientInfo{UserAgent: "test", IP: "127.0.0.1"})
	require.NoError(t, err)
	require.NotNil(t, result.User.LastLoginAt)

	principal, err := f.svc.Auth.Resolve(ctx, result.Token)
	require.NoError(t, err)
	require.Equal(t, f.editor.UserID(), principal.UserID())
	require.True(t, principal.IsEditor())

	require.NoError(t, f.svc.Auth.Logout(ctx, result.Token))
	_, err = f.svc.Auth.Resolve(ctx, result.Token)
	require.ErrorIs(t, err, ErrSessionExpired)

	f.addUser(t, "dora", entity.LegacyRoleUser, nil, false)
	_, err = f.svc.Auth.Login(ctx, "dora", "secret-pass", ClientInfo{})
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestResolveRejectsDeactivatedUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.svc.Auth.Login(ctx, "vera", "secret-pass", ClientInfo{})
	require.NoError(t, err)

	_, err = f.svc.Users.Toggle(ctx, f.admin, f.viewer.UserID())
	require.NoError(t, err)

	_, err = f.svc.Auth.Resolve(ctx, result.Token)
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestUserSelfProtection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.svc.Users.Delete(ctx, f.admin, f.admin.UserID())
	require.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Users.Toggle(ctx, f.admin, f.admin.UserID())
	require.ErrorIs(t, err, ErrForbidden)

	inactive := false
	_, err = f.svc.Users.Update(ctx, f.admin, f.admin.UserID(), entity.UserUpdateRequest{IsActive: &inactive})
	require.ErrorIs(t, err, ErrForbidden)

	// 普通用户可修改自己的资料但不能提升角色
	name := "Vera V."
	updated, err := f.svc.Users.Update(ctx, f.viewer, f.viewer.UserID(), entity.UserUpdateRequest{DisplayName: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.DisplayName)

	tier := entity.LegacyRoleAdmin
	_, err = f.svc.Users.Update(ctx, f.viewer, f.viewer.UserID(), entity.UserUpdateRequest{LegacyRole: &tier})
	require.ErrorIs(t, err, ErrForbidden)

	users, _, err := f.svc.Users.List(ctx, f.viewer, &entity.UserQuery{})
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, f.svc.Users.Delete(ctx, f.admin, f.viewer.UserID()))
}

func TestUserCreateValidatesRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	missing := uint(9999)
	_, err := f.svc.Users.Create(ctx, f.admin, entity.UserCreateRequest{
		Username: "ghost", Email: "ghost@example.com", Password: "secret-pass", RoleID: &missing,
	})
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	require.Equal(t, "role_id", validation.Field)

	created, err := f.svc.Users.Create(ctx, f.admin, entity.UserCreateRequest{
		Username: "newbie", Email: "Newbie@Example.com", Password: "secret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, "newbie@example.com", created.Email)
	require.Equal(t, entity.LegacyRoleUser, created.LegacyRole)
	require.True(t, created.IsActive)

	_, err = f.svc.Users.Create(ctx, f.admin, entity.UserCreateRequest{
		Username: "newbie", Email: "other@example.com", Password: "secret-pass",
	})
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestRoleRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	admin, err := f.repo.GetRoleByName(ctx, entity.RoleAdmin)
	require.NoError(t, err)
	_, err = f.svc.Roles.Update(ctx, f.admin, admin.ID, entity.RoleRequest{Name: "superuser"})
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, f.svc.Roles.Delete(ctx, f.admin, admin.ID), ErrForbidden)

	_, _, err = f.svc.Roles.List(ctx, f.editor, &entity.RoleQuery{})
	require.ErrorIs(t, err, ErrForbidden)

	press, err := f.svc.Roles.Create(ctx, f.admin, entity.RoleRequest{Name: "press", PermissionCodes: []string{"news.create", "news.read"}})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"news.create", "news.read"}, press.PermissionCodes())

	_, err = f.svc.Roles.Create(ctx, f.admin, entity.RoleRequest{Name: "broken", PermissionCodes: []string{"news.fly"}})
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))

	f.addUser(t, "pat", entity.LegacyRoleUser, &press.ID, true)
	err = f.svc.Roles.Delete(ctx, f.admin, press.ID)
	require.True(t, errors.As(err, &validation))
	require.Contains(t, validation.Message, "1 user")

	groups, err := f.svc.Roles.Permissions(ctx, f.admin)
	require.NoError(t, err)
	require.NotEmpty(t, groups)
	require.Equal(t, "albums", groups[0].Module)
}

func TestDashboardGallery(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	band, err := f.svc.Artists.Create(ctx, f.admin, artist("Gallery Band"), photo())
	require.NoError(t, err)

	stats, err := f.svc.Dashboard.Stats(ctx, f.viewer)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.Counts.Artists)
	require.EqualValues(t, 3, stats.Counts.Users)

	images, err := f.svc.Dashboard.Gallery(ctx, f.viewer)
	require.NoError(t, err)
	require.Len(t, images, 1)
	require.Equal(t, "/files/"+band.Photo, images[0].URL)

	_, err = f.svc.Dashboard.Stats(ctx, nil)
	require.ErrorIs(t, err, ErrForbidden)
}
