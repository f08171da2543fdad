package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"labelhub/internal/config"
	"labelhub/internal/entity"
	"labelhub/internal/model"
	"labelhub/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	cfg := config.Config{
		DBType:                    model.DBTypeSQLite,
		DBPath:                    filepath.Join(t.TempDir(), "api.db"),
		SecretKey:                 "api-test-secret",
		SessionIssuer:             "labelhub",
		SessionTTLMinutes:         60,
		SessionCookieName:         "labelhub_session",
		StorageType:               storage.TypeLocal,
		StorageLocalDir:           t.TempDir(),
		StoragePublicBaseURL:      "/files",
		MaxUploadBytes:            1 << 20,
		AllowedImageExtensions:    []string{"jpg", "png"},
		AllowedDocumentExtensions: []string{"pdf"},
		DefaultPageSize:           10,
		MaxPageSize:               50,
		AdminUsername:             "admin",
		AdminEmail:                "admin@example.com",
		AdminPassword:             "admin-pass",
	}
	repo, err := model.NewRepositoryFactory().CreateRepository(&cfg)
	require.NoError(t, err)
	require.NoError(t, model.SeedCatalog(ctx, repo))
	created, err := model.BootstrapAdmin(ctx, repo, cfg)
	require.NoError(t, err)
	require.True(t, created)

	store, err := storage.NewStorage(cfg)
	require.NoError(t, err)
	handler, err := NewHTTPHandler(cfg, repo, store)
	require.NoError(t, err)

	r := gin.New()
	handler.RegisterRoutes(r)
	return r
}

func login(t *testing.T, r *gin.Engine, username, password string) *http.Cookie {
	t.Helper()
	body := strings.NewReader(`{"username":"` + username + `","password":"` + password + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response entity.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.Equal(t, entity.FlashSuccess, response.Flash.Category)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "labelhub_session" {
			require.True(t, cookie.HttpOnly)
			return cookie
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}

func do(r *gin.Engine, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("username=admin&password=nope"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(r, req, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var response APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, ErrCodeInvalidCredentials, response.Code)
	require.Equal(t, "/login", response.Redirect)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r := newTestServer(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/dashboard", nil), nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = do(r, req, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCreateArtistWithPhoto(t *testing.T) {
	r := newTestServer(t)
	cookie := login(t, r, "admin", "admin-pass")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("name", "Mötley Crüe Tribute"))
	require.NoError(t, form.WriteField("stage_name", "Mötley Crüe Tribute"))
	require.NoError(t, form.WriteField("active", "true"))
	part, err := form.CreateFormFile("photo", "band.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/artists/new", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := do(r, req, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Item     entity.Artist     `json:"item"`
		Files    map[string]string `json:"files"`
		Flash    entity.Flash      `json:"flash"`
		Redirect string            `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "motley-crue-tribute", created.Item.Slug)
	require.Regexp(t, `^[0-9a-f]{32}\.png$`, created.Item.Photo)
	require.Equal(t, "/files/"+created.Item.Photo, created.Files[entity.SlotPhoto])
	require.Equal(t, entity.FlashSuccess, created.Flash.Category)

	w = do(r, httptest.NewRequest(http.MethodGet, created.Files[entity.SlotPhoto], nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "png-bytes", w.Body.String())

	w = do(r, httptest.NewRequest(http.MethodGet, "/artists?q=tribute", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []entity.Artist `json:"items"`
		Meta  entity.Meta     `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	require.EqualValues(t, 1, list.Meta.Total)

	w = do(r, httptest.NewRequest(http.MethodPost, created.Redirect+"/delete", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, httptest.NewRequest(http.MethodGet, created.Redirect, nil), cookie)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = do(r, httptest.NewRequest(http.MethodGet, created.Files[entity.SlotPhoto], nil), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateValidationKeepsRedirect(t *testing.T) {
	r := newTestServer(t)
	cookie := login(t, r, "admin", "admin-pass")

	req := httptest.NewRequest(http.MethodPost, "/news/new", strings.NewReader(`{"title":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(r, req, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, ErrCodeValidation, response.Code)
	require.Equal(t, "/news/new", response.Redirect)
	require.Equal(t, entity.FlashWarning, response.Flash.Category)
}

func TestMeAndLogout(t *testing.T) {
	r := newTestServer(t)
	cookie := login(t, r, "admin@example.com", "admin-pass")

	w := do(r, httptest.NewRequest(http.MethodGet, "/me", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var me MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.True(t, me.IsAdmin)
	require.Contains(t, me.Permissions, "roles.manage")

	w = do(r, httptest.NewRequest(http.MethodGet, "/roles", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, httptest.NewRequest(http.MethodGet, "/logout", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, httptest.NewRequest(http.MethodGet, "/me", nil), cookie)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
