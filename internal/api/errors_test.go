package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"labelhub/internal/entity"
	"labelhub/internal/service"

	"github.com/gin-gonic/gin"
)

func TestErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		status  int
		code    string
		message string
	}{
		{"BadRequest", http.StatusBadRequest, ErrCodeInvalidRequest, "invalid page size"},
		{"NotFound", http.StatusNotFound, ErrCodeNotFound, "album not found"},
		{"InternalError", http.StatusInternalServerError, ErrCodeInternalError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ErrorResponse(c, tt.status, tt.code, tt.message)

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			response := decodeAPIError(t, w)
			if response.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, response.Code)
			}
			if response.Message != tt.message {
				t.Errorf("expected message %s, got %s", tt.message, response.Message)
			}
			if response.Flash == nil || response.Flash.Category != entity.FlashDanger {
				t.Errorf("expected danger flash, got %+v", response.Flash)
			}
		})
	}
}

func TestShortcutFunctions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		write  func(c *gin.Context)
		status int
		code   string
	}{
		{"BadRequest", func(c *gin.Context) { BadRequest(c, ErrCodeInvalidRequest, "invalid id") }, http.StatusBadRequest, ErrCodeInvalidRequest},
		{"Unauthorized", func(c *gin.Context) { Unauthorized(c, "authentication required") }, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"Forbidden", func(c *gin.Context) { Forbidden(c, "missing permission roles.manage") }, http.StatusForbidden, ErrCodeForbidden},
		{"NotFound", func(c *gin.Context) { NotFound(c, ErrCodeNotFound, "event not found") }, http.StatusNotFound, ErrCodeNotFound},
		{"InternalError", func(c *gin.Context) { InternalError(c, "internal server error") }, http.StatusInternalServerError, ErrCodeInternalError},
		{"ServiceUnavailable", func(c *gin.Context) { ServiceUnavailable(c, "storage offline") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"InvalidPayload", func(c *gin.Context) { InvalidPayload(c, nil) }, http.StatusBadRequest, ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.write(c)

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			if response := decodeAPIError(t, w); response.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, response.Code)
			}
		})
	}
}

func TestMissingFieldDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	MissingField(c, "email")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	response := decodeAPIError(t, w)
	if response.Code != ErrCodeMissingField {
		t.Errorf("expected code %s, got %s", ErrCodeMissingField, response.Code)
	}
	details, ok := response.Details.(map[string]interface{})
	if !ok || details["field"] != "email" {
		t.Errorf("expected field detail email, got %#v", response.Details)
	}
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var response APIError
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return response
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedFlash  string
	}{
		{"Validation", &service.ValidationError{Field: "title", Message: "is required"}, http.StatusBadRequest, ErrCodeValidation, entity.FlashWarning},
		{"InvalidCredentials", service.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials, entity.FlashDanger},
		{"SessionExpired", fmt.Errorf("%w: token expired", service.ErrSessionExpired), http.StatusUnauthorized, ErrCodeSessionExpired, entity.FlashDanger},
		{"AccountDisabled", service.ErrAccountDisabled, http.StatusForbidden, ErrCodeUserDisabled, entity.FlashDanger},
		{"Forbidden", fmt.Errorf("%w: missing permission news.delete", service.ErrForbidden), http.StatusForbidden, ErrCodeForbidden, entity.FlashDanger},
		{"NotFound", fmt.Errorf("%w: artists #4", service.ErrNotFound), http.StatusNotFound, ErrCodeNotFound, entity.FlashDanger},
		{"Duplicate", fmt.Errorf("%w: slug", service.ErrDuplicateKey), http.StatusConflict, ErrCodeDuplicate, entity.FlashDanger},
		{"Internal", errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError, entity.FlashDanger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/artists/new", nil)

			respondError(c, tt.err, "/artists/new")

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			response := decodeAPIError(t, w)
			if response.Code != tt.expectedCode {
				t.Errorf("expected code %s, got %s", tt.expectedCode, response.Code)
			}
			if response.Redirect != "/artists/new" {
				t.Errorf("expected redirect /artists/new, got %q", response.Redirect)
			}
			if response.Flash == nil || response.Flash.Category != tt.expectedFlash {
				t.Errorf("expected %s flash, got %+v", tt.expectedFlash, response.Flash)
			}
		})
	}
}

func TestRespondErrorHidesInternalMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	respondError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"), "")

	response := decodeAPIError(t, w)
	if response.Message != "internal server error" {
		t.Errorf("expected generic message, got %q", response.Message)
	}
}
