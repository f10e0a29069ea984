package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"resumeflow/internal/middleware"
	"resumeflow/internal/service"
	"resumeflow/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ownerEcho(c *gin.Context) {
	owner, err := middleware.GetOwnerID(c)
	if err != nil {
		c.Status(http.StatusTeapot)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner_id": owner, "email": middleware.GetEmail(c)})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := new(mocks.MockTokenService)
	owner := uuid.New()
	tokens.On("ValidateToken", "valid-token").Return(&service.Claims{OwnerID: owner, Email: "r@example.com"}, nil)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(tokens))
	r.GET("/test", ownerEcho)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, owner.String(), resp["owner_id"])
	assert.Equal(t, "r@example.com", resp["email"])
	tokens.AssertExpectations(t)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tokens := new(mocks.MockTokenService)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(tokens))
	r.GET("/test", ownerEcho)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	tokens.AssertNotCalled(t, "ValidateToken", "")
}

func TestAuthMiddleware_NonBearerHeader(t *testing.T) {
	tokens := new(mocks.MockTokenService)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(tokens))
	r.GET("/test", ownerEcho)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	tokens := new(mocks.MockTokenService)
	tokens.On("ValidateToken", "bad").Return(nil, errors.New("token is expired"))

	r := gin.New()
	r.Use(middleware.AuthMiddleware(tokens))
	r.GET("/test", ownerEcho)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer bad")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, false, resp["success"])
}

func TestGetOwnerID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := middleware.GetOwnerID(c)

	assert.Error(t, err)
}
