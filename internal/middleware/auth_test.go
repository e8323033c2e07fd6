package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tablebook/tablebook-backend/internal/models"
	"github.com/tablebook/tablebook-backend/pkg/utils"
)

const testSecret = "test-secret"

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(200, gin.H{"userId": c.GetUint("userId"), "role": c.GetString("role")})
	})
	return r
}

func testToken(t *testing.T) string {
	t.Helper()
	user := models.User{
		Model: gorm.Model{ID: 42},
		Email: "auth@example.com",
		Role:  string(models.RoleOwner),
	}
	token, err := utils.GenerateToken(&user, testSecret)
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	r := setupAuthRouter()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":42,"role":"owner"}`, w.Body.String())
}

func TestAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	r := setupAuthRouter()

	req := httptest.NewRequest("GET", "/whoami?token="+testToken(t), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r := setupAuthRouter()

	req := httptest.NewRequest("GET", "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	r := setupAuthRouter()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	r := setupAuthRouter()

	user := models.User{Model: gorm.Model{ID: 7}, Email: "x@example.com", Role: string(models.RoleUser)}
	token, err := utils.GenerateToken(&user, "some-other-secret")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
