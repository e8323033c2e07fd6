package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tablebook/tablebook-backend/internal/middleware"
	"github.com/tablebook/tablebook-backend/internal/models"
)

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/register", Register(db))
	users := r.Group("/api/users")
	users.Use(middleware.AuthMiddleware(testSecret))
	users.GET("/profile", GetProfile(db))
	users.PUT("/profile", UpdateProfile(db))
	return r
}

func registerPayload(username string) map[string]interface{} {
	return map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"phone":    "+254700000003",
		"role":     "owner",
	}
}

// Registration must work on a database that has only just been migrated;
// the users table carries exactly the columns the model declares.
func TestRegisterOnFreshDatabase(t *testing.T) {
	db := setupTestDB(t)
	r := setupUserRouter(db)

	w := doJSON(t, r, "POST", "/api/auth/register", registerPayload("diana"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Where("email = ?", "diana@example.com").First(&user).Error)
	assert.Equal(t, "owner", user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestRegisterDefaultsRoleToUser(t *testing.T) {
	db := setupTestDB(t)
	r := setupUserRouter(db)

	payload := registerPayload("eve")
	delete(payload, "role")
	w := doJSON(t, r, "POST", "/api/auth/register", payload, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "eve@example.com").First(&user).Error)
	assert.Equal(t, string(models.RoleUser), user.Role)
}

func TestProfileRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	r := setupUserRouter(db)
	user := createUser(t, db, "frank", string(models.RoleUser))

	w := doJSON(t, r, "GET", "/api/users/profile", nil, user)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "frank@example.com")

	w = doJSON(t, r, "PUT", "/api/users/profile", map[string]interface{}{"phoneNumber": "+254711111111"}, user)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "+254711111111", updated.PhoneNumber)
	assert.Equal(t, "frank", updated.Username)
}
