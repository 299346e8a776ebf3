package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aswathiir/worksyncpluspro/db"
	"github.com/aswathiir/worksyncpluspro/internal/auth"
	"github.com/aswathiir/worksyncpluspro/internal/models"
	"github.com/aswathiir/worksyncpluspro/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest points the global DB at a fresh in-memory sqlite database and
// returns a fully wired engine. Requests authenticate with real JWTs so the
// middleware is exercised too.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	db.DB = gormDB
	require.NoError(t, db.MigrateDatabase())

	return router.NewRouter()
}

func createUser(t *testing.T, name, email string, staff bool) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsStaff:      staff,
	}

	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

func createOrganization(t *testing.T, name string) models.Organization {
	t.Helper()

	org := models.Organization{Name: name}
	require.NoError(t, db.DB.Create(&org).Error)
	return org
}

// createTeam creates a team under org and enrolls the given members.
func createTeam(t *testing.T, org models.Organization, name string, members ...models.User) models.Team {
	t.Helper()

	team := models.Team{Name: name, OrganizationID: org.ID}
	require.NoError(t, db.DB.Create(&team).Error)

	for _, member := range members {
		membership := models.TeamMembership{
			UserID:   member.ID,
			TeamID:   team.ID,
			Role:     models.RoleMember,
			JoinedAt: time.Now(),
		}
		require.NoError(t, db.DB.Create(&membership).Error)
	}

	return team
}

// doRequest performs an authenticated JSON request against the engine.
func doRequest(t *testing.T, engine *gin.Engine, user models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)

	token, err := auth.GenerateJWT(user.ID, user.Email)
	require.NoError(t, err)

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
