package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	authService := service.NewAuthService(db, nil, "test-secret")

	engine := gin.New()
	v1 := engine.Group("/api/v1")

	NewHealthHandler(db).RegisterRoutes(v1)
	NewAuthHandler(authService).RegisterRoutes(v1)
	NewUserHandler(authService, service.NewSubscriptionService(db), authService).RegisterRoutes(v1)
	NewRecipeHandler(
		service.NewRecipeService(db),
		service.NewFavoriteService(db),
		service.NewCartService(db),
		service.NewShoppingListService(db),
		nil,
		authService,
	).RegisterRoutes(v1)
	NewTagHandler(db).RegisterRoutes(v1)
	NewIngredientHandler(db).RegisterRoutes(v1)

	return engine, db, authService
}

func registerTestUser(t *testing.T, engine *gin.Engine, email, username string) string {
	t.Helper()

	body := map[string]string{
		"email":      email,
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	}
	w := doJSON(engine, http.MethodPost, "/api/v1/auth/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func doJSON(engine *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func seedCatalogue(t *testing.T, db *gorm.DB) (*models.Tag, *models.Ingredient) {
	t.Helper()

	tag := &models.Tag{Name: "Dinner", Color: "#00AAFF", Slug: "dinner"}
	require.NoError(t, db.Create(tag).Error)

	ing := &models.Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, db.Create(ing).Error)

	return tag, ing
}
