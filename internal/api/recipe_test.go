package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeLifecycle(t *testing.T) {
	engine, db, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "author@example.com", "author")
	tag, ing := seedCatalogue(t, db)

	body := map[string]interface{}{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 20,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]interface{}{
			{"id": ing.ID.String(), "amount": 200},
		},
	}

	w := doJSON(engine, http.MethodPost, "/api/v1/recipes", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Pancakes", created.Name)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, 200, created.Ingredients[0].Amount)
	require.NotNil(t, created.Author)
	assert.Equal(t, "author", created.Author.Username)

	// Anonymous read works and carries false viewer flags.
	w = doJSON(engine, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.False(t, fetched.IsFavorited)
	assert.False(t, fetched.IsInShoppingCart)

	// Patch just the name.
	w = doJSON(engine, http.MethodPatch, "/api/v1/recipes/"+created.ID.String(),
		map[string]interface{}{"name": "Crepes"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Crepes", updated.Name)
	assert.Equal(t, "Mix and fry.", updated.Text)

	w = doJSON(engine, http.MethodDelete, "/api/v1/recipes/"+created.ID.String(), nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(engine, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeCreateRequiresAuth(t *testing.T) {
	engine, _, _ := setupTestRouter(t)

	w := doJSON(engine, http.MethodPost, "/api/v1/recipes", map[string]interface{}{}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeCreateConflict(t *testing.T) {
	engine, db, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "author@example.com", "author")
	tag, ing := seedCatalogue(t, db)

	body := map[string]interface{}{
		"name":         "Bread",
		"text":         "Bake.",
		"cooking_time": 60,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]interface{}{
			{"id": ing.ID.String(), "amount": 500},
		},
	}

	w := doJSON(engine, http.MethodPost, "/api/v1/recipes", body, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/v1/recipes", body, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRecipeUpdateForbiddenForNonAuthor(t *testing.T) {
	engine, db, _ := setupTestRouter(t)
	authorToken := registerTestUser(t, engine, "author@example.com", "author")
	strangerToken := registerTestUser(t, engine, "stranger@example.com", "stranger")
	tag, ing := seedCatalogue(t, db)

	w := doJSON(engine, http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"name":         "Pie",
		"text":         "Bake.",
		"cooking_time": 50,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]interface{}{
			{"id": ing.ID.String(), "amount": 300},
		},
	}, authorToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var created recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(engine, http.MethodPatch, "/api/v1/recipes/"+created.ID.String(),
		map[string]interface{}{"name": "Hijacked"}, strangerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	engine, db, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com", "user")
	tag, ing := seedCatalogue(t, db)

	w := doJSON(engine, http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"name":         "Soup",
		"text":         "Boil.",
		"cooking_time": 30,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]interface{}{
			{"id": ing.ID.String(), "amount": 10},
		},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var created recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	favPath := "/api/v1/recipes/" + created.ID.String() + "/favorite"

	w = doJSON(engine, http.MethodPost, favPath, nil, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(engine, http.MethodPost, favPath, nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The viewer now sees the flag on reads.
	w = doJSON(engine, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.True(t, fetched.IsFavorited)

	w = doJSON(engine, http.MethodDelete, favPath, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(engine, http.MethodDelete, favPath, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	engine, db, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com", "user")
	tag, ing := seedCatalogue(t, db)

	// Empty cart rejects the download.
	w := doJSON(engine, http.MethodGet, "/api/v1/recipes/download_shopping_cart", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"name":         "Bread",
		"text":         "Bake.",
		"cooking_time": 60,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]interface{}{
			{"id": ing.ID.String(), "amount": 500},
		},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var created recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(engine, http.MethodPost, "/api/v1/recipes/"+created.ID.String()+"/shopping_cart", nil, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(engine, http.MethodGet, "/api/v1/recipes/download_shopping_cart", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "1. flour (g) — 500\n", w.Body.String())
}

func TestRecipeListFilters(t *testing.T) {
	engine, db, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com", "user")
	tag, ing := seedCatalogue(t, db)

	w := doJSON(engine, http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"name":         "Stew",
		"text":         "Simmer.",
		"cooking_time": 90,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]interface{}{
			{"id": ing.ID.String(), "amount": 50},
		},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(engine, http.MethodGet, "/api/v1/recipes?tags=dinner", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = doJSON(engine, http.MethodGet, "/api/v1/recipes?tags=breakfast", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)
}
