package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contentservice/app/models"
	"contentservice/app/repositories/mock"
	"contentservice/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestPostController(t *testing.T) (*mux.Router, *mock.PostRepository) {
	t.Helper()
	postRepo := mock.NewPostRepository()
	controller := NewPostController(services.NewPostService(postRepo, nil))

	router := mux.NewRouter()
	router.HandleFunc("/posts/", controller.Index).Methods("GET")
	router.HandleFunc("/posts/", controller.Create).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}/", controller.Show).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/", controller.Update).Methods("PUT")
	router.HandleFunc("/posts/{id:[0-9]+}/", controller.Delete).Methods("DELETE")
	router.HandleFunc("/posts/{id:[0-9]+}/like/", controller.Like).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}/view/", controller.View).Methods("POST")
	router.HandleFunc("/healthz", controller.Health).Methods("GET")
	return router, postRepo
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	assert.Equal(t, status, w.Code)
	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, message, body["error"])
}

func TestPostControllerFlow(t *testing.T) {
	router, _ := setupTestPostController(t)

	w := do(t, router, http.MethodGet, "/posts/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, router, http.MethodPost, "/posts/", `{"title":"Hello","content":"World"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	decode(t, w, &created)
	assert.Equal(t, float64(1), created["id"])
	assert.Equal(t, "Hello", created["title"])
	assert.Equal(t, float64(0), created["likes_count"])
	assert.Equal(t, float64(0), created["views"])
	assert.Equal(t, true, created["is_published"])
	assert.Nil(t, created["updated_at"])
	assert.NotEmpty(t, created["created_at"])

	w = do(t, router, http.MethodPost, "/posts/1/like/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likes":1}`, w.Body.String())

	w = do(t, router, http.MethodPost, "/posts/1/like/", "")
	assert.JSONEq(t, `{"likes":2}`, w.Body.String())

	w = do(t, router, http.MethodPost, "/posts/1/view/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"views":1}`, w.Body.String())

	w = do(t, router, http.MethodPut, "/posts/1/", `{"title":"Hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]interface{}
	decode(t, w, &updated)
	assert.Equal(t, "Hi", updated["title"])
	assert.Equal(t, "World", updated["content"])
	assert.Equal(t, float64(2), updated["likes_count"])
	assert.Equal(t, float64(1), updated["views"])
	assert.NotNil(t, updated["updated_at"])

	w = do(t, router, http.MethodGet, "/posts/1/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodDelete, "/posts/1/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Post deleted."}`, w.Body.String())

	assertError(t, do(t, router, http.MethodGet, "/posts/1/", ""), http.StatusNotFound, "Post not found.")
	assertError(t, do(t, router, http.MethodDelete, "/posts/1/", ""), http.StatusNotFound, "Post not found.")
}

func TestPostControllerNotFound(t *testing.T) {
	router, _ := setupTestPostController(t)

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/posts/999/", ""},
		{http.MethodPut, "/posts/999/", `{"title":"x"}`},
		{http.MethodPut, "/posts/999/", `not json`},
		{http.MethodDelete, "/posts/999/", ""},
		{http.MethodPost, "/posts/999/like/", ""},
		{http.MethodPost, "/posts/999/view/", ""},
		{http.MethodGet, "/posts/99999999999999999999/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assertError(t, do(t, router, tt.method, tt.path, tt.body), http.StatusNotFound, "Post not found.")
		})
	}
}

func TestPostControllerCreateInvalid(t *testing.T) {
	router, repo := setupTestPostController(t)

	tests := []struct {
		name, body string
	}{
		{"malformed json", `{"title":`},
		{"empty body", ``},
		{"array body", `[]`},
		{"missing title", `{"content":"x"}`},
		{"missing content", `{"title":"x"}`},
		{"wrong type", `{"title":5,"content":"x"}`},
		{"title too long", `{"title":"` + strings.Repeat("a", 201) + `","content":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, do(t, router, http.MethodPost, "/posts/", tt.body), http.StatusBadRequest, "Invalid data provided.")
		})
	}

	posts, err := repo.List(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostControllerCreateIgnoresCounters(t *testing.T) {
	router, _ := setupTestPostController(t)

	w := do(t, router, http.MethodPost, "/posts/", `{"title":"T","content":"C","likes_count":50,"views":9,"id":77}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var post models.Post
	decode(t, w, &post)
	assert.Equal(t, int64(1), post.ID)
	assert.Zero(t, post.LikesCount)
	assert.Zero(t, post.Views)
}

func TestPostControllerUpdateInvalid(t *testing.T) {
	router, _ := setupTestPostController(t)
	w := do(t, router, http.MethodPost, "/posts/", `{"title":"Keep","content":"Body"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name, body string
	}{
		{"malformed json", `{"title"`},
		{"empty body", ``},
		{"unknown field", `{"nope":1}`},
		{"counter field", `{"likes_count":10}`},
		{"id field", `{"id":3}`},
		{"wrong type", `{"is_published":"yes"}`},
		{"null title", `{"title":null}`},
		{"empty title", `{"title":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, do(t, router, http.MethodPut, "/posts/1/", tt.body), http.StatusBadRequest, "Invalid data provided.")
		})
	}

	w = do(t, router, http.MethodGet, "/posts/1/", "")
	var post models.Post
	decode(t, w, &post)
	assert.Equal(t, "Keep", post.Title)
	assert.Nil(t, post.UpdatedAt)
}

func TestPostControllerStorageFailure(t *testing.T) {
	router, repo := setupTestPostController(t)
	repo.Err = errors.New("disk on fire")

	assertError(t, do(t, router, http.MethodGet, "/posts/", ""), http.StatusInternalServerError, "Internal server error.")
	assertError(t, do(t, router, http.MethodPost, "/posts/1/like/", ""), http.StatusInternalServerError, "Internal server error.")
	w := do(t, router, http.MethodPost, "/posts/", `{"title":"T","content":"C"}`)
	assertError(t, w, http.StatusInternalServerError, "Internal server error.")
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func TestPostControllerHealth(t *testing.T) {
	router, _ := setupTestPostController(t)
	w := do(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
