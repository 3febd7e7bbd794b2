package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"contentservice/app/models"
	"contentservice/app/repositories"
	"contentservice/app/services"

	"github.com/gorilla/mux"
)

const (
	msgNotFound    = "Post not found."
	msgInvalidData = "Invalid data provided."
	msgInternal    = "Internal server error."
	msgDeleted     = "Post deleted."

	maxBodyBytes = 1 << 20
)

// PostController handles HTTP requests for posts
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

// Index lists every post
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, posts)
}

// Show returns a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.postID(w, r)
	if !ok {
		return
	}

	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		pc.sendError(w, msgInvalidData, http.StatusBadRequest)
		return
	}

	var input models.CreatePostInput
	if err := json.Unmarshal(body, &input); err != nil {
		pc.sendError(w, msgInvalidData, http.StatusBadRequest)
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), input)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusCreated, post)
}

// Update applies a partial update to a post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.postID(w, r)
	if !ok {
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		pc.sendError(w, msgInvalidData, http.StatusBadRequest)
		return
	}

	// a missing post wins over a bad body
	if _, err := pc.postService.GetPost(r.Context(), id); err != nil {
		pc.handleError(w, r, err)
		return
	}

	patch, err := models.ParsePostPatch(body)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	post, err := pc.postService.UpdatePost(r.Context(), id, patch)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// Delete removes a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.postID(w, r)
	if !ok {
		return
	}

	n, err := pc.postService.DeletePost(r.Context(), id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	if n == 0 {
		pc.sendError(w, msgNotFound, http.StatusNotFound)
		return
	}
	pc.sendJSON(w, http.StatusOK, map[string]string{"message": msgDeleted})
}

// Like adds one like and returns the new count
func (pc *PostController) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.postID(w, r)
	if !ok {
		return
	}

	likes, err := pc.postService.LikePost(r.Context(), id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, map[string]int64{"likes": likes})
}

// View adds one view and returns the new count
func (pc *PostController) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.postID(w, r)
	if !ok {
		return
	}

	views, err := pc.postService.ViewPost(r.Context(), id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, map[string]int64{"views": views})
}

// Health reports liveness
func (pc *PostController) Health(w http.ResponseWriter, r *http.Request) {
	pc.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// postID parses the {id} route variable. Ids that overflow int64 cannot
// exist, so they are reported as missing posts.
func (pc *PostController) postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		pc.sendError(w, msgNotFound, http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func (pc *PostController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		pc.sendError(w, msgNotFound, http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidPatch), errors.As(err, &verr):
		pc.sendError(w, msgInvalidData, http.StatusBadRequest)
	default:
		log.Printf("ERROR: %s %s: %v", r.Method, r.URL.Path, err)
		pc.sendError(w, msgInternal, http.StatusInternalServerError)
	}
}

func (pc *PostController) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: encode response: %v", err)
	}
}

func (pc *PostController) sendError(w http.ResponseWriter, message string, status int) {
	pc.sendJSON(w, status, map[string]string{"error": message})
}
