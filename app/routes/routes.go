package routes

import (
	"encoding/json"
	"net/http"

	"contentservice/app/controllers"
	"contentservice/app/middleware"
	"contentservice/app/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes defines the application's routes and returns a router. A nil
// limiter disables rate limiting.
func SetupRoutes(postService *services.PostService, limiter *middleware.RateLimiter) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Metrics)

	// mux skips Use middleware for these
	router.NotFoundHandler = middleware.RequestID(jsonError(http.StatusNotFound, "Not found."))
	router.MethodNotAllowedHandler = middleware.RequestID(jsonError(http.StatusMethodNotAllowed, "Method not allowed."))

	postController := controllers.NewPostController(postService)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/healthz", postController.Health).Methods("GET")

	posts := router.PathPrefix("/posts").Subrouter()
	posts.Use(middleware.ContentTypeJSON)
	if limiter != nil {
		posts.Use(limiter.Middleware)
	}

	posts.HandleFunc("/", postController.Index).Methods("GET")
	posts.HandleFunc("/", postController.Create).Methods("POST")
	posts.HandleFunc("/{id:[0-9]+}/", postController.Show).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}/", postController.Update).Methods("PUT")
	posts.HandleFunc("/{id:[0-9]+}/", postController.Delete).Methods("DELETE")
	posts.HandleFunc("/{id:[0-9]+}/like/", postController.Like).Methods("POST")
	posts.HandleFunc("/{id:[0-9]+}/view/", postController.View).Methods("POST")

	return router
}

func jsonError(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
	})
}
