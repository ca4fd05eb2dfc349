package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hodolog/app/controllers"
	"hodolog/app/middleware"
	"hodolog/app/services"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(postService *services.PostService, log logrus.FieldLogger) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recoverer(log))
	router.Use(middleware.ContentTypeJSON)

	postController := controllers.NewPostController(postService, log)
	healthController := controllers.NewHealthController(postService, log)

	// Posts endpoints
	posts := router.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("", postController.Create).Methods("POST")
	posts.HandleFunc("/{postId:[0-9]+}", postController.Show).Methods("GET")
	posts.HandleFunc("/{postId:[0-9]+}", postController.Edit).Methods("PATCH")
	posts.HandleFunc("/{postId:[0-9]+}", postController.Delete).Methods("DELETE")

	router.HandleFunc("/health", healthController.Check).Methods("GET")

	router.NotFoundHandler = errorHandler(http.StatusNotFound, "Not found.")
	router.MethodNotAllowedHandler = errorHandler(http.StatusMethodNotAllowed, "Method not allowed.")

	return router
}

func errorHandler(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(controllers.ErrorResponse{
			Code:    strconv.Itoa(status),
			Message: message,
		})
	})
}
