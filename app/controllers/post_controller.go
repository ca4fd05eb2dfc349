package controllers

import (
	"net/http"
	"strconv"

	"hodolog/app/models"
	"hodolog/app/services"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	log         logrus.FieldLogger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, log logrus.FieldLogger) *PostController {
	return &PostController{
		postService: postService,
		log:         log.WithField("component", "post_controller"),
	}
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.GetList(r.Context())
	if err != nil {
		handleError(w, r, pc.log, err)
		return
	}
	sendJSON(w, pc.log, http.StatusOK, posts)
}

// Show handles fetching a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.postID(w, r)
	if !ok {
		return
	}

	post, err := pc.postService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, pc.log, err)
		return
	}
	sendJSON(w, pc.log, http.StatusOK, post)
}

// Create handles writing a new post. The response body is empty.
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PostCreate
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, pc.log, http.StatusBadRequest, msgInvalidJSON, nil)
		return
	}

	if err := pc.postService.Write(r.Context(), req); err != nil {
		handleError(w, r, pc.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Edit handles replacing the title and content of a post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.postID(w, r)
	if !ok {
		return
	}

	var req models.PostEdit
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, pc.log, http.StatusBadRequest, msgInvalidJSON, nil)
		return
	}

	if err := pc.postService.Edit(r.Context(), id, req); err != nil {
		handleError(w, r, pc.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pc.postID(w, r)
	if !ok {
		return
	}

	if err := pc.postService.Delete(r.Context(), id); err != nil {
		handleError(w, r, pc.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// postID parses the postId path variable, answering 400 when it does not fit an int64.
// Ids that parse but were never issued, such as 0, are left to the store.
func (pc *PostController) postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["postId"], 10, 64)
	if err != nil {
		sendError(w, pc.log, http.StatusBadRequest, "Invalid post ID.", nil)
		return 0, false
	}
	return id, true
}
