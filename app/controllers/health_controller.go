package controllers

import (
	"net/http"

	"hodolog/app/services"

	"github.com/sirupsen/logrus"
)

// HealthController reports whether the post store is reachable
type HealthController struct {
	postService *services.PostService
	log         logrus.FieldLogger
}

// NewHealthController creates a new HealthController
func NewHealthController(postService *services.PostService, log logrus.FieldLogger) *HealthController {
	return &HealthController{
		postService: postService,
		log:         log.WithField("component", "health_controller"),
	}
}

// Check answers 200 when the store can count posts and 503 otherwise
func (hc *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	if _, err := hc.postService.Count(r.Context()); err != nil {
		hc.log.WithError(err).Warn("health check failed")
		sendJSON(w, hc.log, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	sendJSON(w, hc.log, http.StatusOK, map[string]string{"status": "healthy"})
}
