package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"hodolog/app/models"
	"hodolog/app/services"

	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Validation map[string]string `json:"validation,omitempty"`
}

const (
	msgBadRequest   = "Invalid request."
	msgInvalidJSON  = "Invalid JSON."
	msgPostNotFound = "The post does not exist."
	msgInternal     = "Internal server error."
)

// sendJSON writes data with status. The header is already sent when encoding
// fails, so the failure is only logged.
func sendJSON(w http.ResponseWriter, log logrus.FieldLogger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Debug("failed to encode response")
	}
}

// decodeJSON decodes a single JSON value from the request body and rejects trailing data
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

func sendError(w http.ResponseWriter, log logrus.FieldLogger, status int, message string, validation map[string]string) {
	sendJSON(w, log, status, ErrorResponse{
		Code:       strconv.Itoa(status),
		Message:    message,
		Validation: validation,
	})
}

// handleError maps service errors to HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		sendError(w, log, http.StatusBadRequest, msgBadRequest, verr.Fields)
	case errors.Is(err, services.ErrPostNotFound):
		sendError(w, log, http.StatusNotFound, msgPostNotFound, nil)
	default:
		log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("request failed")
		sendError(w, log, http.StatusInternalServerError, msgInternal, nil)
	}
}
