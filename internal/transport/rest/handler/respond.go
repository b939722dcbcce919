package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"rspo-readiness/internal/assessment"
	"rspo-readiness/internal/model"
	"rspo-readiness/internal/service"
)

const maxBodyBytes = 1 << 20

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func stageParam(r *http.Request) (model.Stage, error) {
	return model.ParseStage(mux.Vars(r)["stage"])
}

// writeServiceError maps domain errors to HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, assessment.ErrInvalidStage),
		errors.Is(err, assessment.ErrUnknownQuestion),
		errors.Is(err, assessment.ErrUnknownOption):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, assessment.ErrStageLocked):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, assessment.ErrQuestionHidden),
		errors.Is(err, assessment.ErrStageNotCompleted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
