package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"camperplus/internal/models"
	"camperplus/internal/service"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	http.Error(w, userMsg, status)
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// respondWithJSONError writes the structured {success:false, msg} error
// body used by the JSON endpoints
func respondWithJSONError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		log.Printf("%s: %v", msg, err)
	}
	respondWithJSON(w, status, map[string]interface{}{
		"success": false,
		"msg":     msg,
	})
}

// jsonStatusFor maps service and marshalling errors onto HTTP statuses
// for the JSON endpoints
func jsonStatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrMalformedTimestamp):
		return http.StatusBadRequest, "malformed timestamp"
	case errors.Is(err, models.ErrInvalidReference):
		return http.StatusBadRequest, "invalid group reference"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, service.ErrConstraintViolation):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "operation failed"
	}
}
