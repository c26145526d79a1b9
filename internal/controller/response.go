// internal/controller/response.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
)

type envelope struct {
	Message    string            `json:"message,omitempty"`
	Data       interface{}       `json:"data,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Message: "success", Data: data})
}

// WriteError sends {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Error: msg})
}

// writeServiceError maps typed errors to their status. Anything else is a store
// failure: logged in full, reported to the client generically.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := appErrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
		}
		WriteError(w, status, "internal server error")
		return
	}
	WriteError(w, status, err.Error())
}

func idParam(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func decodeBody(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
