// Package handlers implements the dockprep HTTP API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anhth20011/dockprep/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAppError maps an error to its HTTP status via the AppError code
// table. Internal errors are masked; everything else passes its message
// through to the client.
func writeAppError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.CodeOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Code: code.String(), Message: msg})
}

// decodeJSON decodes a request body, rejecting unknown fields so typos in
// client payloads surface as 400s instead of silently-ignored settings.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "decoding request body")
	}
	return nil
}
