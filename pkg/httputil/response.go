// Package httputil provides the uniform response envelope and request
// parsing helpers shared by all handlers.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/taskhive/taskd/pkg/apperr"
)

// Envelope is the wire shape of every response. Count is present only on
// list endpoints.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Token   string      `json:"token,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// WriteData writes a successful response carrying data.
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

// WriteMessage writes a successful response with a message and data.
func WriteMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	writeEnvelope(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteList writes a successful list response with its count.
func WriteList(w http.ResponseWriter, data interface{}, count int) {
	writeEnvelope(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// WriteToken writes a successful auth response carrying a bearer token.
func WriteToken(w http.ResponseWriter, status int, token string) {
	writeEnvelope(w, status, Envelope{Success: true, Token: token})
}

// StatusForKind maps an error kind to its HTTP status code. The mapping
// lives only here, at the transport boundary.
func StatusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindInvalidOperation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes a failure envelope for a classified error. Unclassified
// errors surface as a generic server error; the cause never reaches the
// caller.
func WriteError(w http.ResponseWriter, err error) {
	writeEnvelope(w, StatusForKind(apperr.KindOf(err)), Envelope{Success: false, Error: apperr.UserMessage(err)})
}

// WriteErrorMessage writes a failure envelope with an explicit status and
// message.
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Success: false, Error: message})
}
