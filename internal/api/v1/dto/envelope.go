package dto

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
)

// Envelope is the uniform response shape of the API.
type Envelope struct {
	Status   string `json:"status"`
	Data     any    `json:"data,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// ListData wraps a page of items together with its continuation token.
type ListData struct {
	Items     any    `json:"items"`
	NextToken string `json:"nextToken,omitempty"`
}

// WriteSuccess writes a success envelope with the given HTTP status.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Status: "success", Data: data})
}

// WriteMessage writes a success envelope carrying only a message.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Status: "success", Message: message})
}

// WriteError maps err to an HTTP status and a caller-safe message.
func WriteError(w http.ResponseWriter, err error) {
	env := Envelope{Status: "error", Error: apperror.PublicMessage(err)}
	var authz *apperror.AuthorizationError
	if errors.As(err, &authz) {
		env.Redirect = authz.Redirect
	}
	var authn *apperror.AuthenticationError
	if errors.As(err, &authn) {
		env.Redirect = "/entrar"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperror.HTTPStatus(err))
	json.NewEncoder(w).Encode(env)
}
