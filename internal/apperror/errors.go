package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthenticationError indicates a missing or invalid identity token.
type AuthenticationError struct {
	Msg string
}

func (e *AuthenticationError) Error() string { return e.Msg }

// AuthorizationError indicates a tenant mismatch or a subscription gate
// denial. Redirect carries the page the caller should be sent to.
type AuthorizationError struct {
	Msg      string
	Redirect string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// NotFoundError indicates the requested entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s não encontrado", e.Resource)
	}
	return fmt.Sprintf("%s %s não encontrado", e.Resource, e.ID)
}

// ValidationError indicates malformed input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ExternalServiceError wraps a failure from a collaborator (identity
// provider, object storage, payment gateway, database).
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("falha no serviço externo %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// WriteConflictError indicates a conditional write lost a race with a
// concurrent update.
type WriteConflictError struct {
	Resource string
	ID       string
}

func (e *WriteConflictError) Error() string {
	return fmt.Sprintf("conflito de escrita em %s %s", e.Resource, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Validation builds a ValidationError.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// External wraps err as an ExternalServiceError for the named collaborator.
func External(service string, err error) error {
	return &ExternalServiceError{Service: service, Err: err}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsWriteConflict reports whether err is a WriteConflictError.
func IsWriteConflict(err error) bool {
	var wc *WriteConflictError
	return errors.As(err, &wc)
}

// HTTPStatus maps an error from the service layer to the HTTP status code
// the boundary should answer with.
func HTTPStatus(err error) int {
	var (
		authn    *AuthenticationError
		authz    *AuthorizationError
		notFound *NotFoundError
		valid    *ValidationError
		external *ExternalServiceError
		conflict *WriteConflictError
	)
	switch {
	case errors.As(err, &authn):
		return http.StatusUnauthorized
	case errors.As(err, &authz):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &valid):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &external):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to the caller. Internal
// details of unexpected errors are not leaked.
func PublicMessage(err error) string {
	var (
		authn    *AuthenticationError
		authz    *AuthorizationError
		notFound *NotFoundError
		valid    *ValidationError
		conflict *WriteConflictError
		external *ExternalServiceError
	)
	switch {
	case errors.As(err, &authn):
		return authn.Msg
	case errors.As(err, &authz):
		return authz.Msg
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &valid):
		return valid.Msg
	case errors.As(err, &conflict):
		return "Registro foi alterado por outra operação. Tente novamente."
	case errors.As(err, &external):
		return "Serviço temporariamente indisponível. Tente novamente em instantes."
	default:
		return "Erro interno do servidor."
	}
}
