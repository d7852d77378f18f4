package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"authentication", &AuthenticationError{Msg: "sem token"}, http.StatusUnauthorized},
		{"authorization", &AuthorizationError{Msg: "sem acesso"}, http.StatusForbidden},
		{"not found", NotFound("cliente", "c1"), http.StatusNotFound},
		{"validation", Validation("campo inválido"), http.StatusBadRequest},
		{"write conflict", &WriteConflictError{Resource: "cliente", ID: "c1"}, http.StatusConflict},
		{"external", External("s3", errors.New("timeout")), http.StatusBadGateway},
		{"wrapped not found", fmt.Errorf("loading: %w", NotFound("projeto", "p1")), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPublicMessageHidesInternals(t *testing.T) {
	msg := PublicMessage(errors.New("pq: connection refused at 10.0.0.3"))
	if msg != "Erro interno do servidor." {
		t.Fatalf("internal detail leaked: %q", msg)
	}
	msg = PublicMessage(External("asaas", errors.New("401 invalid api key sk_live_abc")))
	if msg != "Serviço temporariamente indisponível. Tente novamente em instantes." {
		t.Fatalf("external detail leaked: %q", msg)
	}
}

func TestNotFoundMessage(t *testing.T) {
	if got := NotFound("cliente", "c1").Error(); got != "cliente c1 não encontrado" {
		t.Errorf("got %q", got)
	}
	if got := NotFound("cliente", "").Error(); got != "cliente não encontrado" {
		t.Errorf("got %q", got)
	}
}

func TestHelpers(t *testing.T) {
	if !IsNotFound(fmt.Errorf("wrap: %w", NotFound("visita", "v1"))) {
		t.Error("IsNotFound missed a wrapped error")
	}
	if IsNotFound(errors.New("other")) {
		t.Error("IsNotFound matched an unrelated error")
	}
	if !IsWriteConflict(&WriteConflictError{}) {
		t.Error("IsWriteConflict missed")
	}
	if got := Validation("valor inválido: %q", "abc").Error(); got != `valor inválido: "abc"` {
		t.Errorf("got %q", got)
	}
}
