package dto

import (
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
)

// VisitCreateDTO is the payload for scheduling a visit.
type VisitCreateDTO struct {
	ClienteID   string    `json:"clienteId" validate:"required"`
	Propriedade string    `json:"propriedade"`
	Data        time.Time `json:"data" validate:"required"`
	Observacoes string    `json:"observacoes"`
}

// VisitUpdateDTO is the payload for a partial visit update. Status changes
// follow the scheduling transitions (Agendada to Realizada or Cancelada).
type VisitUpdateDTO struct {
	Propriedade *string            `json:"propriedade"`
	Data        *time.Time         `json:"data"`
	Status      *model.VisitStatus `json:"status"`
	Observacoes *string            `json:"observacoes"`
}
