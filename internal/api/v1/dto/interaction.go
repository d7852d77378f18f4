package dto

import "time"

// InteractionCreateDTO is the payload for logging a client interaction.
type InteractionCreateDTO struct {
	ClienteID string    `json:"clienteId" validate:"required"`
	Tipo      string    `json:"tipo" validate:"required"`
	Descricao string    `json:"descricao" validate:"required"`
	Data      time.Time `json:"data"`
}

// InteractionUpdateDTO is the payload for a partial interaction update.
type InteractionUpdateDTO struct {
	Tipo      *string    `json:"tipo" validate:"omitempty,min=1"`
	Descricao *string    `json:"descricao" validate:"omitempty,min=1"`
	Data      *time.Time `json:"data"`
}
