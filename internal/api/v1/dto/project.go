package dto

import "github.com/agro-trimobe/rural-credit-app-sub002/internal/model"

// ProjectCreateDTO is the payload for creating a project. Valor accepts a
// JSON number or a localized currency string ("R$ 1.234,56").
type ProjectCreateDTO struct {
	ClienteID    string             `json:"clienteId" validate:"required"`
	Titulo       string             `json:"titulo" validate:"required"`
	Descricao    string             `json:"descricao"`
	Valor        any                `json:"valor" validate:"required"`
	LinhaCredito string             `json:"linhaCredito" validate:"required"`
	Finalidade   string             `json:"finalidade"`
	Status       string             `json:"status"`
	Localizacao  *model.Localizacao `json:"localizacao"`
}

// ProjectUpdateDTO is the payload for a partial project update.
type ProjectUpdateDTO struct {
	Titulo       *string            `json:"titulo" validate:"omitempty,min=1"`
	Descricao    *string            `json:"descricao"`
	Valor        any                `json:"valor"`
	LinhaCredito *string            `json:"linhaCredito" validate:"omitempty,min=1"`
	Finalidade   *string            `json:"finalidade"`
	Status       *string            `json:"status" validate:"omitempty,min=1"`
	Localizacao  *model.Localizacao `json:"localizacao"`
}
