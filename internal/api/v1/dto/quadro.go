package dto

// QuadroCreateDTO is the payload for creating a board.
type QuadroCreateDTO struct {
	Titulo string `json:"titulo" validate:"required"`
}

// QuadroUpdateDTO is the payload for renaming a board.
type QuadroUpdateDTO struct {
	Titulo string `json:"titulo" validate:"required"`
}

// ListaCreateDTO is the payload for adding a list to a board.
type ListaCreateDTO struct {
	Titulo string `json:"titulo" validate:"required"`
	Ordem  int    `json:"ordem"`
}

// ListaUpdateDTO is the payload for a partial list update.
type ListaUpdateDTO struct {
	Titulo *string `json:"titulo" validate:"omitempty,min=1"`
	Ordem  *int    `json:"ordem"`
}

// TarefaCreateDTO is the payload for adding a task to a list.
type TarefaCreateDTO struct {
	Titulo    string `json:"titulo" validate:"required"`
	Descricao string `json:"descricao"`
	Ordem     int    `json:"ordem"`
}

// TarefaUpdateDTO is the payload for a partial task update. ListaID moves
// the task to another list on the same board.
type TarefaUpdateDTO struct {
	Titulo    *string `json:"titulo" validate:"omitempty,min=1"`
	Descricao *string `json:"descricao"`
	Concluida *bool   `json:"concluida"`
	Ordem     *int    `json:"ordem"`
	ListaID   *string `json:"listaId" validate:"omitempty,min=1"`
}
