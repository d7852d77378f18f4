package dto

// ClientCreateDTO is the payload for creating a client.
type ClientCreateDTO struct {
	Nome        string `json:"nome" validate:"required"`
	CPFCNPJ     string `json:"cpfCnpj" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Telefone    string `json:"telefone"`
	Propriedade string `json:"propriedade"`
	Municipio   string `json:"municipio"`
	Estado      string `json:"estado" validate:"omitempty,len=2"`
}

// ClientUpdateDTO is the payload for a partial client update.
type ClientUpdateDTO struct {
	Nome        *string `json:"nome" validate:"omitempty,min=1"`
	CPFCNPJ     *string `json:"cpfCnpj" validate:"omitempty,min=11"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Telefone    *string `json:"telefone"`
	Propriedade *string `json:"propriedade"`
	Municipio   *string `json:"municipio"`
	Estado      *string `json:"estado" validate:"omitempty,len=2"`
}
