package model

import "time"

// Quadro is a Kanban board. Boards own lists, lists own tasks; the
// hierarchy is encoded in the sort key so one prefix query walks a board.
type Quadro struct {
	ID        string    `dynamodbav:"id" json:"id"`
	TenantID  string    `dynamodbav:"tenantId" json:"tenantId"`
	Titulo    string    `dynamodbav:"titulo" json:"titulo"`
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}

// Lista is a column inside a board.
type Lista struct {
	ID        string    `dynamodbav:"id" json:"id"`
	TenantID  string    `dynamodbav:"tenantId" json:"tenantId"`
	QuadroID  string    `dynamodbav:"quadroId" json:"quadroId"`
	Titulo    string    `dynamodbav:"titulo" json:"titulo"`
	Ordem     int       `dynamodbav:"ordem" json:"ordem"`
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}

// Tarefa is a card inside a list.
type Tarefa struct {
	ID        string    `dynamodbav:"id" json:"id"`
	TenantID  string    `dynamodbav:"tenantId" json:"tenantId"`
	QuadroID  string    `dynamodbav:"quadroId" json:"quadroId"`
	ListaID   string    `dynamodbav:"listaId" json:"listaId"`
	Titulo    string    `dynamodbav:"titulo" json:"titulo"`
	Descricao string    `dynamodbav:"descricao,omitempty" json:"descricao,omitempty"`
	Concluida bool      `dynamodbav:"concluida" json:"concluida"`
	Ordem     int       `dynamodbav:"ordem" json:"ordem"`
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}
