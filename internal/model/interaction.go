package model

import "time"

// Interaction is a logged contact with a client. Conceptually a history
// entry: it supports update and delete, but consumers treat it as a log.
type Interaction struct {
	ID        string    `dynamodbav:"id" json:"id"`
	TenantID  string    `dynamodbav:"tenantId" json:"tenantId"`
	ClienteID string    `dynamodbav:"clienteId" json:"clienteId"`
	Tipo      string    `dynamodbav:"tipo" json:"tipo"`
	Descricao string    `dynamodbav:"descricao" json:"descricao"`
	Data      time.Time `dynamodbav:"data" json:"data"`
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}
