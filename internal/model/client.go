package model

import "time"

// Client is a rural producer advised by the tenant.
type Client struct {
	ID          string    `dynamodbav:"id" json:"id"`
	TenantID    string    `dynamodbav:"tenantId" json:"tenantId"`
	Nome        string    `dynamodbav:"nome" json:"nome"`
	CPFCNPJ     string    `dynamodbav:"cpfCnpj,omitempty" json:"cpfCnpj,omitempty"`
	Email       string    `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Telefone    string    `dynamodbav:"telefone,omitempty" json:"telefone,omitempty"`
	Propriedade string    `dynamodbav:"propriedade,omitempty" json:"propriedade,omitempty"`
	Municipio   string    `dynamodbav:"municipio,omitempty" json:"municipio,omitempty"`
	Estado      string    `dynamodbav:"estado,omitempty" json:"estado,omitempty"`
	CreatedAt   time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}
