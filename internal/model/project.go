package model

import "time"

// Localizacao is the geographic location of the financed property.
type Localizacao struct {
	Latitude  float64 `dynamodbav:"latitude" json:"latitude"`
	Longitude float64 `dynamodbav:"longitude" json:"longitude"`
	Municipio string  `dynamodbav:"municipio,omitempty" json:"municipio,omitempty"`
}

// Project is a rural-credit project, optionally tied to a client.
type Project struct {
	ID           string       `dynamodbav:"id" json:"id"`
	TenantID     string       `dynamodbav:"tenantId" json:"tenantId"`
	ClienteID    string       `dynamodbav:"clienteId,omitempty" json:"clienteId,omitempty"`
	Titulo       string       `dynamodbav:"titulo" json:"titulo"`
	Descricao    string       `dynamodbav:"descricao,omitempty" json:"descricao,omitempty"`
	Valor        float64      `dynamodbav:"valor" json:"valor"`
	LinhaCredito string       `dynamodbav:"linhaCredito,omitempty" json:"linhaCredito,omitempty"`
	Finalidade   string       `dynamodbav:"finalidade,omitempty" json:"finalidade,omitempty"`
	Status       string       `dynamodbav:"status" json:"status"`
	Localizacao  *Localizacao `dynamodbav:"localizacao,omitempty" json:"localizacao,omitempty"`
	CreatedAt    time.Time    `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time    `dynamodbav:"updatedAt" json:"updatedAt"`
}
