package model

import "time"

// Document is the metadata record paired 1:1 with an object in storage.
type Document struct {
	ID          string    `dynamodbav:"id" json:"id"`
	TenantID    string    `dynamodbav:"tenantId" json:"tenantId"`
	ProjetoID   string    `dynamodbav:"projetoId" json:"projetoId"`
	Nome        string    `dynamodbav:"nome" json:"nome"`
	Categoria   string    `dynamodbav:"categoria" json:"categoria"`
	ContentType string    `dynamodbav:"contentType" json:"contentType"`
	Tamanho     int64     `dynamodbav:"tamanho" json:"tamanho"`
	StorageKey  string    `dynamodbav:"storageKey" json:"-"`
	CreatedAt   time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}
