package model

import "time"

// VisitStatus is the scheduling state of a field visit.
type VisitStatus string

const (
	VisitAgendada  VisitStatus = "Agendada"
	VisitRealizada VisitStatus = "Realizada"
	VisitCancelada VisitStatus = "Cancelada"
)

// ValidVisitStatus reports whether s is a known status value.
func ValidVisitStatus(s VisitStatus) bool {
	switch s {
	case VisitAgendada, VisitRealizada, VisitCancelada:
		return true
	}
	return false
}

// CanTransitionTo enforces Agendada -> Realizada|Cancelada. Terminal states
// accept no further transitions.
func (v VisitStatus) CanTransitionTo(next VisitStatus) bool {
	return v == VisitAgendada && (next == VisitRealizada || next == VisitCancelada)
}

// Visit is a scheduled field visit to a client or property.
type Visit struct {
	ID          string      `dynamodbav:"id" json:"id"`
	TenantID    string      `dynamodbav:"tenantId" json:"tenantId"`
	ClienteID   string      `dynamodbav:"clienteId" json:"clienteId"`
	Propriedade string      `dynamodbav:"propriedade,omitempty" json:"propriedade,omitempty"`
	Data        time.Time   `dynamodbav:"data" json:"data"`
	Status      VisitStatus `dynamodbav:"status" json:"status"`
	Observacoes string      `dynamodbav:"observacoes,omitempty" json:"observacoes,omitempty"`
	CreatedAt   time.Time   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time   `dynamodbav:"updatedAt" json:"updatedAt"`
}
