package model

import "fmt"

// Single-table key layout. Every item lives under its tenant partition;
// cross-tenant reads are structurally impossible because the tenant id is
// part of the partition key.
func TenantPK(tenantID string) string {
	return "TENANT#" + tenantID
}

func UserSK(userID string) string {
	return "USER#" + userID
}

func ClientSK(clientID string) string {
	return "CLIENT#" + clientID
}

func ProjectSK(projectID string) string {
	return "PROJECT#" + projectID
}

// ProjectDocSK nests documents under their project so a single
// begins_with query returns all documents of a project.
func ProjectDocSK(projectID, documentID string) string {
	return fmt.Sprintf("PROJECT#%s#DOC#%s", projectID, documentID)
}

func ProjectDocPrefix(projectID string) string {
	return fmt.Sprintf("PROJECT#%s#DOC#", projectID)
}

func VisitSK(visitID string) string {
	return "VISIT#" + visitID
}

func InteractionSK(interactionID string) string {
	return "INTERACTION#" + interactionID
}

func QuadroSK(quadroID string) string {
	return "QUADRO#" + quadroID
}

func ListaSK(quadroID, listaID string) string {
	return fmt.Sprintf("QUADRO#%s#LISTA#%s", quadroID, listaID)
}

func TarefaSK(quadroID, listaID, tarefaID string) string {
	return fmt.Sprintf("QUADRO#%s#LISTA#%s#TAREFA#%s", quadroID, listaID, tarefaID)
}

// ByClientPK is the GSI1 partition key grouping projects, visits and
// interactions under the client they belong to.
func ByClientPK(tenantID, clientID string) string {
	return fmt.Sprintf("TENANT#%s#CLIENT#%s", tenantID, clientID)
}

// ByCreditLinePK is the GSI2 partition key grouping projects by credit line.
func ByCreditLinePK(tenantID, creditLine string) string {
	return fmt.Sprintf("TENANT#%s#LINHA#%s", tenantID, creditLine)
}

// ByCategoryPK is the GSI2 partition key grouping documents by category.
func ByCategoryPK(tenantID, category string) string {
	return fmt.Sprintf("TENANT#%s#CATEGORIA#%s", tenantID, category)
}

// ByGatewaySubscriptionPK is the GSI2 partition key locating the user that
// owns a payment-gateway subscription, used by webhook processing.
func ByGatewaySubscriptionPK(gatewaySubscriptionID string) string {
	return "ASSINATURA#" + gatewaySubscriptionID
}
