package auth

import "github.com/cimillas/gatepass/internal/domain"

// Operation enumerates every role-gated action the transport exposes.
type Operation string

const (
	OpReserve                   Operation = "reserve"
	OpSubmitProof               Operation = "submit_proof"
	OpDecide                    Operation = "decide"
	OpDownloadTicket            Operation = "download_ticket"
	OpListOwnTransactions       Operation = "list_own_transactions"
	OpListOrganizerTransactions Operation = "list_organizer_transactions"
	OpCreateEvent               Operation = "create_event"
	OpUpdateEvent               Operation = "update_event"
	OpListOwnEvents             Operation = "list_own_events"
)

// capabilities is the closed {role x operation} table. Anything not listed
// is denied; there is no ad hoc role string comparison anywhere else.
var capabilities = map[Operation]map[domain.Role]bool{
	OpReserve:                   {domain.RoleCustomer: true},
	OpSubmitProof:               {domain.RoleCustomer: true},
	OpDecide:                    {domain.RoleOrganizer: true},
	OpDownloadTicket:            {domain.RoleCustomer: true},
	OpListOwnTransactions:       {domain.RoleCustomer: true, domain.RoleOrganizer: true},
	OpListOrganizerTransactions: {domain.RoleOrganizer: true},
	OpCreateEvent:               {domain.RoleOrganizer: true},
	OpUpdateEvent:               {domain.RoleOrganizer: true},
	OpListOwnEvents:             {domain.RoleOrganizer: true},
}

// Allowed reports whether the role may perform the operation.
func Allowed(role domain.Role, op Operation) bool {
	return capabilities[op][role]
}
