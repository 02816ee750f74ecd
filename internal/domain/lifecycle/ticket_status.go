package lifecycle

// TicketStatus is the review state of a payment ticket.
type TicketStatus string

const (
	TicketPending  TicketStatus = "PENDING"
	TicketApproved TicketStatus = "APPROVED"
	TicketRejected TicketStatus = "REJECTED"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketPending, TicketApproved, TicketRejected:
		return true
	}
	return false
}

// ticketTransitions: PENDING -> {APPROVED, REJECTED}. REJECTED -> APPROVED
// models a payment that arrived after rejection. APPROVED is terminal, so
// a second approval (or any demotion) fails the legality check.
var ticketTransitions = map[TicketStatus]map[TicketStatus]bool{
	TicketPending: {
		TicketApproved: true,
		TicketRejected: true,
	},
	TicketRejected: {
		TicketApproved: true,
	},
	TicketApproved: {},
}

// CanTransitionTicket reports whether a ticket may move between statuses.
func CanTransitionTicket(from, to TicketStatus) bool {
	allowed, ok := ticketTransitions[from]
	return ok && allowed[to]
}
