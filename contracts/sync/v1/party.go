package v1

import "fmt"

// Party identifies one of the two services taking part in synchronization.
type Party int

const (
	PartyIdentity Party = iota
	PartyIssues
)

// Inbound queue names. Both queues are declared durable.
const (
	QueueIdentity = "userQueue"
	QueueIssues   = "issueQueue"
)

func (p Party) Valid() bool {
	return p == PartyIdentity || p == PartyIssues
}

func (p Party) String() string {
	switch p {
	case PartyIdentity:
		return "identity-service"
	case PartyIssues:
		return "issue-service"
	default:
		return fmt.Sprintf("party(%d)", int(p))
	}
}

// Peer returns the other party.
func (p Party) Peer() Party {
	if p == PartyIdentity {
		return PartyIssues
	}
	return PartyIdentity
}

// InboundQueue returns the queue the party consumes from.
func (p Party) InboundQueue() string {
	if p == PartyIdentity {
		return QueueIdentity
	}
	return QueueIssues
}

// Action describes what happened upstream, not what the receiver must do.
type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionDelete
)

func (a Action) Valid() bool {
	return a >= ActionCreate && a <= ActionDelete
}

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}
