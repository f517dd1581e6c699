package v1

import "fmt"

// ChangedKey names which cross-service relationship changed. Implementations
// are IdentityKey and IssueKey; the concrete type fixes the origin party.
type ChangedKey interface {
	Origin() Party
	Code() int
	String() string
	changedKey()
}

// IdentityKey is a changed key emitted by the identity service.
type IdentityKey int

const (
	IdentityTeamNameChanged IdentityKey = iota
	IdentityProjectIDsChanged
)

func (IdentityKey) Origin() Party { return PartyIdentity }
func (k IdentityKey) Code() int   { return int(k) }
func (IdentityKey) changedKey()   {}

func (k IdentityKey) String() string {
	switch k {
	case IdentityTeamNameChanged:
		return "team_name_changed"
	case IdentityProjectIDsChanged:
		return "project_ids_changed"
	default:
		return fmt.Sprintf("identity_key(%d)", int(k))
	}
}

// IssueKey is a changed key emitted by the issue service.
type IssueKey int

const (
	IssueProjectAuthorChanged IssueKey = iota
	IssueProjectContributorsChanged
)

func (IssueKey) Origin() Party { return PartyIssues }
func (k IssueKey) Code() int   { return int(k) }
func (IssueKey) changedKey()   {}

func (k IssueKey) String() string {
	switch k {
	case IssueProjectAuthorChanged:
		return "project_author_changed"
	case IssueProjectContributorsChanged:
		return "project_contributors_changed"
	default:
		return fmt.Sprintf("issue_key(%d)", int(k))
	}
}

// ParseChangedKey interprets a wire code in the namespace of sender.
func ParseChangedKey(sender Party, code int) (ChangedKey, error) {
	switch sender {
	case PartyIdentity:
		key := IdentityKey(code)
		if key == IdentityTeamNameChanged || key == IdentityProjectIDsChanged {
			return key, nil
		}
	case PartyIssues:
		key := IssueKey(code)
		if key == IssueProjectAuthorChanged || key == IssueProjectContributorsChanged {
			return key, nil
		}
	default:
		return nil, fmt.Errorf("%w: sender %s", ErrUnknownChangedKey, sender)
	}
	return nil, fmt.Errorf("%w: code %d is not valid for sender %s", ErrUnknownChangedKey, code, sender)
}
