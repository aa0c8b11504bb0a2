// Package access decides who may read, create, update and delete books.
package access

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrUnauthenticated: the action needs an actor and the request has none.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	// ErrForbidden: the actor is known but not allowed to perform the action.
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

// Action is a book operation subject to the policy.
type Action string

const (
	ActionRead          Action = "read"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDelete        Action = "delete"
)

// Decision is the outcome of Authorize.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

func (d Decision) Allowed() bool {
	return d == Allow
}

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "unauthenticated"
	case DenyForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Err maps a denial to ErrUnauthenticated or ErrForbidden; Allow maps to nil.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return ErrUnauthenticated
	default:
		return ErrForbidden
	}
}

// Actor is the authenticated identity behind a request. A nil *Actor is the
// anonymous actor.
type Actor struct {
	UserID   uuid.UUID
	Username string
	IsAdmin  bool
}

// Target is the book an action applies to. It is nil for create and list.
type Target struct {
	AuthorID uuid.UUID
}

// Policy evaluates the book permission table against an injected registry.
type Policy struct {
	banned *BannedRegistry
}

func NewPolicy(banned *BannedRegistry) *Policy {
	if banned == nil {
		banned = NewBannedRegistry()
	}
	return &Policy{banned: banned}
}

// Authorize returns the decision for actor performing action on target.
//
//	read                         anyone
//	create                       authenticated and not banned
//	update, partial_update,
//	delete                       admin, or the book's author when not banned
func (p *Policy) Authorize(actor *Actor, action Action, target *Target) Decision {
	d := p.decide(actor, action, target)
	decisionsTotal.WithLabelValues(string(action), d.String()).Inc()
	return d
}

func (p *Policy) decide(actor *Actor, action Action, target *Target) Decision {
	if action == ActionRead {
		return Allow
	}
	if actor == nil {
		return DenyUnauthenticated
	}

	switch action {
	case ActionCreate:
		if p.banned.IsBanned(actor.Username) {
			return DenyForbidden
		}
		return Allow

	case ActionUpdate, ActionPartialUpdate, ActionDelete:
		if actor.IsAdmin {
			return Allow
		}
		if target != nil && target.AuthorID == actor.UserID && !p.banned.IsBanned(actor.Username) {
			return Allow
		}
		return DenyForbidden

	default:
		return DenyForbidden
	}
}

// IsBanned exposes the registry lookup used by the policy.
func (p *Policy) IsBanned(username string) bool {
	return p.banned.IsBanned(username)
}
