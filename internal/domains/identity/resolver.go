// Package identity computes the public name shown for a user and for the
// books they author.
package identity

import (
	"errors"
	"strings"
)

// ErrUnresolvableIdentity is returned by ResolveForWrite when the author has
// neither a usable pseudonym nor a complete real name.
var ErrUnresolvableIdentity = errors.New("displayed identity cannot be blank: provide a pseudonym or ensure the author has a first and last name")

// Identity is the subset of user fields that decide the displayed name.
type Identity struct {
	Username  string
	FirstName string
	LastName  string
	Pseudonym *string
}

// pseudonym returns the stored pseudonym, or "" when it is null or blank.
func (i Identity) pseudonym() string {
	if i.Pseudonym == nil || strings.TrimSpace(*i.Pseudonym) == "" {
		return ""
	}
	return *i.Pseudonym
}

// realName returns "first last" when both parts are present, otherwise "".
func (i Identity) realName() string {
	if strings.TrimSpace(i.FirstName) == "" || strings.TrimSpace(i.LastName) == "" {
		return ""
	}
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// ResolveDisplayedName returns, in priority order, the pseudonym, the real
// name, or the username. It never fails.
func ResolveDisplayedName(i Identity) string {
	if p := i.pseudonym(); p != "" {
		return p
	}
	if name := i.realName(); name != "" {
		return name
	}
	return i.Username
}

// ResolveForWrite computes the name persisted with a book in snapshot mode.
// usePseudonym short-circuits to the pseudonym when one is set; otherwise the
// real name is required. The username is never used as a snapshot.
func ResolveForWrite(i Identity, usePseudonym bool) (string, error) {
	if usePseudonym {
		if p := i.pseudonym(); p != "" {
			return p, nil
		}
	}
	if name := i.realName(); name != "" {
		return name, nil
	}
	return "", ErrUnresolvableIdentity
}
