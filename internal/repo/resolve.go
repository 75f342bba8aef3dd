// Package repo maps a user-supplied repository token to a repository id.
package repo

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/IPDSnelting/velcom/internal/client"
)

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("repository not found")

// NotFoundError is returned when no repository matches a token. Repos holds
// every candidate so the caller can show them.
type NotFoundError struct {
	Token string
	Repos []client.Repo
}

func (e *NotFoundError) Error() string {
	if len(e.Repos) == 0 {
		return fmt.Sprintf("no repository matches %q (the server knows no repositories)", e.Token)
	}
	return fmt.Sprintf("no repository matches %q (%d known)", e.Token, len(e.Repos))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Resolve returns the id of the repository token refers to. Matching tiers
// are tried in order and the first hit wins:
//
//  1. token equals a repository id
//  2. token equals a repository name
//  3. token equals a name after Normalize is applied to both
//
// Within a tier the first repository in server order wins. Repository names
// are expected to be unique, so which of several equally named repositories
// is picked is not specified.
func Resolve(token string, repos []client.Repo) (string, error) {
	for _, r := range repos {
		if r.ID == token {
			return r.ID, nil
		}
	}

	for _, r := range repos {
		if r.Name == token {
			return r.ID, nil
		}
	}

	normalized := Normalize(token)
	for _, r := range repos {
		if Normalize(r.Name) == normalized {
			return r.ID, nil
		}
	}

	return "", &NotFoundError{Token: token, Repos: repos}
}

// Normalize lower-cases s and removes every whitespace character.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
