// Package contacts defines the records exchanged with the directory and
// contacts providers: bookable resources, target users, contact records,
// contact groups and the batched mutation protocol.
package contacts

import (
	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of an email address.
// Resource and contact email identity is case-insensitive.
func Fold(email string) string {
	// A Caser carries state, so each call gets its own.
	return cases.Fold().String(email)
}

// Resource is a bookable directory entry (room, equipment).
// Identity is its email address, compared case-insensitively.
type Resource struct {
	Email       string `json:"email" yaml:"email"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Key returns the lookup key of the resource.
func (r Resource) Key() string {
	return Fold(r.Email)
}

// User is a target account of the user directory.
type User struct {
	PrimaryEmail string `json:"primary_email" yaml:"primary_email"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
}
