// Package users provides the user resource: a typed client over the mock
// API, enrichment of raw records into presentation shape, and the HTTP
// surface serving them.
package users

import "time"

// Roles a user can carry after enrichment.
const (
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
	RoleAuthor     = "author"
	RoleSubscriber = "subscriber"
)

// Account statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// SocialMedia holds the fabricated social handles for a user.
type SocialMedia struct {
	Twitter  string `json:"twitter"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// User is a user record. The upstream API supplies id, name, username and
// email; the remaining fields are fabricated by enrichment.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`

	Avatar      string       `json:"avatar,omitempty"`
	Role        string       `json:"role,omitempty"`
	Status      string       `json:"status,omitempty"`
	JoinDate    time.Time    `json:"joinDate,omitzero"`
	LastLogin   time.Time    `json:"lastLogin,omitzero"`
	Bio         string       `json:"bio,omitempty"`
	Location    string       `json:"location,omitempty"`
	Website     string       `json:"website,omitempty"`
	SocialMedia *SocialMedia `json:"socialMedia,omitempty"`
}

// Draft is the caller-supplied payload for creating or updating a user.
type Draft struct {
	Name     string `json:"name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,alphanum,max=50"`
	Email    string `json:"email" validate:"required,email"`
}

// DeleteResult acknowledges a client-simulated delete.
type DeleteResult struct {
	ID      int  `json:"id"`
	Deleted bool `json:"deleted"`
}
