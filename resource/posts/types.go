// Package posts provides the post resource: a typed client over the mock
// API, enrichment of raw records into presentation shape, and the HTTP
// surface serving them.
package posts

import "time"

// Statuses a post can carry after enrichment.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusArchived  = "archived"
)

// Author is a denormalized snapshot attached to a post, not a live
// reference to the user record.
type Author struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Post is a post record. The upstream API supplies id, userId, title and
// body; the remaining fields are fabricated by enrichment.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	Status    string    `json:"status,omitempty"`
	Views     int       `json:"views"`
	Likes     int       `json:"likes"`
	Tags      []string  `json:"tags,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Author    *Author   `json:"author,omitempty"`
}

// Comment is a comment on a post, served raw from the upstream.
type Comment struct {
	PostID int    `json:"postId"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// Draft is the caller-supplied payload for creating or updating a post.
type Draft struct {
	Title string   `json:"title" validate:"required,max=200"`
	Body  string   `json:"body" validate:"required"`
	Tags  []string `json:"tags" validate:"omitempty,dive,required"`
}

// DeleteResult acknowledges a client-simulated delete.
type DeleteResult struct {
	ID      int  `json:"id"`
	Deleted bool `json:"deleted"`
}
