package models

import (
	"fmt"
	"time"
)

// WallPost is an announcement on a class or school wall. Posts composed
// offline carry a client-generated id until the server confirms them.
type WallPost struct {
	Id          string    `json:"id"`
	SchoolId    string    `json:"school_id"`
	ClassId     string    `json:"class_id,omitempty"`
	AuthorId    string    `json:"author_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Attachments []string  `json:"attachments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p WallPost) Validate() error {
	if p.Id == "" {
		return fmt.Errorf("wall post: missing id")
	}
	if p.Title == "" && p.Body == "" {
		return fmt.Errorf("wall post %s: empty post", p.Id)
	}
	return nil
}

// DedupKey identifies a logical post regardless of which wall join returned it.
func (p WallPost) DedupKey() string {
	return p.Id
}

// WallPostFilter narrows wall post queries.
type WallPostFilter struct {
	SchoolId string `json:"school_id,omitempty"`
	ClassId  string `json:"class_id,omitempty"`
	AuthorId string `json:"author_id,omitempty"`
	Search   string `json:"-"`
}
