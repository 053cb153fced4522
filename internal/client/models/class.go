// Package models defines client-side data models cached locally and
// exchanged with the school API. JSON tags match the wire shape; the full
// JSON form of each record is also what gets stored in the serialized column
// of its local table.
package models

import "fmt"

// Class is a school class (group of students) within an academic term.
type Class struct {
	Id           string `json:"id"`
	SchoolId     string `json:"school_id"`
	TermId       string `json:"term_id"`
	TeacherId    string `json:"teacher_id"`
	Name         string `json:"name"`
	Grade        string `json:"grade"`
	Room         string `json:"room,omitempty"`
	StudentCount int    `json:"student_count,omitempty"`
}

// Validate checks the fields required before the record may be cached.
func (c Class) Validate() error {
	if c.Id == "" {
		return fmt.Errorf("class: missing id")
	}
	if c.SchoolId == "" {
		return fmt.Errorf("class %s: missing school_id", c.Id)
	}
	return nil
}

// DedupKey builds the composite identity used to drop duplicate rows the API
// emits for distinct join paths (same class reachable via several terms).
func (c Class) DedupKey() string {
	return c.Id + "|" + c.TermId
}

// ClassFilter narrows class queries. Exact-match fields map to indexed
// columns; Search is applied in memory against the full record.
type ClassFilter struct {
	SchoolId  string `json:"school_id,omitempty"`
	TermId    string `json:"term_id,omitempty"`
	TeacherId string `json:"teacher_id,omitempty"`
	Grade     string `json:"grade,omitempty"`
	Search    string `json:"-"`
}
