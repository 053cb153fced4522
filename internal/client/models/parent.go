package models

import "fmt"

// Parent is a guardian linked to a student.
type Parent struct {
	Id        string `json:"id"`
	StudentId string `json:"student_id"`
	SchoolId  string `json:"school_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Relation  string `json:"relation,omitempty"`
}

func (p Parent) Validate() error {
	if p.Id == "" {
		return fmt.Errorf("parent: missing id")
	}
	return nil
}

// DedupKey identifies a guardian-student link.
func (p Parent) DedupKey() string {
	return p.Id + "|" + p.StudentId
}

// ParentFilter narrows parent queries.
type ParentFilter struct {
	StudentId string `json:"student_id,omitempty"`
	SchoolId  string `json:"school_id,omitempty"`
	Search    string `json:"-"`
}
