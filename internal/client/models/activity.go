package models

import "fmt"

// Activity is a dated record for a student within a class: attendance,
// participation, or a disciplinary note. Activities recorded offline carry a
// client-generated id until the server confirms them.
type Activity struct {
	Id        string `json:"id"`
	ClassId   string `json:"class_id"`
	TermId    string `json:"term_id"`
	StudentId string `json:"student_id"`
	Kind      string `json:"kind"`   // attendance | participation | conduct
	Status    string `json:"status"` // present | absent | late | excused ...
	Date      string `json:"date"`   // ISO calendar date, e.g. "2026-03-14"
	Remarks   string `json:"remarks,omitempty"`
}

func (a Activity) Validate() error {
	if a.Id == "" {
		return fmt.Errorf("activity: missing id")
	}
	if a.StudentId == "" {
		return fmt.Errorf("activity %s: missing student_id", a.Id)
	}
	if a.Date == "" {
		return fmt.Errorf("activity %s: missing date", a.Id)
	}
	return nil
}

// DedupKey identifies one logical record per student, kind and day.
func (a Activity) DedupKey() string {
	return a.StudentId + "|" + a.Kind + "|" + a.Date
}

// ActivityFilter narrows activity queries.
type ActivityFilter struct {
	ClassId   string `json:"class_id,omitempty"`
	TermId    string `json:"term_id,omitempty"`
	StudentId string `json:"student_id,omitempty"`
	Date      string `json:"date,omitempty"`
	Search    string `json:"-"`
}
