package models

import "fmt"

// Student is a pupil enrolled in a class.
type Student struct {
	Id            string `json:"id"`
	ClassId       string `json:"class_id"`
	SchoolId      string `json:"school_id"`
	Name          string `json:"name"`
	AdmissionNo   string `json:"admission_no,omitempty"`
	GuardianPhone string `json:"guardian_phone,omitempty"`
	PhotoURL      string `json:"photo_url,omitempty"`
}

func (s Student) Validate() error {
	if s.Id == "" {
		return fmt.Errorf("student: missing id")
	}
	if s.ClassId == "" {
		return fmt.Errorf("student %s: missing class_id", s.Id)
	}
	return nil
}

// DedupKey identifies a logical enrollment; the list endpoint repeats a
// student once per guardian link.
func (s Student) DedupKey() string {
	return s.Id + "|" + s.ClassId
}

// StudentFilter narrows student queries.
type StudentFilter struct {
	ClassId  string `json:"class_id,omitempty"`
	SchoolId string `json:"school_id,omitempty"`
	Search   string `json:"-"`
}
