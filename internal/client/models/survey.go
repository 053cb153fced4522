package models

import (
	"fmt"
	"time"
)

// Survey is a quiz or questionnaire built section by section. The tree is
// cached locally so questions can be drafted offline; a question without an
// id is a draft the server has not assigned an identity to yet.
type Survey struct {
	Id        string          `json:"id"`
	SchoolId  string          `json:"school_id,omitempty"`
	Title     string          `json:"title"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
	Sections  []SurveySection `json:"sections,omitempty"`
}

func (s Survey) Validate() error {
	if s.Id == "" {
		return fmt.Errorf("survey: missing id")
	}
	return nil
}

// SurveySection groups questions within a survey.
type SurveySection struct {
	Id        string           `json:"id"`
	Title     string           `json:"title"`
	Position  int              `json:"position,omitempty"`
	UpdatedAt time.Time        `json:"updated_at,omitempty"`
	Questions []SurveyQuestion `json:"questions,omitempty"`
}

// SurveyQuestion is a leaf of the survey tree. Id is empty for drafts
// created offline.
type SurveyQuestion struct {
	Id        string    `json:"id,omitempty"`
	Text      string    `json:"text"`
	Kind      string    `json:"kind"` // single_choice | multi_choice | free_text
	Options   []string  `json:"options,omitempty"`
	Required  bool      `json:"required,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (q SurveyQuestion) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("survey question: missing text")
	}
	return nil
}
