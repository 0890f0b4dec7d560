package domain

import (
	"encoding/json"
	"fmt"
)

// QuestionRef identifies the question an answer belongs to. Before the
// owning project exists server-side questions are referenced by name; once
// created, by server-assigned id. On the wire this is a bare string or
// number, so it carries custom JSON marshalling.
type QuestionRef struct {
	Name string
	ID   *int
}

// QuestionByName references a question by name (pre-creation).
func QuestionByName(name string) QuestionRef { return QuestionRef{Name: name} }

// QuestionByID references a question by server id (post-creation).
func QuestionByID(id int) QuestionRef { return QuestionRef{ID: &id} }

// MarshalJSON emits the id when set, the name otherwise.
func (r QuestionRef) MarshalJSON() ([]byte, error) {
	if r.ID != nil {
		return json.Marshal(*r.ID)
	}
	return json.Marshal(r.Name)
}

// UnmarshalJSON accepts either a number (id) or a string (name).
func (r *QuestionRef) UnmarshalJSON(data []byte) error {
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = &id
		r.Name = ""
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.Name = name
		r.ID = nil
		return nil
	}
	return fmt.Errorf("question reference %s: %w", data, ErrInvalidInput)
}

// Answer is one text response to one question, with its code assignment.
// Reviewed answers are treated as ground truth by the remote classifier.
type Answer struct {
	ID       *int        `json:"id,omitempty"`
	Text     string      `json:"text"`
	Question QuestionRef `json:"question"`
	Reviewed bool        `json:"reviewed"`
	Codes    []int       `json:"codes"`

	// SourceLanguage is a two-letter ISO code; empty means "let the server
	// detect". Omitted from the wire when empty rather than sent invalid.
	SourceLanguage string `json:"source_language,omitempty"`
}

// Validate checks every assigned code id against the codebook.
func (a *Answer) Validate(cb Codebook) error {
	for _, id := range a.Codes {
		if !cb.Contains(id) {
			return &UnknownCodeError{ID: id}
		}
	}
	return nil
}

// Row is one input record: the auxiliary passthrough values plus exactly
// one answer per question of the owning project, in question order.
type Row struct {
	AuxiliaryColumns []string `json:"auxiliary_columns"`
	Answers          []Answer `json:"answers"`
}
