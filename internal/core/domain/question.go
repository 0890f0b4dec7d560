package domain

// Question represents one open-ended text item being classified.
// ID is nil until the owning project has been created server-side.
type Question struct {
	ID                    *int     `json:"id,omitempty"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	Codebook              Codebook `json:"codebook"`
	GroupIdentical        bool     `json:"group_identical"`
	GroupIdenticalExclude string   `json:"group_identical_exclude"`
	SmartSort             bool     `json:"smart_sort"`

	// InheritsFrom is the id of another question whose trained model this
	// question should learn from. The codebooks should be identical or
	// nearly so for inheritance to help.
	InheritsFrom *int `json:"inherits_from,omitempty"`
}

// NewQuestion returns a question with the server-side defaults the create
// endpoint assumes.
func NewQuestion(name string, codebook Codebook) Question {
	return Question{
		Name:           name,
		Codebook:       codebook,
		GroupIdentical: true,
	}
}
