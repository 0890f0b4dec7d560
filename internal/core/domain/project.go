package domain

import (
	"encoding/json"
	"fmt"
)

// ValidProjectLanguages is the fixed set of languages a project may use.
var ValidProjectLanguages = []string{"en", "de", "es", "pt", "fr"}

// Translation engine choices accepted by the create-project endpoint.
const (
	TranslationGoogle = "GT"
	TranslationDeepL  = "DL"
)

// Project is the root aggregate: it owns questions and, at creation time,
// an initial batch of rows. ID is nil until created server-side.
type Project struct {
	ID                   *int       `json:"id,omitempty"`
	Name                 string     `json:"name"`
	Language             string     `json:"language"`
	AuxiliaryColumnNames []string   `json:"auxiliary_column_names"`
	Translate            bool       `json:"-"`
	TranslationEngine    string     `json:"translation_engine,omitempty"`
	Questions            []Question `json:"questions"`
	Rows                 []Row      `json:"rows,omitempty"`

	// Server-populated metadata, read-only locally.
	Created   string `json:"created,omitempty"`
	Completed bool   `json:"completed,omitempty"`
}

// UnmarshalJSON maps the API's integer "translated" flag onto Translate.
// The flag is written by the connector at creation time, so Project
// itself never marshals it.
func (p *Project) UnmarshalJSON(data []byte) error {
	type alias Project
	aux := struct {
		*alias
		Translated int `json:"translated"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Translate = aux.Translated != 0
	return nil
}

// CheckLanguage validates the project language against the allowed set.
func CheckLanguage(lang string) error {
	for _, l := range ValidProjectLanguages {
		if lang == l {
			return nil
		}
	}
	return fmt.Errorf("%w %q, accepted values are %v", ErrInvalidLanguage, lang, ValidProjectLanguages)
}

// PredictedAnswer is one answer id with its model-predicted codes.
type PredictedAnswer struct {
	ID    int   `json:"id"`
	Codes []int `json:"codes"`
}

// Predictions is the read-only result of a remote training cycle.
type Predictions struct {
	Answers           []PredictedAnswer `json:"answers"`
	Model             map[string]any    `json:"model"`
	NTrainings        int               `json:"n_trainings"`
	TrainingCompleted string            `json:"training_completed"`
}
