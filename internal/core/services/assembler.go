package services

import (
	"fmt"
	"strings"

	"github.com/codelime/codelime-cli/internal/codebook"
	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/logger"
)

// QuestionColumns maps table columns onto one question's answers.
type QuestionColumns struct {
	// Question is the question name answers are attached to.
	Question string

	// Text is the column holding the verbatim answer text.
	Text string

	// SourceLanguage is an optional column with the per-row language of
	// the text. Values that are not a two-letter code are dropped.
	SourceLanguage string

	// Reviewed is an optional column marking an answer as reviewed.
	// When empty and code columns are present, any coded answer counts
	// as reviewed.
	Reviewed string

	// Codes are the columns carrying pre-existing code assignments.
	Codes []string

	// Format tells how the code columns encode assignments.
	Format domain.CodesFormat

	// Codebook validates and resolves the assignments.
	Codebook domain.Codebook
}

// AssembleSpec describes how a whole table becomes rows.
type AssembleSpec struct {
	Questions []QuestionColumns

	// Auxiliary lists columns carried along untyped. When nil, every
	// column not claimed by a question role becomes auxiliary, in table
	// order.
	Auxiliary []string
}

// RowAssembler turns a loaded table into upload-ready rows.
type RowAssembler struct{}

// NewRowAssembler creates a row assembler.
func NewRowAssembler() *RowAssembler {
	return &RowAssembler{}
}

// AuxiliaryColumns resolves the auxiliary column set for a spec against
// a table. Explicit lists are validated; a nil list defaults to all
// unclaimed columns.
func (a *RowAssembler) AuxiliaryColumns(table *domain.Table, spec AssembleSpec) ([]string, error) {
	if spec.Auxiliary != nil {
		for _, name := range spec.Auxiliary {
			if !table.HasColumn(name) {
				return nil, &domain.MissingColumnError{Column: name}
			}
		}
		return spec.Auxiliary, nil
	}

	claimed := map[string]bool{}
	for _, q := range spec.Questions {
		claimed[q.Text] = true
		if q.SourceLanguage != "" {
			claimed[q.SourceLanguage] = true
		}
		if q.Reviewed != "" {
			claimed[q.Reviewed] = true
		}
		for _, col := range q.Codes {
			claimed[col] = true
		}
	}

	var aux []string
	for _, name := range table.ColumnNames() {
		if !claimed[name] {
			aux = append(aux, name)
		}
	}
	return aux, nil
}

// Assemble builds one row per table row. Each question contributes one
// answer per row; missing text becomes the empty string rather than
// dropping the row, so row counts line up with auxiliary data.
func (a *RowAssembler) Assemble(table *domain.Table, spec AssembleSpec) ([]domain.Row, error) {
	if len(spec.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions mapped", domain.ErrInvalidInput)
	}

	aux, err := a.AuxiliaryColumns(table, spec)
	if err != nil {
		return nil, err
	}

	type questionPlan struct {
		cols     QuestionColumns
		codes    [][]int
		reviewed []bool
	}

	plans := make([]questionPlan, 0, len(spec.Questions))
	for _, q := range spec.Questions {
		if !table.HasColumn(q.Text) {
			return nil, &domain.MissingColumnError{Column: q.Text}
		}
		if q.SourceLanguage != "" && !table.HasColumn(q.SourceLanguage) {
			return nil, &domain.MissingColumnError{Column: q.SourceLanguage}
		}
		if q.Reviewed != "" && !table.HasColumn(q.Reviewed) {
			return nil, &domain.MissingColumnError{Column: q.Reviewed}
		}
		for _, col := range q.Codes {
			if !table.HasColumn(col) {
				return nil, &domain.MissingColumnError{Column: col}
			}
		}

		plan := questionPlan{cols: q}
		if len(q.Codes) > 0 {
			if q.Format.IsBinary() {
				plan.codes, err = codebook.BinaryAssignments(table, q.Codes, q.Codebook)
			} else {
				plan.codes, err = codebook.ListAssignments(table, q.Codes, q.Codebook)
			}
			if err != nil {
				return nil, err
			}
			if q.Reviewed == "" {
				plan.reviewed = codebook.ReviewedFromCodes(table, q.Codes)
			}
		}
		plans = append(plans, plan)
	}

	rows := make([]domain.Row, 0, table.NumRows())
	for i := 0; i < table.NumRows(); i++ {
		row := domain.Row{
			AuxiliaryColumns: make([]string, 0, len(aux)),
			Answers:          make([]domain.Answer, 0, len(plans)),
		}
		for _, name := range aux {
			row.AuxiliaryColumns = append(row.AuxiliaryColumns, table.Cell(name, i).String())
		}

		for _, plan := range plans {
			answer := domain.Answer{
				Text:     table.Cell(plan.cols.Text, i).String(),
				Question: domain.QuestionByName(plan.cols.Question),
			}
			if plan.cols.SourceLanguage != "" {
				answer.SourceLanguage = normalizeLanguage(table.Cell(plan.cols.SourceLanguage, i))
			}
			if plan.codes != nil {
				answer.Codes = plan.codes[i]
			}
			switch {
			case plan.cols.Reviewed != "":
				answer.Reviewed = codebook.Truthy(table.Cell(plan.cols.Reviewed, i))
			case plan.reviewed != nil:
				answer.Reviewed = plan.reviewed[i]
			}
			row.Answers = append(row.Answers, answer)
		}
		rows = append(rows, row)
	}

	logger.Debug("assembled %d rows with %d answers each", len(rows), len(plans))
	return rows, nil
}

// normalizeLanguage lower-cases a per-row language value and drops
// anything that is not a plain two-letter code.
func normalizeLanguage(c domain.Cell) string {
	if c.IsMissing() {
		return ""
	}
	lang := strings.ToLower(strings.TrimSpace(c.String()))
	if len(lang) != 2 {
		return ""
	}
	for _, r := range lang {
		if r < 'a' || r > 'z' {
			return ""
		}
	}
	return lang
}
