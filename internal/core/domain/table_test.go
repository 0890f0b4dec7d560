package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_IsMissing(t *testing.T) {
	assert.True(t, MissingCell().IsMissing())
	assert.True(t, StringCell("").IsMissing())
	assert.True(t, StringCell("   ").IsMissing())
	assert.False(t, StringCell("x").IsMissing())
	assert.False(t, NumberCell(0).IsMissing())
	assert.False(t, BoolCell(false).IsMissing())
}

func TestCell_String(t *testing.T) {
	assert.Equal(t, "", MissingCell().String())
	assert.Equal(t, "hello", StringCell("hello").String())
	assert.Equal(t, "5", NumberCell(5.0).String())
	assert.Equal(t, "5.5", NumberCell(5.5).String())
	assert.Equal(t, "-12", NumberCell(-12).String())
	assert.Equal(t, "true", BoolCell(true).String())
}

func TestCell_Int(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want int
		ok   bool
	}{
		{"integral number", NumberCell(7), 7, true},
		{"fractional number", NumberCell(7.3), 0, false},
		{"integer string", StringCell("42"), 42, true},
		{"float string", StringCell("42.0"), 42, true},
		{"padded string", StringCell(" 9 "), 9, true},
		{"non-numeric string", StringCell("abc"), 0, false},
		{"empty string", StringCell(""), 0, false},
		{"missing", MissingCell(), 0, false},
		{"bool", BoolCell(true), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Int()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable_Lookups(t *testing.T) {
	tbl := &Table{Columns: []Column{
		{Name: "Text", Cells: []Cell{StringCell("hello"), StringCell("bye")}},
		{Name: "ID", Cells: []Cell{NumberCell(1), NumberCell(2)}},
	}}

	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"Text", "ID"}, tbl.ColumnNames())
	assert.True(t, tbl.HasColumn("ID"))
	assert.False(t, tbl.HasColumn("id"))

	assert.Equal(t, "bye", tbl.Cell("Text", 1).String())
	assert.True(t, tbl.Cell("Nope", 0).IsMissing())
	assert.True(t, tbl.Cell("Text", 5).IsMissing())
}

func TestCodebook_Validate(t *testing.T) {
	cb := Codebook{{ID: 1, Label: "A"}, {ID: 2, Label: "B"}}
	require.NoError(t, cb.Validate())

	dup := Codebook{{ID: 1, Label: "A"}, {ID: 1, Label: "B"}}
	err := dup.Validate()
	require.Error(t, err)
	var dce *DuplicateCodeError
	require.ErrorAs(t, err, &dce)
	assert.Equal(t, 1, dce.ID)
}

func TestAnswer_Validate(t *testing.T) {
	cb := Codebook{{ID: 0, Label: "Code_1"}, {ID: 1, Label: "Code_2"}}

	ok := Answer{Text: "hello", Codes: []int{0, 1}}
	require.NoError(t, ok.Validate(cb))

	bad := Answer{Text: "hello", Codes: []int{5}}
	err := bad.Validate(cb)
	require.Error(t, err)
	assert.True(t, IsUnknownCode(err))
	var uce *UnknownCodeError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, 5, uce.ID)
}

func TestQuestionRef_JSON(t *testing.T) {
	byName := QuestionByName("My question")
	data, err := byName.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"My question"`, string(data))

	byID := QuestionByID(17)
	data, err = byID.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `17`, string(data))

	var ref QuestionRef
	require.NoError(t, ref.UnmarshalJSON([]byte(`23`)))
	require.NotNil(t, ref.ID)
	assert.Equal(t, 23, *ref.ID)

	require.NoError(t, ref.UnmarshalJSON([]byte(`"NPS verbatim"`)))
	assert.Nil(t, ref.ID)
	assert.Equal(t, "NPS verbatim", ref.Name)
}

func TestProject_UnmarshalTranslatedFlag(t *testing.T) {
	var p Project
	require.NoError(t, json.Unmarshal([]byte(`{"name":"P","language":"de","translated":1,"translation_engine":"DL"}`), &p))
	assert.True(t, p.Translate)
	assert.Equal(t, TranslationDeepL, p.TranslationEngine)

	var q Project
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Q","language":"en"}`), &q))
	assert.False(t, q.Translate)
}

func TestCheckLanguage(t *testing.T) {
	require.NoError(t, CheckLanguage("de"))
	err := CheckLanguage("xx")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLanguage)
}

func TestParseCodesFormat(t *testing.T) {
	f, err := ParseCodesFormat("binary-vendor")
	require.NoError(t, err)
	assert.True(t, f.IsBinary())

	f, err = ParseCodesFormat("list-generic")
	require.NoError(t, err)
	assert.False(t, f.IsBinary())

	_, err = ParseCodesFormat("binary")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
