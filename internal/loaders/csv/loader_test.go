package csv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Success(t *testing.T) {
	path := writeFile(t, "answers.csv",
		"Text,Code_1,Code_2,ID\nhello,1,0,r1\nbye,,1,r2\n")

	table, err := New().Load(context.Background(), path, driven.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Text", "Code_1", "Code_2", "ID"}, table.ColumnNames())
	require.Equal(t, 2, table.NumRows())

	assert.Equal(t, "hello", table.Cell("Text", 0).String())
	assert.Equal(t, domain.CellNumber, table.Cell("Code_1", 0).Kind)
	assert.True(t, table.Cell("Code_1", 1).IsMissing())
	assert.Equal(t, "r2", table.Cell("ID", 1).String())
}

func TestLoad_RaggedRows(t *testing.T) {
	path := writeFile(t, "ragged.csv", "A,B,C\n1,2\n")

	table, err := New().Load(context.Background(), path, driven.LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, table.NumRows())
	assert.True(t, table.Cell("C", 0).IsMissing())
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "")

	_, err := New().Load(context.Background(), path, driven.LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnreadableFile)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), driven.LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnreadableFile)
}

func TestLoad_BoolAndNumberInference(t *testing.T) {
	path := writeFile(t, "typed.csv", "Reviewed,Score\nTRUE,4.5\nfalse,3\n")

	table, err := New().Load(context.Background(), path, driven.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.CellBool, table.Cell("Reviewed", 0).Kind)
	assert.True(t, table.Cell("Reviewed", 0).Bool)
	assert.Equal(t, domain.CellBool, table.Cell("Reviewed", 1).Kind)
	assert.Equal(t, 4.5, table.Cell("Score", 0).Num)
}
