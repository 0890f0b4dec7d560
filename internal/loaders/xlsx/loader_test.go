package xlsx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "answers.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad_Success(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Text", "Code_1", "ID"},
		{"hello", 1, "r1"},
		{"bye", nil, "r2"},
	})

	table, err := New().Load(context.Background(), path, driven.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Text", "Code_1", "ID"}, table.ColumnNames())
	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, "hello", table.Cell("Text", 0).String())
	n, ok := table.Cell("Code_1", 0).Int()
	require.True(t, ok)
	assert.Equal(t, 1, n)
	assert.True(t, table.Cell("Code_1", 1).IsMissing())
}

func TestLoad_SheetOutOfRange(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"Text"}, {"hello"}})

	_, err := New().Load(context.Background(), path, driven.LoadOptions{Sheet: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnreadableFile)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o600))

	_, err := New().Load(context.Background(), path, driven.LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnreadableFile)
}

func TestLoad_LegacyXLS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.xls")
	require.NoError(t, os.WriteFile(path, []byte{0xd0, 0xcf, 0x11, 0xe0}, 0o600))

	_, err := New().Load(context.Background(), path, driven.LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnreadableFile)
	assert.Contains(t, err.Error(), ".xlsx")
}
