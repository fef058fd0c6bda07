package tabio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvetools/curveconv/internal/convert"
)

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "works.csv")

	header := []string{"Work Title", "ISWC"}
	rows := [][]string{
		{"Midnight Sun", "T-012345678-9"},
		{"Hey, Jude", ""}, // embedded comma must survive quoting
	}
	require.NoError(t, WriteTable(path, header, rows))

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, header, table.Header)
	assert.Equal(t, rows, table.Records)
}

func TestXLSXRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "works.xlsx")

	header := []string{"Work Title", "Share"}
	rows := [][]string{{"Midnight Sun", "50"}}
	require.NoError(t, WriteTable(path, header, rows))

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, header, table.Header)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Midnight Sun", table.Records[0][0])
	assert.Equal(t, "50", table.Records[0][1])
}

func TestReadTablePadsShortRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ragged.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,B,C\n1,2,3\n1\n"), 0644))

	table, err := ReadTable(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, []string{"1", "", ""}, table.Records[1])
}

func TestReadTableEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := ReadTable(path)
	assert.Error(t, err)
}

func TestWriteDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")

	diags := []convert.Diagnostic{
		{RowIndex: 2, WorkTitle: "Unknown", Code: "REQUIRED_FIELD_MISSING", Detail: `Required field "Work Title" is empty`},
		{RowIndex: 3, WorkTitle: "Two Writers", Code: "MECHANICAL_SHARES_INVALID", Detail: "Mechanical shares total 105%, should be 100%"},
	}
	require.NoError(t, WriteDiagnostics(path, diags))

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"row_index", "work_title", "error_code", "error_detail"}, table.Header)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "2", table.Records[0][0])
	assert.Equal(t, "MECHANICAL_SHARES_INVALID", table.Records[1][2])
}

func TestErrorReportPath(t *testing.T) {
	assert.Equal(t, "out_errors.csv", ErrorReportPath("out.csv"))
	assert.Equal(t, "out_errors.csv", ErrorReportPath("out.xlsx"))
	assert.Equal(t, "dir/out_errors.csv", ErrorReportPath("dir/out.csv"))
	assert.Equal(t, "plain_errors.csv", ErrorReportPath("plain"))
}
