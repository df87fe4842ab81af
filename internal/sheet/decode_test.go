package sheet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func mkXLSX(t *testing.T, sheets map[string][][]string, order ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, f.SetCellValue(name, cell, v))
			}
		}
	}

	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestAuditXLSXUsesFirstSheet(t *testing.T) {
	blob := mkXLSX(t, map[string][][]string{
		"Packages": {
			{"Student/staff", "Tag #", "Shelf", "Tracking #"},
			{"Jane Doe", "Tag A1", "BIN", "1Z999"},
			{"RTS Troy CSC", "Tag B2", "A", "1Z998"},
			{"John Roe", "Tag C3", "A", "1Z997"},
		},
		"Notes": {{"ignored"}},
	}, "Packages", "Notes")

	res, err := Audit("export.xlsx", blob)
	require.NoError(t, err)

	assert.Equal(t, "Packages", res.SheetName)
	assert.Equal(t, "export.xlsx", res.FileName)
	assert.Equal(t, [][]string{
		{"Student/staff", BinHeader, "Tag #", "Shelf"},
		{"Jane Doe", "1", "Tag A1", "BIN"},
		{"John Roe", "", "Tag C3", "A"},
	}, res.Rows)
	assert.Equal(t, Summary{BinItems: 1, OtherItems: 1, Total: 2}, res.Summary)
}

func TestAuditCSV(t *testing.T) {
	data := []byte("\xef\xbb\xbfStudent/staff,Tag #,Shelf,Date\r\nJane Doe,Tag A1,BIN,2024-01-01\r\n\"Roe, John\",Tag 7,bin\r\n")

	res, err := Audit("export.csv", data)
	require.NoError(t, err)

	assert.Equal(t, csvSheetName, res.SheetName)
	assert.Equal(t, [][]string{
		{"Student/staff", BinHeader, "Tag #", "Shelf"},
		{"Jane Doe", "1", "Tag A1", "BIN"},
		{"Roe, John", "7", "Tag 7", "bin"},
	}, res.Rows)
}

func TestAuditEmptyWorksheet(t *testing.T) {
	_, err := Audit("empty.csv", []byte(""))
	assert.ErrorIs(t, err, ErrEmptyWorksheet)

	blob := mkXLSX(t, map[string][][]string{"Empty": nil}, "Empty")
	_, err = Audit("empty.xlsx", blob)
	assert.ErrorIs(t, err, ErrEmptyWorksheet)
}

func TestAuditUnreadableFile(t *testing.T) {
	_, err := Audit("broken.xlsx", []byte("this is not a zip archive"))
	require.Error(t, err)

	var readErr *FileReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, "broken.xlsx", readErr.Name)

	_, err = Audit("broken.xls", []byte("nope"))
	assert.True(t, errors.As(err, &readErr))
}

func TestAuditRejectsBinaryAsCSV(t *testing.T) {
	for _, name := range []string{"x.csv", "upload"} {
		_, err := Audit(name, []byte{0, 0xff, 0xfe, 1})

		var readErr *FileReadError
		require.True(t, errors.As(err, &readErr), name)
		assert.Equal(t, name, readErr.Name)
	}

	_, err := Audit("latin.csv", []byte("Student/staff\n\xe9t\xe9\n"))
	assert.Error(t, err)
}

func TestDecodeSniffsWithoutExtension(t *testing.T) {
	blob := mkXLSX(t, map[string][][]string{"Data": {{"a", "b"}}}, "Data")

	wb, err := Decode("upload", blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"Data"}, wb.SheetNames)

	wb, err = Decode("upload", []byte("x,y\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "y"}, {"1", "2"}}, wb.Sheets[csvSheetName])
}

func TestWorkbookFirst(t *testing.T) {
	_, _, err := (&Workbook{}).First()
	assert.ErrorIs(t, err, ErrEmptyWorkbook)

	var wb *Workbook
	_, _, err = wb.First()
	assert.ErrorIs(t, err, ErrEmptyWorkbook)
}

func TestAuditFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.csv")
	require.NoError(t, os.WriteFile(path, []byte("Student/staff,Tag #,Shelf\nA,T1,bin\n"), 0o644))

	res, err := AuditFile(path)
	require.NoError(t, err)
	assert.Equal(t, "desk.csv", res.FileName)
	assert.Equal(t, []string{"A", "1", "T1", "bin"}, res.Rows[1])

	_, err = AuditFile(filepath.Join(t.TempDir(), "missing.csv"))
	var readErr *FileReadError
	assert.True(t, errors.As(err, &readErr))
}
