package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const csvSheetName = "Sheet1"

var (
	zipMagic   = []byte("PK\x03\x04")
	errNotText = errors.New("not a text csv file")
)

// Audit decodes an uploaded file and runs the first worksheet through
// Normalize.
func Audit(name string, data []byte) (*Result, error) {
	wb, err := Decode(name, data)
	if err != nil {
		return nil, err
	}

	sheetName, rows, err := wb.First()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorksheet
	}

	out := Normalize(rows)
	return &Result{
		FileName:  name,
		SheetName: sheetName,
		Rows:      out,
		Summary:   Summarize(out),
	}, nil
}

// AuditFile is Audit over a file on disk.
func AuditFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Name: filepath.Base(path), Err: err}
	}
	return Audit(filepath.Base(path), data)
}

// Decode parses xlsx, xls or csv content. The format is chosen from the file
// extension, falling back to content sniffing when the name has none.
func Decode(name string, data []byte) (*Workbook, error) {
	var (
		wb  *Workbook
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		wb, err = decodeXLSX(data)
	case ".xls":
		wb, err = decodeXLS(data)
	case ".csv", ".txt":
		wb, err = decodeCSV(data)
	default:
		if bytes.HasPrefix(data, zipMagic) {
			wb, err = decodeXLSX(data)
		} else {
			wb, err = decodeCSV(data)
		}
	}
	if err != nil {
		return nil, &FileReadError{Name: name, Err: err}
	}
	if len(wb.SheetNames) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return wb, nil
}

func decodeXLSX(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &Workbook{Sheets: map[string][][]string{}}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		wb.SheetNames = append(wb.SheetNames, name)
		wb.Sheets[name] = rows
	}
	return wb, nil
}

func decodeXLS(data []byte) (wb *Workbook, err error) {
	// the BIFF reader panics on some truncated files
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, fmt.Errorf("corrupt xls: %v", r)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	wb = &Workbook{Sheets: map[string][][]string{}}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		rows := make([][]string, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, []string{})
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		wb.SheetNames = append(wb.SheetNames, ws.Name)
		wb.Sheets[ws.Name] = trimTrailingEmpty(rows)
	}
	return wb, nil
}

func decodeCSV(data []byte) (*Workbook, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return nil, errNotText
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows := [][]string{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}

	return &Workbook{
		SheetNames: []string{csvSheetName},
		Sheets:     map[string][][]string{csvSheetName: rows},
	}, nil
}

func trimTrailingEmpty(rows [][]string) [][]string {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		if strings.TrimSpace(strings.Join(last, "")) != "" {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}
