package sheet

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyWorkbook  = errors.New("workbook has no worksheets")
	ErrEmptyWorksheet = errors.New("first worksheet has no rows")
)

// FileReadError reports an upload whose bytes could not be decoded as a
// spreadsheet.
type FileReadError struct {
	Name string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("unable to read %q: %v", e.Name, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}
