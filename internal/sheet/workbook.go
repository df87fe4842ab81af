package sheet

// Workbook is a decoded upload: sheet names in file order and the raw rows
// of each sheet. Empty cells are empty strings.
type Workbook struct {
	SheetNames []string
	Sheets     map[string][][]string
}

// First returns the first worksheet's name and rows.
func (w *Workbook) First() (string, [][]string, error) {
	if w == nil || len(w.SheetNames) == 0 {
		return "", nil, ErrEmptyWorkbook
	}
	name := w.SheetNames[0]
	return name, w.Sheets[name], nil
}

// Summary counts the data rows of a normalized table.
type Summary struct {
	BinItems   int `json:"binItems"`
	OtherItems int `json:"otherItems"`
	Total      int `json:"total"`
}

// Result is one audited upload.
type Result struct {
	FileName  string     `json:"fileName"`
	SheetName string     `json:"sheetName"`
	Rows      [][]string `json:"rows"`
	Summary   Summary    `json:"summary"`
}

func Summarize(rows [][]string) Summary {
	s := Summary{}
	if len(rows) < 2 {
		return s
	}
	for _, row := range rows[1:] {
		if cell(row, binColumn) != "" {
			s.BinItems++
		} else {
			s.OtherItems++
		}
	}
	s.Total = s.BinItems + s.OtherItems
	return s
}
