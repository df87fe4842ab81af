package sheet

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	BinHeader = "Bin No."

	// rows from the desk's own routing account are not packages to audit
	excludedSubject = "rts troy csc"

	keptColumns = 3
	binColumn   = 1
)

var invisibleReplacer = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
	"\u00a0", "",
	"\u2060", "",
	"\u180e", "",
)

// StripInvisible removes zero-width and other invisible characters that the
// mailroom export leaves inside cell text.
func StripInvisible(s string) string {
	return invisibleReplacer.Replace(s)
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(StripInvisible(s)))
}

// FindColumn returns the index of the first header accepted by match, or -1.
// match receives the header already stripped, trimmed and lower-cased.
func FindColumn(headers []string, match func(header string) bool) int {
	for i, h := range headers {
		if match(canonical(h)) {
			return i
		}
	}
	return -1
}

func isSubjectHeader(h string) bool {
	return strings.Contains(h, "student") && strings.Contains(h, "staff")
}

func isTagHeader(h string) bool {
	return strings.Contains(h, "tag") && strings.Contains(h, "#")
}

func isShelfHeader(h string) bool {
	return h == "shelf"
}

// Normalize reshapes a raw mailroom export (row 0 is the header) into the
// audited table: first three columns only, desk-routed rows dropped, a
// derived "Bin No." column at position 1, bin rows first, all rows padded to
// the same width. The input is not modified. An empty input yields an empty
// table.
func Normalize(rows [][]string) [][]string {
	if len(rows) == 0 {
		return [][]string{}
	}

	table := project(rows)
	table = dropExcluded(table)
	table = insertBinColumn(table)
	fillBins(table)
	sortRows(table)
	return pad(table)
}

func project(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		n := len(row)
		if n > keptColumns {
			n = keptColumns
		}
		out[i] = append(make([]string, 0, keptColumns+1), row[:n]...)
	}
	return out
}

func dropExcluded(table [][]string) [][]string {
	col := FindColumn(table[0], isSubjectHeader)
	if col < 0 {
		// no recognizable subject header: keep every row
		return table
	}

	out := make([][]string, 0, len(table))
	out = append(out, table[0])
	for _, row := range table[1:] {
		if strings.Contains(canonical(cell(row, col)), excludedSubject) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func insertBinColumn(table [][]string) [][]string {
	for i, row := range table {
		value := ""
		if i == 0 {
			value = BinHeader
		}
		at := binColumn
		for len(row) < at {
			row = append(row, "")
		}
		row = append(row, "")
		copy(row[at+1:], row[at:])
		row[at] = value
		table[i] = row
	}
	return table
}

func fillBins(table [][]string) {
	tagCol := FindColumn(table[0], isTagHeader)
	shelfCol := FindColumn(table[0], isShelfHeader)
	if tagCol < 0 || shelfCol < 0 {
		return
	}

	for _, row := range table[1:] {
		if len(row) <= binColumn {
			continue
		}
		row[binColumn] = deriveBin(cell(row, tagCol), cell(row, shelfCol))
	}
}

// deriveBin returns the trailing digit of the tag when the package sits on
// the "bin" shelf.
func deriveBin(tag, shelf string) string {
	if canonical(shelf) != "bin" {
		return ""
	}
	tag = strings.TrimSpace(StripInvisible(tag))
	last, _ := utf8.DecodeLastRuneInString(tag)
	if last >= '0' && last <= '9' {
		return string(last)
	}
	return ""
}

func sortRows(table [][]string) {
	shelfCol := FindColumn(table[0], isShelfHeader)
	data := table[1:]

	sort.SliceStable(data, func(i, j int) bool {
		a, b := data[i], data[j]
		binA, binB := cell(a, binColumn), cell(b, binColumn)

		if (binA != "") != (binB != "") {
			return binA != ""
		}
		if binA != "" {
			na, _ := strconv.Atoi(binA)
			nb, _ := strconv.Atoi(binB)
			if na != nb {
				return na < nb
			}
		}

		shelfA, shelfB := "", ""
		if shelfCol >= 0 {
			shelfA, shelfB = canonical(cell(a, shelfCol)), canonical(cell(b, shelfCol))
		}
		return shelfA < shelfB
	})
}

func pad(table [][]string) [][]string {
	width := 0
	for _, row := range table {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range table {
		for len(row) < width {
			row = append(row, "")
		}
		table[i] = row
	}
	return table
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
