package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScenario(t *testing.T) {
	in := [][]string{
		{"Student/staff", "Tag #", "Shelf", "Tracking", "Date"},
		{"Jane Doe", "Tag A1", "BIN", "x", "y"},
	}

	out := Normalize(in)

	require.Len(t, out, 2)
	assert.Equal(t, []string{"Student/staff", BinHeader, "Tag #", "Shelf"}, out[0])
	assert.Equal(t, []string{"Jane Doe", "1", "Tag A1", "BIN"}, out[1])
}

func TestNormalizeHeaderShape(t *testing.T) {
	in := [][]string{
		{"Student / Staff", "TAG #", "Shelf", "Tracking #", "Mailroom", "Date"},
		{"A", "1", "bin", "t", "m", "d"},
	}

	out := Normalize(in)

	assert.Equal(t, []string{"Student / Staff", BinHeader, "TAG #", "Shelf"}, out[0])
	for _, row := range out {
		assert.Len(t, row, 4)
	}
}

func TestNormalizeDropsDeskRoutedRows(t *testing.T) {
	in := [][]string{
		{"Student/Staff", "Tag #", "Shelf"},
		{"Jane Doe", "T1", "A"},
		{"RT\u200bS Troy\u200d CSC", "T2", "A"},
		{"  rts troy csc annex\ufeff", "T3", "A"},
		{"RTS TROY CSC", "T4", "A"},
		{"John Roe", "T5", "B"},
		{"RTS Troy\u00a0CSC", "T6", "B"},
	}

	out := Normalize(in)

	// the no-break space is stripped, leaving "rts troycsc", which is kept
	require.Len(t, out, 4)
	names := []string{}
	for _, row := range out[1:] {
		names = append(names, row[0])
	}
	assert.ElementsMatch(t, []string{"Jane Doe", "John Roe", "RTS Troy\u00a0CSC"}, names)
}

func TestNormalizeKeepsRowsWithoutSubjectHeader(t *testing.T) {
	in := [][]string{
		{"Name", "Tag #", "Shelf"},
		{"RTS Troy CSC", "T1", "A"},
		{"Jane", "T2", "A"},
	}

	out := Normalize(in)

	assert.Len(t, out, len(in))
}

func TestNormalizeBinDerivation(t *testing.T) {
	in := [][]string{
		{"Student/staff", "Tag #", "Shelf"},
		{"digit", "Tag A1 ", "\u200bbin "},
		{"letter", "Tag 1A", "bin"},
		{"other shelf", "Tag 9", "Shelf B"},
		{"empty tag", "", "bin"},
		{"invisible tail", "Tag 5\u200b", "BIN"},
	}

	out := Normalize(in)

	bins := map[string]string{}
	for _, row := range out[1:] {
		bins[row[0]] = row[1]
	}
	assert.Equal(t, map[string]string{
		"digit":          "1",
		"letter":         "",
		"other shelf":    "",
		"empty tag":      "",
		"invisible tail": "5",
	}, bins)
}

func TestNormalizeNoBinWithoutTagOrShelfHeader(t *testing.T) {
	in := [][]string{
		{"Student/staff", "Tag", "Shelf"},
		{"Jane", "Tag 1", "bin"},
	}

	out := Normalize(in)

	assert.Equal(t, []string{"Jane", "", "Tag 1", "bin"}, out[1])
}

func TestNormalizeSortOrder(t *testing.T) {
	in := [][]string{
		{"Student/Staff", "Tag #", "Shelf"},
		{"Ann", "T-12", "Shelf B"},
		{"Bob", "T-7", "bin"},
		{"Cy", "T-3", "Bin"},
		{"Dee", "T-X", "bin"},
		{"Eve", "T-4", "A"},
	}

	out := Normalize(in)

	got := []string{}
	for _, row := range out[1:] {
		got = append(got, row[0])
	}
	assert.Equal(t, []string{"Cy", "Bob", "Eve", "Dee", "Ann"}, got)
	assert.Equal(t, "Student/Staff", out[0][0])
}

func TestNormalizeSortIsStable(t *testing.T) {
	in := [][]string{
		{"Student/staff", "Tag #", "Shelf"},
		{"First", "T-1", "bin"},
		{"Plain 1", "P", "a"},
		{"Second", "X1", "BIN"},
		{"Plain 2", "P", "A"},
	}

	out := Normalize(in)

	got := []string{}
	for _, row := range out[1:] {
		got = append(got, row[0])
	}
	assert.Equal(t, []string{"First", "Second", "Plain 1", "Plain 2"}, got)
}

func TestNormalizePadsRows(t *testing.T) {
	in := [][]string{
		{"Student/staff", "Tag #"},
		{"Solo"},
		{"A", "B", "C", "D"},
		{},
	}

	out := Normalize(in)

	require.Len(t, out, 4)
	for _, row := range out {
		assert.Len(t, row, 4)
	}
	assert.Equal(t, []string{"Student/staff", BinHeader, "Tag #", ""}, out[0])
}

func TestNormalizeBlankHeaderRow(t *testing.T) {
	out := Normalize([][]string{{}, {"A", "B", "C"}})

	require.Len(t, out, 2)
	assert.Equal(t, []string{"", BinHeader, "", ""}, out[0])
	assert.Equal(t, []string{"A", "", "B", "C"}, out[1])
}

func TestNormalizeHeaderOnly(t *testing.T) {
	out := Normalize([][]string{{"Student/staff", "Tag #", "Shelf"}})

	assert.Equal(t, [][]string{{"Student/staff", BinHeader, "Tag #", "Shelf"}}, out)
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := [][]string{
		{"Student/staff", "Tag #", "Shelf", "Date"},
		{"B", "T2", "bin", "d"},
		{"A", "T1", "bin", "d"},
	}
	snapshot := [][]string{
		{"Student/staff", "Tag #", "Shelf", "Date"},
		{"B", "T2", "bin", "d"},
		{"A", "T1", "bin", "d"},
	}

	Normalize(in)

	assert.Equal(t, snapshot, in)
}

// The normalizer expects the raw export; feeding its own output back in
// derives a second bin column.
func TestNormalizeIsNotIdempotent(t *testing.T) {
	in := [][]string{
		{"Student/staff", "Tag #", "Shelf", "Tracking"},
		{"Jane Doe", "Tag A1", "BIN", "x"},
	}

	once := Normalize(in)
	twice := Normalize(once)

	assert.NotEqual(t, once, twice)
	assert.Equal(t, []string{"Student/staff", BinHeader, BinHeader, "Tag #"}, twice[0])
}

func TestFindColumn(t *testing.T) {
	headers := []string{" Student\u200b/Staff ", "TAG #", "SHELF"}

	assert.Equal(t, 0, FindColumn(headers, isSubjectHeader))
	assert.Equal(t, 1, FindColumn(headers, isTagHeader))
	assert.Equal(t, 2, FindColumn(headers, isShelfHeader))
	assert.Equal(t, -1, FindColumn(headers, func(h string) bool { return h == "date" }))
	assert.Equal(t, -1, FindColumn(nil, isShelfHeader))
}

func TestStripInvisible(t *testing.T) {
	assert.Equal(t, "abc", StripInvisible("\u200ba\u200cb\u200d\ufeffc\u2060\u180e"))
	assert.Equal(t, "ab", StripInvisible("a\u00a0b"))
	assert.Equal(t, "a b", StripInvisible("a b"))
}

func TestSummarize(t *testing.T) {
	rows := [][]string{
		{"Student/staff", BinHeader, "Tag #", "Shelf"},
		{"A", "1", "T1", "bin"},
		{"B", "", "T2", "A"},
		{"C", "3", "T3", "bin"},
	}

	assert.Equal(t, Summary{BinItems: 2, OtherItems: 1, Total: 3}, Summarize(rows))
	assert.Equal(t, Summary{}, Summarize(rows[:1]))
}
