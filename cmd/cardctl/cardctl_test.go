package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/troycsc/desk-services/internal/cardsvc/store"
)

func testCmd() (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd, out
}

func TestSwipeArgs(t *testing.T) {
	cmd, out := testCmd()

	err := runSwipe(cmd, []string{";123456789=1234?", "1234-5678-9", ";99=?"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "swipe")
	assert.Contains(t, lines[0], "1234 5678 9")
	assert.Contains(t, lines[0], "valid=true")
	assert.Contains(t, lines[1], "manual")
	assert.Contains(t, lines[2], "valid=false")
	assert.Equal(t, "best   123456789", lines[3])
}

func TestSwipeStdin(t *testing.T) {
	cmd, out := testCmd()
	cmd.SetIn(strings.NewReader("\n%B0000;555666777=0?\n"))

	require.NoError(t, runSwipe(cmd, nil))
	assert.Contains(t, out.String(), "5556 6677 7")
}

func TestSwipeNoValidRead(t *testing.T) {
	cmd, _ := testCmd()

	err := runSwipe(cmd, []string{"12", "abc"})
	assert.Error(t, err)

	cmd.SetIn(strings.NewReader(""))
	assert.EqualError(t, runSwipe(cmd, nil), "no input")
}

func TestNormalizeWritesWorkbookAndReport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "audit.csv")
	csv := "Student / Staff Name,Tag #,Shelf,Notes\n" +
		"Ann Lee,T-1003,Bin,fragile\n" +
		"RTS Troy CSC,T-0001,Bin,\n" +
		"Bob Ray,T-2000,Floor,\n"
	require.NoError(t, os.WriteFile(src, []byte(csv), 0644))

	normalizeOut, normalizeJSON = "", false
	normalizeReport = filepath.Join(dir, "report.html")
	t.Cleanup(func() { normalizeReport = "" })

	cmd, out := testCmd()
	require.NoError(t, runNormalize(cmd, []string{src}))
	assert.Contains(t, out.String(), "2 records (1 bin, 1 other)")

	f, err := excelize.OpenFile(filepath.Join(dir, "audit_processed.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Bin No.", rows[0][1])
	assert.Equal(t, "Ann Lee", rows[1][0])
	assert.Equal(t, "3", rows[1][1])
	assert.Equal(t, "Bob Ray", rows[2][0])

	report, err := os.ReadFile(normalizeReport)
	require.NoError(t, err)
	assert.Contains(t, string(report), "Ann Lee")
}

func TestNormalizeMissingFile(t *testing.T) {
	cmd, _ := testCmd()
	err := runNormalize(cmd, []string{filepath.Join(t.TempDir(), "nope.xlsx")})
	assert.Error(t, err)
}

func TestAddUser(t *testing.T) {
	users := store.NewMemoryStore()
	userName, userEmail, userRole = "Desk Lead", "Lead@Desk.test", "admin"

	cmd, out := testCmd()
	require.NoError(t, addUser(context.Background(), cmd, users, "correct-horse"))
	assert.Contains(t, out.String(), "created admin lead@desk.test")

	u, err := users.GetUserByEmail(context.Background(), "lead@desk.test")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)

	err = addUser(context.Background(), cmd, users, "short")
	assert.Error(t, err)
}
