package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stemsi/lexis/internal/config"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Backend:   config.BackendCSV,
		DataDir:   dir,
		LogLevel:  "error",
		LogFormat: "json",
	}
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, testConfig(dir))
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeed_IsRepeatable(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "seed", "-n", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "19 added, 0 already present")

	out, err = run(t, dir, "seed", "-n", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "0 added, 19 already present")
}

func TestList_TableAndJSON(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "seed", "-n", "5")
	require.NoError(t, err)

	out, err := run(t, dir, "list", "programs", "--sort", "program_code")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "CODE"))
	assert.True(t, strings.HasPrefix(lines[1], "BSBIO"))
	assert.Equal(t, "page 1 of 1 (6 records)", lines[7])

	out, err = run(t, dir, "list", "students", "--json", "-q", "Budi")
	require.NoError(t, err)
	var page struct {
		Items      []model.Student `json:"items"`
		TotalItems int             `json:"total_items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Equal(t, 1, page.TotalItems)
	assert.Equal(t, "2024-0001", page.Items[0].IDNumber)
	assert.Equal(t, "CCS", page.Items[0].CollegeCode)
}

func TestList_RejectsUnknownEntityAndSort(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "list", "teachers")
	assert.Error(t, err)

	_, err = run(t, dir, "list", "colleges", "--sort", "budget")
	assert.Error(t, err)
}

func TestGetAndDelete(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "seed", "-n", "6")
	require.NoError(t, err)

	out, err := run(t, dir, "delete", "colleges", "CCS")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	out, err = run(t, dir, "get", "programs", "BSCS")
	require.NoError(t, err)
	var p model.Program
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, model.None, p.CollegeCode)

	_, err = run(t, dir, "get", "colleges", "CCS")
	assert.Error(t, err)
}

func TestImport_FromCSVDirectory(t *testing.T) {
	src := t.TempDir()
	_, err := run(t, src, "seed", "-n", "3")
	require.NoError(t, err)

	dst := t.TempDir()
	out, err := run(t, dst, "import", "--from", src)
	require.NoError(t, err)
	assert.Contains(t, out, "colleges 3 copied/0 skipped")
	assert.Contains(t, out, "students 3 copied/0 skipped/0 detached")

	data, err := os.ReadFile(filepath.Join(dst, "students.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-0003")
}

func TestImport_RequiresFrom(t *testing.T) {
	_, err := run(t, t.TempDir(), "import")
	assert.Error(t, err)
}
