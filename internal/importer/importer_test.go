package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/repository/csvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestImport_CopiesParentsFirstAndSkipsExisting(t *testing.T) {
	ctx := context.Background()
	srcDir := t.TempDir()
	write(t, srcDir, csvstore.CollegesFile, "College Code,College Name\nCCS,Computer Studies\nCASS,Arts\n")
	// BSN points at a college the source never had.
	write(t, srcDir, csvstore.ProgramsFile, "Program Code,Program Name,College Code\nBSCS,BS CS,CCS\nBSN,BS Nursing,CON\n")
	write(t, srcDir, csvstore.StudentsFile, "ID Number,First Name,Last Name,Year Level,Gender,Program Code\n"+
		"2023-0001,Lucy,Ramos,2,Female,BSCS\n"+
		"2023-0002,Ramon,Lucero,1,Male,N/A\n")

	src, err := csvstore.New(srcDir, zerolog.Nop())
	require.NoError(t, err)
	dst, err := csvstore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, dst.Colleges().Add(ctx, &model.College{Code: "CCS", Name: "Already here"}))

	report, err := New(zerolog.Nop()).Import(ctx, src, dst)
	require.NoError(t, err)

	assert.Equal(t, Counts{Copied: 1, Skipped: 1}, report.Colleges)
	assert.Equal(t, Counts{Copied: 2, Detached: 1}, report.Programs)
	assert.Equal(t, Counts{Copied: 2}, report.Students)

	c, err := dst.Colleges().GetByCode(ctx, "CCS")
	require.NoError(t, err)
	assert.Equal(t, "Already here", c.Name)

	p, err := dst.Programs().GetByCode(ctx, "BSN")
	require.NoError(t, err)
	assert.Equal(t, model.None, p.CollegeCode)

	st, err := dst.Students().GetByID(ctx, "2023-0001")
	require.NoError(t, err)
	assert.Equal(t, "CCS", st.CollegeCode)
}

func TestImport_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	src, err := csvstore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, src.Colleges().Add(ctx, &model.College{Code: "CCS", Name: "Computer Studies"}))
	dst, err := csvstore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	im := New(zerolog.Nop())

	_, err = im.Import(ctx, src, dst)
	require.NoError(t, err)
	report, err := im.Import(ctx, src, dst)
	require.NoError(t, err)

	assert.Equal(t, Counts{Skipped: 1}, report.Colleges)
}
