package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/config"
	"github.com/stemsi/lexis/internal/repository/csvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_CSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	cfg := &config.Config{Backend: config.BackendCSV, DataDir: dir}

	store, err := OpenStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &csvstore.Store{}, store)
	_, err = os.Stat(filepath.Join(dir, csvstore.StudentsFile))
	assert.NoError(t, err)
}

func TestOpenStore_RejectsInvalidConfig(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{Backend: "sqlite"}, zerolog.Nop())
	assert.Error(t, err)
}
